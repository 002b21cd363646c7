package presentation

import (
	"strings"

	"github.com/pamfold/pamfold/internal/bufdata"
)

// FoldDTO represents one fold for presentation
type FoldDTO struct {
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	Lines int    `json:"lines" yaml:"lines"`
	Level int    `json:"level" yaml:"level"`
	Title string `json:"title" yaml:"title"`
}

// FromFoldEntry converts a fold entry to a DTO with the derived line
// count. The title keeps the text the editor would display on the
// closed fold, minus the padding spaces folds carry on screen.
func FromFoldEntry(e bufdata.FoldEntry) FoldDTO {
	return FoldDTO{
		Start: e.Start,
		End:   e.End,
		Lines: e.End - e.Start + 1,
		Level: e.Level,
		Title: strings.TrimSpace(e.Text),
	}
}

// FromFoldEntries converts a slice of fold entries to DTOs
func FromFoldEntries(entries []bufdata.FoldEntry) []FoldDTO {
	dtos := make([]FoldDTO, len(entries))
	for i, e := range entries {
		dtos[i] = FromFoldEntry(e)
	}
	return dtos
}
