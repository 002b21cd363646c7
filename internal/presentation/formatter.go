package presentation

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	familyStyle = lipgloss.NewStyle().Faint(true)
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatFoldsJSON formats folds as indented JSON
func (f *Formatter) FormatFoldsJSON(folds []FoldDTO) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(folds)
}

// FormatFoldsYAML formats folds as a YAML document
func (f *Formatter) FormatFoldsYAML(folds []FoldDTO) error {
	out, err := yaml.Marshal(folds)
	if err != nil {
		return err
	}
	_, err = f.writer.Write(out)
	return err
}

// FormatFoldsText formats folds as an aligned table. Family folds are
// rendered faint so card folds stand out between them.
func (f *Formatter) FormatFoldsText(folds []FoldDTO) error {
	if len(folds) == 0 {
		_, err := fmt.Fprintln(f.writer, "no folds")
		return err
	}

	header := fmt.Sprintf("%7s  %-5s  %s", "RANGE", "LEVEL", "TITLE")
	if _, err := fmt.Fprintln(f.writer, headerStyle.Render(header)); err != nil {
		return err
	}

	for _, d := range folds {
		row := fmt.Sprintf("%3d-%-3d  %-5d  %s", d.Start, d.End, d.Level, d.Title)
		if d.Level > 1 {
			row = familyStyle.Render(row)
		}
		if _, err := fmt.Fprintln(f.writer, row); err != nil {
			return err
		}
	}
	return nil
}
