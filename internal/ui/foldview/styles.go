package foldview

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pamfold/pamfold/internal/card"
)

var (
	// Semantic color names - text hierarchy
	textPrimaryColor = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#CCCCCC"}
	textMutedColor   = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#696969"}
	errorColor       = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"}

	// Semantic color names - chrome
	borderColor    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	selectionColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#54A0FF"}

	// Card cell colors (Catppuccin)
	keywordColor  = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"} // mauve
	cellEvenColor = lipgloss.AdaptiveColor{Light: "#179299", Dark: "#94E2D5"} // teal
	cellOddColor  = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"} // blue

	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(textPrimaryColor)
	statusErrStyle = lipgloss.NewStyle().Foreground(errorColor)
	mutedStyle     = lipgloss.NewStyle().Foreground(textMutedColor)
	selectionStyle = lipgloss.NewStyle().Bold(true).Foreground(selectionColor)
	familyStyle    = lipgloss.NewStyle().Bold(true).Foreground(textPrimaryColor)
	gutterStyle    = lipgloss.NewStyle().Foreground(textMutedColor)
	dividerStyle   = lipgloss.NewStyle().Foreground(borderColor)

	// One style per highlight group, the TUI counterpart of the editor's
	// highlight group names.
	groupStyles = map[card.Group]lipgloss.Style{
		card.GroupKeyword:       lipgloss.NewStyle().Bold(true).Foreground(keywordColor),
		card.GroupCellEven:      lipgloss.NewStyle().Foreground(cellEvenColor),
		card.GroupCellOdd:       lipgloss.NewStyle().Foreground(cellOddColor),
		card.GroupErrorCellEven: lipgloss.NewStyle().Underline(true).Foreground(errorColor),
		card.GroupErrorCellOdd:  lipgloss.NewStyle().Underline(true).Bold(true).Foreground(errorColor),
	}
)

// groupStyle returns the style for a highlight group.
func groupStyle(g card.Group) lipgloss.Style {
	if s, ok := groupStyles[g]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
