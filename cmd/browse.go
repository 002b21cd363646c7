package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pamfold/pamfold/internal/bufdata"
	"github.com/pamfold/pamfold/internal/ui/foldview"
)

var browseCmd = &cobra.Command{
	Use:   "browse <deck>",
	Short: "Browse a deck's folds interactively",
	Long: `Open a terminal browser for a deck: the fold tree on the left, the
highlighted deck lines on the right. Families expand into their cards,
the deck pane follows the selection, and the deck re-parses live when
the file changes on disk.

Examples:
  pamfold browse bumper.pc
  pamfold browse --debug crash_run/front_rail.pc`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(_ *cobra.Command, args []string) error {
	// Force lipgloss/termenv to query the terminal background BEFORE the
	// Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()

	cleanup, err := initLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	if cfgErr != nil {
		// Printed before the alt screen opens, so it stays in the
		// terminal's main buffer after exit.
		fmt.Fprintf(os.Stderr, "config unusable, running on defaults: %v\n", cfgErr)
	}

	path := args[0]
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading deck: %w", err)
	}
	deck := bufdata.New()
	if err := deck.ParseBytes(buf); err != nil {
		return fmt.Errorf("parsing deck: %w", err)
	}

	model, err := foldview.New(foldview.Config{
		Path:         path,
		Deck:         deck,
		ContextLines: cfg.UI.ContextLines,
		Debounce:     cfg.Watch.Debounce,
	})
	if err != nil {
		return fmt.Errorf("starting browser: %w", err)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
