package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pamfold/pamfold/internal/bufdata"
	"github.com/pamfold/pamfold/internal/carddef"
	"github.com/pamfold/pamfold/internal/presentation"
)

var (
	foldsFormat string
	foldsLevel  string
)

var foldsCmd = &cobra.Command{
	Use:   "folds <deck>",
	Short: "Print the folds of a deck file",
	Long:  foldsLong(),
	Args:  cobra.ExactArgs(1),
	RunE:  runFolds,
}

// foldsLong assembles the help text with the registered keyword list.
func foldsLong() string {
	kws := carddef.Keywords()
	names := make([]string, len(kws))
	for i, kw := range kws {
		names[i] = kw.String()
	}
	return `Parse a deck once and print every fold it would hand the editor.

Level 1 folds cover one card each; level 2 folds cover runs of cards
from the same family. The fold title is the text the editor shows on
the closed fold.

Recognized keywords: ` + strings.Join(names, ", ") + `.

Examples:
  # All folds as a table
  pamfold folds crash.pc

  # Only the card folds
  pamfold folds crash.pc --level 1

  # Family folds as JSON, piped into jq
  pamfold folds crash.pc --level 2 --format json | jq '.[].title'`
}

func init() {
	foldsCmd.Flags().StringVarP(&foldsFormat, "format", "o", "text",
		"output format: text, json or yaml")
	foldsCmd.Flags().StringVarP(&foldsLevel, "level", "l", "all",
		"fold level to print: 1, 2 or all")
	rootCmd.AddCommand(foldsCmd)
}

func runFolds(_ *cobra.Command, args []string) error {
	buf, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading deck: %w", err)
	}

	deck := bufdata.New()
	if err := deck.ParseBytes(buf); err != nil {
		return fmt.Errorf("parsing deck: %w", err)
	}

	folds, err := filterFolds(deck.AllFolds(), foldsLevel)
	if err != nil {
		return err
	}

	formatter := presentation.NewFormatter(os.Stdout)
	dtos := presentation.FromFoldEntries(folds)

	switch foldsFormat {
	case "text":
		return formatter.FormatFoldsText(dtos)
	case "json":
		return formatter.FormatFoldsJSON(dtos)
	case "yaml":
		return formatter.FormatFoldsYAML(dtos)
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", foldsFormat)
	}
}

// filterFolds keeps the folds of the requested level. AllFolds returns
// level 1 before level 2, so filtering preserves that order.
func filterFolds(entries []bufdata.FoldEntry, level string) ([]bufdata.FoldEntry, error) {
	switch level {
	case "all":
		return entries, nil
	case "1", "2":
		want := int(level[0] - '0')
		kept := make([]bufdata.FoldEntry, 0, len(entries))
		for _, e := range entries {
			if e.Level == want {
				kept = append(kept, e)
			}
		}
		return kept, nil
	default:
		return nil, fmt.Errorf("unknown level %q (want 1, 2 or all)", level)
	}
}
