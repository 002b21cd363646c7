package presentation_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pamfold/pamfold/internal/bufdata"
	"github.com/pamfold/pamfold/internal/presentation"
)

func init() {
	// Force plain output so the text format asserts on bare strings.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func sampleFolds() []presentation.FoldDTO {
	return presentation.FromFoldEntries([]bufdata.FoldEntry{
		{Start: 1, End: 4, Text: " 4 lines: NODE ", Level: 1},
		{Start: 5, End: 10, Text: " 6 lines: MASS ", Level: 1},
		{Start: 1, End: 10, Text: " 2 cards: Nodes ", Level: 2},
	})
}

func TestFromFoldEntry(t *testing.T) {
	dto := presentation.FromFoldEntry(bufdata.FoldEntry{
		Start: 5, End: 10, Text: " 6 lines: MASS ", Level: 1,
	})

	assert.Equal(t, presentation.FoldDTO{
		Start: 5,
		End:   10,
		Lines: 6,
		Level: 1,
		Title: "6 lines: MASS",
	}, dto)
}

func TestFormatFoldsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, presentation.NewFormatter(&buf).FormatFoldsJSON(sampleFolds()))

	var decoded []presentation.FoldDTO
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleFolds(), decoded)
	assert.Contains(t, buf.String(), `"title": "2 cards: Nodes"`)
}

func TestFormatFoldsYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, presentation.NewFormatter(&buf).FormatFoldsYAML(sampleFolds()))

	var decoded []presentation.FoldDTO
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleFolds(), decoded)
}

func TestFormatFoldsText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, presentation.NewFormatter(&buf).FormatFoldsText(sampleFolds()))

	out := buf.String()
	assert.Contains(t, out, "RANGE")
	assert.Contains(t, out, "1-4")
	assert.Contains(t, out, "4 lines: NODE")
	assert.Contains(t, out, "2 cards: Nodes")
}

func TestFormatFoldsText_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, presentation.NewFormatter(&buf).FormatFoldsText(nil))
	assert.Equal(t, "no folds\n", buf.String())
}
