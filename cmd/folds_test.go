package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pamfold/pamfold/internal/bufdata"
)

func sampleEntries() []bufdata.FoldEntry {
	return []bufdata.FoldEntry{
		{Start: 1, End: 4, Text: " 4 lines: NODE ", Level: 1},
		{Start: 5, End: 10, Text: " 6 lines: MASS ", Level: 1},
		{Start: 1, End: 10, Text: " 2 cards: Nodes ", Level: 2},
	}
}

func TestFilterFolds(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		want      int
		wantLevel int
		wantErr   bool
	}{
		{name: "all keeps everything", level: "all", want: 3},
		{name: "level 1 keeps card folds", level: "1", want: 2, wantLevel: 1},
		{name: "level 2 keeps family folds", level: "2", want: 1, wantLevel: 2},
		{name: "unknown digit", level: "3", wantErr: true},
		{name: "garbage", level: "cards", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := filterFolds(sampleEntries(), tt.level)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, tt.want)
			if tt.wantLevel != 0 {
				for _, e := range got {
					require.Equal(t, tt.wantLevel, e.Level)
				}
			}
		})
	}
}

func TestFilterFolds_PreservesOrder(t *testing.T) {
	entries := sampleEntries()

	got, err := filterFolds(entries, "1")
	require.NoError(t, err)
	require.Equal(t, []bufdata.FoldEntry{entries[0], entries[1]}, got)
}

func TestFoldsLong_ListsRegisteredKeywords(t *testing.T) {
	long := foldsLong()
	require.Contains(t, long, "NODE")
	require.Contains(t, long, "PYFUNC")
}
