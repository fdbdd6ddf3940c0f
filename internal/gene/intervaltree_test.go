package gene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalTree_FindOverlaps(t *testing.T) {
	transcripts := []*Transcript{
		{ID: "a", Start: 100, End: 200},
		{ID: "b", Start: 150, End: 400},
		{ID: "c", Start: 300, End: 350},
		{ID: "d", Start: 500, End: 600},
	}
	tree := BuildIntervalTree(transcripts)

	ids := func(ts []*Transcript) []string {
		var out []string
		for _, tr := range ts {
			out = append(out, tr.ID)
		}
		return out
	}

	tests := []struct {
		name       string
		start, end int64
		want       []string
	}{
		{"single hit", 120, 130, []string{"a"}},
		{"overlap two", 160, 180, []string{"b", "a"}},
		{"nested", 310, 320, []string{"c", "b"}},
		{"boundary inclusive", 200, 200, []string{"b", "a"}},
		{"gap", 420, 480, nil},
		{"beyond all", 700, 800, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tree.FindOverlaps(tt.start, tt.end)
			assert.ElementsMatch(t, tt.want, ids(got))
		})
	}
}

func TestIntervalTree_Empty(t *testing.T) {
	tree := BuildIntervalTree(nil)
	require.Empty(t, tree.FindOverlaps(1, 100))
}
