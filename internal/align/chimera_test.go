package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChimeraIndexes(t *testing.T) {
	records := []*Record{
		{Name: "readB"}, // 0: fragment
		{Name: "readC"}, // 1: unique
		{Name: "readA"}, // 2: fragment
		{Name: "readB"}, // 3: fragment
		{Name: "readA"}, // 4: fragment
	}

	idx := ChimeraIndexes(records)
	require.Len(t, idx, 4)

	// Ordered by read name so fragments of one read are adjacent.
	assert.Equal(t, []int{2, 4, 0, 3}, idx)

	// The run itself is untouched.
	assert.Len(t, records, 5)
}

func TestChimeraIndexes_NoDuplicates(t *testing.T) {
	records := []*Record{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	assert.Empty(t, ChimeraIndexes(records))
}

func TestExcludeChimeras(t *testing.T) {
	records := []*Record{
		{Name: "readB"},
		{Name: "readC"},
		{Name: "readB"},
	}

	kept := ExcludeChimeras(records)
	require.Len(t, kept, 1)
	assert.Equal(t, "readC", kept[0].Name)

	// Nothing to exclude returns the input unchanged.
	unique := []*Record{{Name: "x"}, {Name: "y"}}
	assert.Equal(t, unique, ExcludeChimeras(unique))
}
