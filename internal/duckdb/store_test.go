package duckdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dara192/CrispRVariants/internal/variants"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testTable() *variants.FrequencyTable {
	return &variants.FrequencyTable{
		Labels:  []string{"no variant", "-1:4D"},
		Samples: []string{"sample", "control"},
		Counts:  [][]int{{1, 3}, {4, 1}},
	}
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestWriteAndReadExperiment(t *testing.T) {
	s := openInMemory(t)

	types := map[string]string{"-1:4D": "deletion"}
	locs := map[string]string{"-1:4D": "coding"}
	require.NoError(t, s.WriteExperiment("gol_exon1", testTable(), types, locs))

	rows, err := s.Counts("gol_exon1")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// Highest count first.
	assert.Equal(t, CountRow{
		Label: "-1:4D", Sample: "sample", Count: 4,
		Type: "deletion", Location: "coding",
	}, rows[0])

	totals, err := s.LabelTotals("gol_exon1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"no variant": 4, "-1:4D": 5}, totals)
}

func TestWriteExperiment_Replaces(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.WriteExperiment("e1", testTable(), nil, nil))
	require.NoError(t, s.WriteExperiment("e1", testTable(), nil, nil))

	rows, err := s.Counts("e1")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestExperiments(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.WriteExperiment("b", testTable(), nil, nil))
	require.NoError(t, s.WriteExperiment("a", testTable(), nil, nil))

	names, err := s.Experiments()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, s.ClearExperiment("a"))
	names, err = s.Experiments()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)
}

func TestCountsEmpty(t *testing.T) {
	s := openInMemory(t)

	rows, err := s.Counts("missing")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteAndReadInsertions(t *testing.T) {
	s := openInMemory(t)

	recs := []variants.InsertionRecord{
		{Label: "-12:3I", Start: 110, Seq: []byte("GGA"), Sample: "sample"},
		{Label: "-12:3I", Start: 110, Seq: []byte("GGT"), Sample: "control"},
		{Label: "1:2I", Start: 122, Seq: []byte("AT"), Sample: "sample"},
	}
	require.NoError(t, s.WriteInsertions("e1", recs))

	found, err := s.Insertions("e1", "-12:3I")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, []byte("GGA"), found[0].Seq)
	assert.Equal(t, int64(110), found[0].Start)

	found, err = s.Insertions("e1", "9:9I")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestInsertionsClearedWithExperiment(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.WriteExperiment("e1", testTable(), nil, nil))
	require.NoError(t, s.WriteInsertions("e1", []variants.InsertionRecord{
		{Label: "1:2I", Start: 122, Seq: []byte("AT"), Sample: "sample"},
	}))

	require.NoError(t, s.ClearExperiment("e1"))

	found, err := s.Insertions("e1", "1:2I")
	require.NoError(t, err)
	assert.Empty(t, found)
}
