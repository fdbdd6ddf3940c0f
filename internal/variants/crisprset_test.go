package variants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dara192/CrispRVariants/internal/align"
)

// exampleRuns reproduces the worked example: a sample with four
// reads carrying -1:4D and one non-variant read, and a control with one
// -1:4D read and three non-variant reads.
func exampleRuns() []*Run {
	sample := NewRun("sample", []*align.Record{
		deletionRecord("s1"), deletionRecord("s2"), deletionRecord("s3"), deletionRecord("s4"),
		matchRecord("s5"),
	})
	control := NewRun("control", []*align.Record{
		deletionRecord("c1"),
		matchRecord("c2"), matchRecord("c3"), matchRecord("c4"),
	})
	return []*Run{sample, control}
}

func TestNew_FrequencyTableExample(t *testing.T) {
	set, err := New(exampleRuns(), testTarget(), []byte(testRef), DefaultOptions(), nil)
	require.NoError(t, err)

	tbl := set.Table
	require.Equal(t, []string{"no variant", "-1:4D"}, tbl.Labels)
	require.Equal(t, []string{"sample", "control"}, tbl.Samples)

	// Non-variant row first, then the deletion.
	assert.Equal(t, []int{1, 3}, tbl.Counts[0])
	assert.Equal(t, []int{4, 1}, tbl.Counts[1])
}

func TestNew_ColumnSumsMatchReadCounts(t *testing.T) {
	set, err := New(exampleRuns(), testTarget(), []byte(testRef), DefaultOptions(), nil)
	require.NoError(t, err)

	for j, run := range set.Runs {
		assert.Equal(t, len(run.Records), set.Table.ColumnTotal(j), "column %q", run.Name)
	}
}

func TestNew_Idempotent(t *testing.T) {
	a, err := New(exampleRuns(), testTarget(), []byte(testRef), DefaultOptions(), nil)
	require.NoError(t, err)
	b, err := New(exampleRuns(), testTarget(), []byte(testRef), DefaultOptions(), nil)
	require.NoError(t, err)

	assert.Equal(t, a.Table.Labels, b.Table.Labels)
	assert.Equal(t, a.Table.Samples, b.Table.Samples)
	assert.Equal(t, a.Table.Counts, b.Table.Counts)
}

func TestNew_RowOrderTieBreak(t *testing.T) {
	// Two variants with equal totals keep first-seen order.
	rec5D := &align.Record{
		Name: "d5", Start: 100, End: 127,
		Seq: []byte(testRef[:20] + testRef[25:]),
		Ops: []align.Op{
			{Kind: align.OpMatch, Len: 20, Start: 100, Query: 0},
			{Kind: align.OpDeletion, Len: 5, Start: 120, Query: 20},
			{Kind: align.OpMatch, Len: 3, Start: 125, Query: 20},
		},
	}

	run := NewRun("s", []*align.Record{deletionRecord("a"), rec5D, matchRecord("m")})
	set, err := New([]*Run{run}, testTarget(), []byte(testRef), DefaultOptions(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"no variant", "-1:4D", "-2:5D"}, set.Table.Labels)
}

func TestNew_ExcludesEmptyRuns(t *testing.T) {
	offTarget := &align.Record{
		Name: "far", Start: 5000, End: 5030,
		Seq: []byte(testRef),
		Ops: []align.Op{{Kind: align.OpMatch, Len: 28, Start: 5000, Query: 0}},
	}
	runs := []*Run{
		NewRun("good", []*align.Record{matchRecord("m1")}),
		NewRun("empty", []*align.Record{offTarget}),
	}

	set, err := New(runs, testTarget(), []byte(testRef), DefaultOptions(), nil)
	require.NoError(t, err)
	require.Len(t, set.Runs, 1)
	assert.Equal(t, []string{"good"}, set.Table.Samples)
}

func TestNew_Errors(t *testing.T) {
	t.Run("reference width mismatch", func(t *testing.T) {
		_, err := New(exampleRuns(), testTarget(), []byte("ACGT"), DefaultOptions(), nil)
		assert.Error(t, err)
	})

	t.Run("no runs with on-target reads", func(t *testing.T) {
		_, err := New([]*Run{NewRun("empty", nil)}, testTarget(), []byte(testRef), DefaultOptions(), nil)
		assert.Error(t, err)
	})

	t.Run("renumbering without cut site", func(t *testing.T) {
		tg := testTarget()
		tg.CutOffset = 0
		_, err := New(exampleRuns(), tg, []byte(testRef), DefaultOptions(), nil)
		assert.Error(t, err)
	})
}

func TestNew_LabelsIgnoreStartPosition(t *testing.T) {
	// Two records with the same label but different genomic starts are
	// still counted as one variant.
	shifted := &align.Record{
		Name: "shifted", Start: 110, End: 127,
		Seq: []byte(testRef[10:21] + testRef[25:]),
		Ops: []align.Op{
			{Kind: align.OpMatch, Len: 11, Start: 110, Query: 0},
			{Kind: align.OpDeletion, Len: 4, Start: 121, Query: 11},
			{Kind: align.OpMatch, Len: 3, Start: 125, Query: 11},
		},
	}

	run := NewRun("s", []*align.Record{deletionRecord("a"), shifted})
	set, err := New([]*Run{run}, testTarget(), []byte(testRef), DefaultOptions(), nil)
	require.NoError(t, err)

	require.Equal(t, []string{"-1:4D"}, set.Table.Labels)
	assert.Equal(t, 2, set.Table.RowTotal(0))
}

func TestNew_TrailingInsertion(t *testing.T) {
	// An alignment ending in an insertion anchors it one base past the
	// aligned span; the coordinate map must still cover it.
	rec := &align.Record{
		Name: "ti", Start: 100, End: 127,
		Seq: []byte(testRef + "GG"),
		Ops: []align.Op{
			{Kind: align.OpMatch, Len: 28, Start: 100, Query: 0},
			{Kind: align.OpInsertion, Len: 2, Start: 128, Query: 28},
		},
	}

	run := NewRun("s", []*align.Record{rec})
	set, err := New([]*Run{run}, testTarget(), []byte(testRef), DefaultOptions(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"7:2I"}, set.Table.Labels)
}

func TestInsertionRecords(t *testing.T) {
	ins := &align.Record{
		Name: "i1", Sample: "s", Start: 100, End: 127,
		Seq: []byte(testRef[:10] + "GGA" + testRef[10:]),
		Ops: []align.Op{
			{Kind: align.OpMatch, Len: 10, Start: 100, Query: 0},
			{Kind: align.OpInsertion, Len: 3, Start: 110, Query: 10},
			{Kind: align.OpMatch, Len: 18, Start: 110, Query: 13},
		},
	}

	run := NewRun("s", []*align.Record{ins, matchRecord("m")})
	set, err := New([]*Run{run}, testTarget(), []byte(testRef), DefaultOptions(), nil)
	require.NoError(t, err)

	recs := set.InsertionRecords()
	require.Len(t, recs, 1)
	assert.Equal(t, "-12:3I", recs[0].Label)
	assert.Equal(t, int64(110), recs[0].Start)
	assert.Equal(t, "GGA", string(recs[0].Seq))
	assert.Equal(t, "s", recs[0].Sample)
}

func TestRecordsByLabel(t *testing.T) {
	set, err := New(exampleRuns(), testTarget(), []byte(testRef), DefaultOptions(), nil)
	require.NoError(t, err)

	groups := set.RecordsByLabel()
	assert.Len(t, groups["-1:4D"], 5)
	assert.Len(t, groups["no variant"], 4)
}
