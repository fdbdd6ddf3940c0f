package align

import (
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samRecord(t *testing.T, name string, pos int, cigar sam.Cigar, seq string) *sam.Record {
	t.Helper()

	ref, err := sam.NewReference("chr14", "", "", 10000, nil, nil)
	require.NoError(t, err)

	return &sam.Record{
		Name:  name,
		Ref:   ref,
		Pos:   pos, // 0-based, as biogo stores it
		Cigar: cigar,
		Seq:   sam.NewSeq([]byte(seq)),
	}
}

func TestFromSAM_MatchOnly(t *testing.T) {
	rec := samRecord(t, "read1", 99, sam.Cigar{
		sam.NewCigarOp(sam.CigarMatch, 28),
	}, "ACTGACTGACTGACTGACTGACTGACTG")

	r, err := FromSAM(rec, "sample1")
	require.NoError(t, err)

	assert.Equal(t, "read1", r.Name)
	assert.Equal(t, "sample1", r.Sample)
	assert.Equal(t, "chr14", r.Chrom)
	assert.Equal(t, int64(100), r.Start)
	assert.Equal(t, int64(127), r.End)
	require.Len(t, r.Ops, 1)
	assert.Equal(t, Op{Kind: OpMatch, Len: 28, Start: 100, Query: 0}, r.Ops[0])
	assert.False(t, r.HasIndel())
}

func TestFromSAM_Deletion(t *testing.T) {
	// 21M 4D 3M starting at genomic 100: deletion spans 121-124.
	rec := samRecord(t, "read1", 99, sam.Cigar{
		sam.NewCigarOp(sam.CigarMatch, 21),
		sam.NewCigarOp(sam.CigarDeletion, 4),
		sam.NewCigarOp(sam.CigarMatch, 3),
	}, "ACTGACTGACTGACTGACTGACTG")

	r, err := FromSAM(rec, "s")
	require.NoError(t, err)

	require.Len(t, r.Ops, 3)
	assert.Equal(t, Op{Kind: OpDeletion, Len: 4, Start: 121, Query: 21}, r.Ops[1])
	assert.Equal(t, Op{Kind: OpMatch, Len: 3, Start: 125, Query: 21}, r.Ops[2])
	assert.Equal(t, int64(127), r.End)
	assert.True(t, r.HasIndel())
}

func TestFromSAM_InsertionAndSoftClip(t *testing.T) {
	// 2S 10M 3I 10M: insertion sits between genomic 109 and 110.
	rec := samRecord(t, "read1", 99, sam.Cigar{
		sam.NewCigarOp(sam.CigarSoftClipped, 2),
		sam.NewCigarOp(sam.CigarMatch, 10),
		sam.NewCigarOp(sam.CigarInsertion, 3),
		sam.NewCigarOp(sam.CigarMatch, 10),
	}, "ttACTGACTGACGGGACTGACTGAC")

	r, err := FromSAM(rec, "s")
	require.NoError(t, err)

	require.Len(t, r.Ops, 3)
	ins := r.Ops[1]
	assert.Equal(t, OpInsertion, ins.Kind)
	assert.Equal(t, 3, ins.Len)
	assert.Equal(t, int64(110), ins.Start)
	assert.Equal(t, 12, ins.Query)
	assert.Equal(t, "GGG", string(r.Seq[ins.Query:ins.Query+ins.Len]))
}

func TestFromSAM_SplitsMismatchRuns(t *testing.T) {
	rec := samRecord(t, "read1", 99, sam.Cigar{
		sam.NewCigarOp(sam.CigarEqual, 4),
		sam.NewCigarOp(sam.CigarMismatch, 2),
		sam.NewCigarOp(sam.CigarEqual, 4),
	}, "ACTGTTACTG")

	r, err := FromSAM(rec, "s")
	require.NoError(t, err)

	require.Len(t, r.Ops, 4)
	assert.Equal(t, Op{Kind: OpMismatch, Len: 1, Start: 104, Query: 4}, r.Ops[1])
	assert.Equal(t, Op{Kind: OpMismatch, Len: 1, Start: 105, Query: 5}, r.Ops[2])
}

func TestFromSAM_Unmapped(t *testing.T) {
	rec := &sam.Record{Name: "read1", Pos: -1}
	_, err := FromSAM(rec, "s")
	assert.Error(t, err)
}

func TestMismatches_FromPlainMatch(t *testing.T) {
	ref := []byte("ACTGACTGAC")
	r := &Record{
		Name:  "read1",
		Start: 100,
		End:   109,
		Seq:   []byte("ACTGACTTAC"), // position 107: G -> T
		Ops:   []Op{{Kind: OpMatch, Len: 10, Start: 100, Query: 0}},
	}

	mm := r.Mismatches(ref, 100)
	require.Len(t, mm, 1)
	assert.Equal(t, int64(107), mm[0].Pos)
	assert.Equal(t, byte('T'), mm[0].Base)
}

func TestMismatches_PerfectMatch(t *testing.T) {
	ref := []byte("ACTGACTGAC")
	r := &Record{
		Start: 100,
		Seq:   []byte("actgactgac"), // case must not matter
		Ops:   []Op{{Kind: OpMatch, Len: 10, Start: 100, Query: 0}},
	}

	assert.Empty(t, r.Mismatches(ref, 100))
}

func TestCountAmbiguous(t *testing.T) {
	r := &Record{Seq: []byte("ACNGanTG")}
	assert.Equal(t, 2, r.CountAmbiguous())
}

func TestOnTarget(t *testing.T) {
	records := []*Record{
		{Name: "in", Start: 100, End: 127},
		{Name: "left", Start: 10, End: 40},
		{Name: "edge", Start: 90, End: 100},
	}

	got := OnTarget(records, 100, 127)
	require.Len(t, got, 2)
	assert.Equal(t, "in", got[0].Name)
	assert.Equal(t, "edge", got[1].Name)
}
