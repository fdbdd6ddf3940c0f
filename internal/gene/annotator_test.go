package gene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTranscript is a two-exon forward-strand transcript:
// exon1 1000-1200, intron, exon2 1500-2000, CDS 1100-1800.
func testTranscript() *Transcript {
	return &Transcript{
		ID:       "ENST0001",
		GeneName: "GENE1",
		Chrom:    "chr14",
		Start:    1000,
		End:      2000,
		Strand:   1,
		Exons: []Exon{
			{Number: 1, Start: 1000, End: 1200},
			{Number: 2, Start: 1500, End: 2000},
		},
		CDSStart: 1100,
		CDSEnd:   1800,
	}
}

func testDB() *DB {
	db := NewDB(1000)
	db.Add(testTranscript())
	db.Index()
	return db
}

func TestLocationTags(t *testing.T) {
	db := testDB()

	tests := []struct {
		name       string
		start, end int64
		want       string
	}{
		{"coding exon", 1150, 1160, TagCoding},
		{"five prime UTR", 1050, 1060, TagFiveUTR},
		{"three prime UTR", 1900, 1910, TagThreeUTR},
		{"intron", 1300, 1310, TagIntron},
		{"donor splice site", 1201, 1202, TagSpliceSite},
		{"acceptor splice site", 1498, 1499, TagSpliceSite},
		{"promoter", 900, 950, TagPromoter},
		{"intergenic", 5000, 5100, TagIntergenic},
		{"spans exon and splice site", 1150, 1550, TagSpliceSite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, err := db.LocationTags("chr14", tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ReduceTags(tags))
		})
	}
}

func TestLocationTags_ReverseStrand(t *testing.T) {
	tr := testTranscript()
	tr.Strand = -1

	db := NewDB(1000)
	db.Add(tr)
	db.Index()

	// UTR sides flip on the reverse strand.
	tags, err := db.LocationTags("chr14", 1050, 1060)
	require.NoError(t, err)
	assert.Equal(t, TagThreeUTR, ReduceTags(tags))

	tags, err = db.LocationTags("chr14", 1900, 1910)
	require.NoError(t, err)
	assert.Equal(t, TagFiveUTR, ReduceTags(tags))

	// Promoter is upstream of the higher coordinate.
	tags, err = db.LocationTags("chr14", 2100, 2200)
	require.NoError(t, err)
	assert.Equal(t, TagPromoter, ReduceTags(tags))
}

func TestLocationTags_Unindexed(t *testing.T) {
	db := NewDB(1000)
	db.Add(testTranscript())

	_, err := db.LocationTags("chr14", 1150, 1160)
	assert.Error(t, err)
}

func TestLocationTags_UnknownChromosome(t *testing.T) {
	db := testDB()

	tags, err := db.LocationTags("chrX", 1150, 1160)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestReduceTags(t *testing.T) {
	tests := []struct {
		tags []string
		want string
	}{
		{nil, TagIntergenic},
		{[]string{TagIntron}, TagIntron},
		{[]string{TagIntron, TagCoding}, TagCoding},
		{[]string{TagPromoter, TagThreeUTR, TagSpliceSite}, TagSpliceSite},
		{[]string{TagThreeUTR, TagFiveUTR}, TagFiveUTR},
		{[]string{"unknown"}, TagIntergenic},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ReduceTags(tt.tags), "%v", tt.tags)
	}
}
