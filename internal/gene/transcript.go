// Package gene provides the transcript-annotation lookup used to
// classify variants by genomic location.
package gene

// Transcript represents a gene isoform with its exon structure.
type Transcript struct {
	ID       string
	GeneName string
	Chrom    string
	Start    int64 // 1-based, inclusive
	End      int64 // 1-based, inclusive
	Strand   int8  // +1 or -1
	Exons    []Exon
	CDSStart int64 // genomic CDS bounds, 0 if non-coding
	CDSEnd   int64
}

// Exon is a single exon within a transcript.
type Exon struct {
	Number int
	Start  int64
	End    int64
}

// IsProteinCoding returns true if the transcript has a coding sequence.
func (t *Transcript) IsProteinCoding() bool {
	return t.CDSStart > 0 && t.CDSEnd > 0
}

// IsForwardStrand returns true if the transcript is on the forward strand.
func (t *Transcript) IsForwardStrand() bool {
	return t.Strand == 1
}

// Overlaps returns true if [start, end] intersects the transcript span.
func (t *Transcript) Overlaps(start, end int64) bool {
	return t.Start <= end && t.End >= start
}
