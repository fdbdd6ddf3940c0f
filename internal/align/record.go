// Package align holds per-read alignment records produced by an external
// aligner, converted from SAM/BAM into the operation walk the variant
// labeler consumes.
package align

import "bytes"

// OpKind is the type of a single alignment operation.
type OpKind byte

const (
	OpMatch     OpKind = 'M' // aligned, base agrees with or matches the reference
	OpMismatch  OpKind = 'X' // aligned, single-base disagreement
	OpInsertion OpKind = 'I' // bases present in the read but not the reference
	OpDeletion  OpKind = 'D' // reference bases absent from the read
)

// Op is one alignment operation. Start is the 1-based genomic position
// of the first reference base the operation touches; for insertions it
// is the reference base immediately following the inserted sequence.
// Query is the 0-based offset of the operation within the read sequence.
type Op struct {
	Kind  OpKind
	Len   int
	Start int64
	Query int
}

// Record is one aligned read restricted to a single reference.
type Record struct {
	Name   string // read identifier from the aligner
	Sample string // owning sample
	Chrom  string
	Start  int64 // 1-based genomic start of the aligned span
	End    int64 // 1-based genomic end, inclusive
	Seq    []byte
	Ops    []Op
}

// HasIndel returns true if the record carries any insertion or deletion.
func (r *Record) HasIndel() bool {
	for _, op := range r.Ops {
		if op.Kind == OpInsertion || op.Kind == OpDeletion {
			return true
		}
	}
	return false
}

// CountAmbiguous returns the number of ambiguous (N) bases in the read.
func (r *Record) CountAmbiguous() int {
	return bytes.Count(r.Seq, []byte{'N'}) + bytes.Count(r.Seq, []byte{'n'})
}

// Overlaps returns true if the aligned span overlaps [start, end].
func (r *Record) Overlaps(start, end int64) bool {
	return r.Start <= end && r.End >= start
}

// Mismatch is a single-base disagreement with the reference.
type Mismatch struct {
	Pos  int64 // genomic position
	Base byte  // read base at that position
}

// Mismatches returns the positions where aligned bases differ from the
// reference. ref covers genomic positions starting at refStart. Explicit
// mismatch operations are reported directly; match operations are
// compared base by base, so aligners that emit plain M are handled.
func (r *Record) Mismatches(ref []byte, refStart int64) []Mismatch {
	var out []Mismatch
	for _, op := range r.Ops {
		switch op.Kind {
		case OpMismatch:
			for i := 0; i < op.Len; i++ {
				pos := op.Start + int64(i)
				if op.Query+i < len(r.Seq) {
					out = append(out, Mismatch{Pos: pos, Base: r.Seq[op.Query+i]})
				}
			}
		case OpMatch:
			for i := 0; i < op.Len; i++ {
				pos := op.Start + int64(i)
				ri := pos - refStart
				if ri < 0 || ri >= int64(len(ref)) || op.Query+i >= len(r.Seq) {
					continue
				}
				if !baseEqual(r.Seq[op.Query+i], ref[ri]) {
					out = append(out, Mismatch{Pos: pos, Base: r.Seq[op.Query+i]})
				}
			}
		}
	}
	return out
}

func baseEqual(a, b byte) bool {
	return upper(a) == upper(b)
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// OnTarget returns the records whose aligned span overlaps the interval
// [start, end]. Off-target and unmapped records are excluded upstream of
// variant counting.
func OnTarget(records []*Record, start, end int64) []*Record {
	var out []*Record
	for _, r := range records {
		if r.Overlaps(start, end) {
			out = append(out, r)
		}
	}
	return out
}
