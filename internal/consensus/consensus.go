// Package consensus builds per-variant consensus sequences and
// re-anchors them to the reference for downstream rendering.
package consensus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dara192/CrispRVariants/internal/align"
	"github.com/dara192/CrispRVariants/internal/variants"
)

// Alignment is the consensus of all reads sharing one variant label,
// reconstructed against the reference. RefAligned and AltAligned are the
// gapped reference and consensus rows of the pairwise alignment.
type Alignment struct {
	Label      string
	Start      int64 // shared genomic start of the grouped reads
	Consensus  []byte
	RefAligned []byte
	AltAligned []byte
}

// StartMismatchError reports a variant whose reads disagree on their
// start coordinate. Consensus over such groups is not supported and the
// condition is surfaced instead of silently picking one start.
type StartMismatchError struct {
	Label  string
	Starts []int64
}

func (e *StartMismatchError) Error() string {
	parts := make([]string, len(e.Starts))
	for i, s := range e.Starts {
		parts[i] = fmt.Sprintf("%d", s)
	}
	return fmt.Sprintf("variant %q: reads have multiple start coordinates: %s",
		e.Label, strings.Join(parts, ", "))
}

// Build computes one consensus alignment per requested label. Records
// are grouped across all runs; each group must agree on a single start
// coordinate.
func Build(set *variants.CrisprSet, labels []string) ([]*Alignment, error) {
	groups := set.RecordsByLabel()

	out := make([]*Alignment, 0, len(labels))
	for _, label := range labels {
		records := groups[label]
		if len(records) == 0 {
			return nil, fmt.Errorf("variant %q: no underlying reads", label)
		}

		if err := checkSharedStart(label, records); err != nil {
			return nil, err
		}

		cons := vote(records)
		refAligned, altAligned := anchor(records[0], cons, set.Reference, set.Target.Start)

		out = append(out, &Alignment{
			Label:      label,
			Start:      records[0].Start,
			Consensus:  cons,
			RefAligned: refAligned,
			AltAligned: altAligned,
		})
	}
	return out, nil
}

func checkSharedStart(label string, records []*align.Record) error {
	seen := make(map[int64]bool)
	for _, r := range records {
		seen[r.Start] = true
	}
	if len(seen) <= 1 {
		return nil
	}
	starts := make([]int64, 0, len(seen))
	for s := range seen {
		starts = append(starts, s)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })
	return &StartMismatchError{Label: label, Starts: starts}
}

// alignedSeq returns the query bases consumed by the record's
// operations, in walk order. Soft-clipped bases stay in Seq but produce
// no operations, so dropping them here lines the columns up across
// reads regardless of clip length.
func alignedSeq(r *align.Record) []byte {
	var out []byte
	for _, op := range r.Ops {
		switch op.Kind {
		case align.OpMatch, align.OpMismatch, align.OpInsertion:
			end := op.Query + op.Len
			if end > len(r.Seq) {
				end = len(r.Seq)
			}
			if op.Query < end {
				out = append(out, r.Seq[op.Query:end]...)
			}
		}
	}
	return out
}

// vote computes the per-aligned-column majority base over the grouped
// reads. Ties resolve to the IUPAC code covering the tied bases;
// columns with only ambiguous bases stay N.
func vote(records []*align.Record) []byte {
	seqs := make([][]byte, len(records))
	width := 0
	for i, r := range records {
		seqs[i] = alignedSeq(r)
		if len(seqs[i]) > width {
			width = len(seqs[i])
		}
	}

	cons := make([]byte, width)
	for col := 0; col < width; col++ {
		var counts [4]int
		for _, seq := range seqs {
			if col >= len(seq) {
				continue
			}
			switch upper(seq[col]) {
			case 'A':
				counts[0]++
			case 'C':
				counts[1]++
			case 'G':
				counts[2]++
			case 'T':
				counts[3]++
			}
		}

		best := 0
		for _, n := range counts {
			if n > best {
				best = n
			}
		}
		if best == 0 {
			cons[col] = 'N'
			continue
		}

		var top []byte
		for i, n := range counts {
			if n == best {
				top = append(top, "ACGT"[i])
			}
		}
		if len(top) == 1 {
			cons[col] = top[0]
		} else {
			cons[col] = ambiguityCode(top)
		}
	}
	return cons
}

// anchor reconstructs the pairwise alignment of the consensus against
// the reference by replaying the group's operation walk: insertions gap
// the reference row, deletions gap the consensus row. cons holds one
// base per aligned column, so the walk advances its own column counter
// rather than the record's raw query offsets. ref is anchored at
// genomic position refStart.
func anchor(rec *align.Record, cons []byte, ref []byte, refStart int64) (refAligned, altAligned []byte) {
	refBase := func(pos int64) byte {
		i := pos - refStart
		if i < 0 || i >= int64(len(ref)) {
			return 'N'
		}
		return upper(ref[i])
	}

	col := 0
	for _, op := range rec.Ops {
		switch op.Kind {
		case align.OpMatch, align.OpMismatch, align.OpInsertion:
			for i := 0; i < op.Len; i++ {
				if op.Kind == align.OpInsertion {
					refAligned = append(refAligned, '-')
				} else {
					refAligned = append(refAligned, refBase(op.Start+int64(i)))
				}
				altAligned = append(altAligned, consBase(cons, col))
				col++
			}
		case align.OpDeletion:
			for i := 0; i < op.Len; i++ {
				refAligned = append(refAligned, refBase(op.Start+int64(i)))
				altAligned = append(altAligned, '-')
			}
		}
	}
	return refAligned, altAligned
}

func consBase(cons []byte, i int) byte {
	if i < 0 || i >= len(cons) {
		return 'N'
	}
	return cons[i]
}
