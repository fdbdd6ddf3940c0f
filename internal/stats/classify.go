package stats

import (
	"fmt"

	"github.com/dara192/CrispRVariants/internal/gene"
	"github.com/dara192/CrispRVariants/internal/variants"
)

// Indel type categories.
const (
	TypeInsertion         = "insertion"
	TypeDeletion          = "deletion"
	TypeInsertionDeletion = "insertion/deletion"
)

// Coding-size refinement categories.
const (
	CodingFrameshiftShort = "frameshift short"
	CodingFrameshiftLong  = "frameshift long"
	CodingInFrameShort    = "in-frame short"
	CodingInFrameLong     = "in-frame long"
)

// ClassifyType partitions a label into one of match, mismatch,
// insertion, deletion or insertion/deletion by the tokens it carries.
// Sentinel and SNV-only labels keep their sentinel classification.
func ClassifyType(label, matchLabel, mismatchLabel string) (string, error) {
	l, err := variants.ParseLabel(label, matchLabel, mismatchLabel)
	if err != nil {
		return "", err
	}
	if l.IsSentinel() {
		return l.Sentinel, nil
	}

	hasIns := l.HasKind(variants.TokenInsertion)
	hasDel := l.HasKind(variants.TokenDeletion)
	switch {
	case hasIns && hasDel:
		return TypeInsertionDeletion, nil
	case hasIns:
		return TypeInsertion, nil
	case hasDel:
		return TypeDeletion, nil
	}
	return mismatchLabel, nil
}

// TypeCounts sums reads per type category across all samples.
func TypeCounts(t *variants.FrequencyTable, matchLabel, mismatchLabel string) (map[string]int, error) {
	counts := make(map[string]int)
	for i, label := range t.Labels {
		typ, err := ClassifyType(label, matchLabel, mismatchLabel)
		if err != nil {
			return nil, err
		}
		counts[typ] += t.RowTotal(i)
	}
	return counts, nil
}

// RangeAnnotator is the external transcript-annotation lookup: it
// returns zero or more location tags for a genomic range. The lookup
// may fail if its database is unavailable; the error is propagated.
type RangeAnnotator interface {
	LocationTags(chrom string, start, end int64) ([]string, error)
}

// ClassifyLocations maps every frequency-table row to a single location
// tag. Indel rows are located by mapping their tokens back to genomic
// coordinates and reducing the lookup's tags by fixed preference;
// non-indel rows retain their sentinel classification.
func ClassifyLocations(set *variants.CrisprSet, ann RangeAnnotator) (map[string]string, error) {
	out := make(map[string]string, len(set.Table.Labels))
	for _, label := range set.Table.Labels {
		l, err := variants.ParseLabel(label, set.Opts.MatchLabel, set.Opts.MismatchLabel)
		if err != nil {
			return nil, err
		}
		if l.IsSentinel() {
			out[label] = l.Sentinel
			continue
		}
		if !l.HasKind(variants.TokenInsertion) && !l.HasKind(variants.TokenDeletion) {
			out[label] = set.Opts.MismatchLabel
			continue
		}

		start, end, err := indelRange(set, l)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", label, err)
		}
		tags, err := ann.LocationTags(set.Target.Chrom, start, end)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", label, err)
		}
		out[label] = gene.ReduceTags(tags)
	}
	return out, nil
}

// indelRange computes the genomic span covered by a label's indel
// tokens.
func indelRange(set *variants.CrisprSet, l variants.Label) (int64, int64, error) {
	var start, end int64
	first := true
	for _, tok := range l.Tokens {
		if tok.Kind != variants.TokenInsertion && tok.Kind != variants.TokenDeletion {
			continue
		}

		var s int64
		if set.Map != nil {
			g, err := set.Map.Genomic(tok.Offset)
			if err != nil {
				return 0, 0, err
			}
			s = g
		} else {
			s = int64(tok.Offset)
		}

		e := s
		if tok.Kind == variants.TokenDeletion {
			e = s + int64(tok.Len) - 1
		}
		if first || s < start {
			start = s
		}
		if first || e > end {
			end = e
		}
		first = false
	}
	if first {
		return 0, 0, fmt.Errorf("no indel tokens")
	}
	return start, end, nil
}

// RefineCoding splits a coding-tagged label into frameshift/in-frame
// and short/long buckets. The summed indel length decides the frame;
// lengths below cutoff are short.
func RefineCoding(label string, cutoff int, matchLabel, mismatchLabel string) (string, error) {
	l, err := variants.ParseLabel(label, matchLabel, mismatchLabel)
	if err != nil {
		return "", err
	}
	n := l.IndelLength()
	if n == 0 {
		return "", fmt.Errorf("label %q has no indel tokens", label)
	}

	frameshift := n%3 != 0
	short := n < cutoff
	switch {
	case frameshift && short:
		return CodingFrameshiftShort, nil
	case frameshift:
		return CodingFrameshiftLong, nil
	case short:
		return CodingInFrameShort, nil
	}
	return CodingInFrameLong, nil
}

// ClassifyLocationsRefined is ClassifyLocations with coding rows split
// into the four frameshift/size buckets.
func ClassifyLocationsRefined(set *variants.CrisprSet, ann RangeAnnotator, cutoff int) (map[string]string, error) {
	locs, err := ClassifyLocations(set, ann)
	if err != nil {
		return nil, err
	}
	for label, loc := range locs {
		if loc != gene.TagCoding {
			continue
		}
		refined, err := RefineCoding(label, cutoff, set.Opts.MatchLabel, set.Opts.MismatchLabel)
		if err != nil {
			return nil, err
		}
		locs[label] = refined
	}
	return locs, nil
}
