package variants

import (
	"fmt"

	"github.com/dara192/CrispRVariants/internal/align"
	"github.com/dara192/CrispRVariants/internal/coords"
)

// Options controls how variant labels are generated.
type Options struct {
	MatchLabel    string // sentinel for reads with no operations other than match
	MismatchLabel string // sentinel for reads carrying only point mismatches
	Renumbered    bool   // cut-site-relative offsets instead of genomic positions
	SplitSNV      bool   // positional SNV labels inside the window below
	UpstreamSNV   int    // window size upstream of the cut
	DownstreamSNV int    // window size downstream of the cut
}

// DefaultOptions returns the standard labeling configuration.
func DefaultOptions() Options {
	return Options{
		MatchLabel:    "no variant",
		MismatchLabel: "SNV",
		Renumbered:    true,
		UpstreamSNV:   8,
		DownstreamSNV: 6,
	}
}

// Labeler generates canonical variant labels from alignment records.
// Labeling is a pure function of (operations, coordinate map, options):
// identical inputs always yield identical labels.
type Labeler struct {
	cmap     *coords.Map // nil when Renumbered is false
	ref      []byte
	refStart int64
	opts     Options
}

// NewLabeler creates a labeler. ref is the reference sequence anchored
// at genomic position refStart; cmap may be nil only when the options
// do not request renumbering.
func NewLabeler(cmap *coords.Map, ref []byte, refStart int64, opts Options) (*Labeler, error) {
	if opts.Renumbered && cmap == nil {
		return nil, &coords.ConfigError{Field: "renumbering", Message: "renumbering requested without a coordinate map"}
	}
	return &Labeler{cmap: cmap, ref: ref, refStart: refStart, opts: opts}, nil
}

// Label produces the canonical variant label for one record.
func (g *Labeler) Label(rec *align.Record) (Label, error) {
	var tokens []Token
	for _, op := range rec.Ops {
		if op.Kind != align.OpInsertion && op.Kind != align.OpDeletion {
			continue
		}
		offset, err := g.offset(op.Start)
		if err != nil {
			return Label{}, fmt.Errorf("read %q: %w", rec.Name, err)
		}
		tokens = append(tokens, Token{Offset: offset, Len: op.Len, Kind: TokenKind(op.Kind)})
	}
	if len(tokens) > 0 {
		return Label{Tokens: tokens}, nil
	}

	mismatches := rec.Mismatches(g.ref, g.refStart)
	if len(mismatches) == 0 {
		return Label{Sentinel: g.opts.MatchLabel}, nil
	}

	// Positional SNV labels need the cut-site window, so they require
	// renumbered coordinates.
	if g.opts.SplitSNV && g.opts.Renumbered {
		var snvs []Token
		for _, mm := range mismatches {
			rel, err := g.cmap.Relative(mm.Pos)
			if err != nil {
				return Label{}, fmt.Errorf("read %q: %w", rec.Name, err)
			}
			if rel >= -g.opts.UpstreamSNV && rel <= g.opts.DownstreamSNV {
				snvs = append(snvs, Token{Offset: rel, Len: 1, Kind: TokenSNV})
			}
		}
		if len(snvs) > 0 {
			return Label{Tokens: snvs}, nil
		}
	}

	return Label{Sentinel: g.opts.MismatchLabel}, nil
}

func (g *Labeler) offset(pos int64) (int, error) {
	if !g.opts.Renumbered {
		return int(pos), nil
	}
	return g.cmap.Relative(pos)
}
