// Package coords maps genomic positions to cut-site-relative coordinates.
package coords

import "fmt"

// Target is the genomic window reads were aligned against, together with
// the strand and the cut-site offset within the window.
type Target struct {
	Chrom     string
	Start     int64 // 1-based, inclusive
	End       int64 // 1-based, inclusive
	Strand    int8  // +1 or -1
	CutOffset int   // 1-based offset of the cut site from Start, 0 if unset
}

// Width returns the number of bases spanned by the target.
func (t Target) Width() int64 {
	return t.End - t.Start + 1
}

// IsForwardStrand returns true if the target is on the forward strand.
func (t Target) IsForwardStrand() bool {
	return t.Strand == 1
}

// Validate checks that the target interval and strand are usable.
func (t Target) Validate() error {
	if t.Start <= 0 || t.End <= 0 {
		return &ConfigError{Field: "target", Message: "start and end must be set"}
	}
	if t.End < t.Start {
		return &ConfigError{Field: "target", Message: fmt.Sprintf("end %d before start %d", t.End, t.Start)}
	}
	if t.Strand != 1 && t.Strand != -1 {
		return &ConfigError{Field: "target.strand", Message: "strand must be +1 or -1"}
	}
	return nil
}

// CutSite returns the genomic position of the last base before the cut.
// On the forward strand this is Start + CutOffset - 1; on the reverse
// strand, End - CutOffset + 1.
func (t Target) CutSite() (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	if t.CutOffset <= 0 {
		return 0, &ConfigError{Field: "target.loc", Message: "cut-site offset required for renumbering"}
	}
	if int64(t.CutOffset) > t.Width() {
		return 0, &ConfigError{
			Field:   "target.loc",
			Message: fmt.Sprintf("cut-site offset %d outside target of width %d", t.CutOffset, t.Width()),
		}
	}
	if t.IsForwardStrand() {
		return t.Start + int64(t.CutOffset) - 1, nil
	}
	return t.End - int64(t.CutOffset) + 1, nil
}

// CheckReference verifies that the reference sequence spans the target 1:1.
func (t Target) CheckReference(ref []byte) error {
	if int64(len(ref)) != t.Width() {
		return &ConfigError{
			Field:   "reference",
			Message: fmt.Sprintf("reference length %d does not match target width %d", len(ref), t.Width()),
		}
	}
	return nil
}

// ConfigError reports an unusable target or renumbering configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}
