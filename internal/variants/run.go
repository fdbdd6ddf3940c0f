package variants

import (
	"fmt"

	"github.com/dara192/CrispRVariants/internal/align"
)

// Run is one sequencing sample: its on-target alignment records and the
// variant label derived for each. Labels[i] describes Records[i].
type Run struct {
	Name    string
	Records []*align.Record
	Labels  []Label
}

// NewRun creates a run over a sample's alignment records.
func NewRun(name string, records []*align.Record) *Run {
	return &Run{Name: name, Records: records}
}

// generateLabels fills Labels, one per record, in record order.
func (r *Run) generateLabels(g *Labeler) error {
	labels := make([]Label, len(r.Records))
	for i, rec := range r.Records {
		label, err := g.Label(rec)
		if err != nil {
			return fmt.Errorf("run %q: %w", r.Name, err)
		}
		labels[i] = label
	}
	r.Labels = labels
	return nil
}

// Tabulate counts records per canonical label string.
func (r *Run) Tabulate() map[string]int {
	counts := make(map[string]int, len(r.Labels))
	for _, l := range r.Labels {
		counts[l.String()]++
	}
	return counts
}

// removeRecord drops the record and label at index i, preserving order.
func (r *Run) removeRecord(i int) {
	r.Records = append(r.Records[:i], r.Records[i+1:]...)
	if i < len(r.Labels) {
		r.Labels = append(r.Labels[:i], r.Labels[i+1:]...)
	}
}
