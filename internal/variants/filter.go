package variants

import (
	"go.uber.org/zap"
)

// FilterOptions configures the low-quality rare-variant filter.
type FilterOptions struct {
	MinCount     int // rows with a total below this are inspected
	MaxAmbiguous int // records with more ambiguous bases than this are removed
}

// FilterVariants removes probable alignment artifacts: for every label
// whose row total is below MinCount, the underlying records are checked
// and any record with more than MaxAmbiguous ambiguous bases is removed
// from its run. Table counts are decremented per removed record and rows
// that reach zero are dropped, so totals always match the retained
// records. Returns the number of records removed.
//
// This mutates both the runs and the frequency table; it must complete
// before any other component reads them.
func (s *CrisprSet) FilterVariants(opts FilterOptions) int {
	rare := make(map[string]bool)
	for i, label := range s.Table.Labels {
		if s.Table.RowTotal(i) < opts.MinCount {
			rare[label] = true
		}
	}
	if len(rare) == 0 {
		return 0
	}

	removed := 0
	for col, r := range s.Runs {
		// Walk backwards so removal keeps remaining indexes valid.
		for i := len(r.Records) - 1; i >= 0; i-- {
			label := r.Labels[i].String()
			if !rare[label] {
				continue
			}
			if r.Records[i].CountAmbiguous() <= opts.MaxAmbiguous {
				continue
			}
			s.logger.Debug("removing low-quality read",
				zap.String("run", r.Name),
				zap.String("read", r.Records[i].Name),
				zap.String("variant", label))
			r.removeRecord(i)
			if row, ok := s.Table.RowIndex(label); ok {
				s.Table.Counts[row][col]--
			}
			removed++
		}
	}

	for i := len(s.Table.Labels) - 1; i >= 0; i-- {
		if s.Table.RowTotal(i) == 0 {
			s.Table.removeRow(i)
		}
	}

	if removed > 0 {
		s.logger.Info("filtered low-quality reads", zap.Int("removed", removed))
	}
	return removed
}
