package variants

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/dara192/CrispRVariants/internal/align"
	"github.com/dara192/CrispRVariants/internal/coords"
)

// CrisprSet owns a fixed collection of runs aligned against one target
// and the frequency table derived from them. The table and coordinate
// map are computed at construction and are the source of truth for all
// derived views; only FilterVariants mutates them afterwards.
type CrisprSet struct {
	Target    coords.Target
	Reference []byte
	Runs      []*Run
	Map       *coords.Map // nil when renumbering is off
	Table     *FrequencyTable
	Opts      Options

	logger *zap.Logger
}

// New builds a CrisprSet: it restricts each run to on-target records,
// drops empty runs, builds the coordinate map from the observed extent,
// labels every record (runs in parallel) and aggregates the counts.
// A nil logger disables logging.
func New(runs []*Run, target coords.Target, ref []byte, opts Options, logger *zap.Logger) (*CrisprSet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := target.CheckReference(ref); err != nil {
		return nil, err
	}

	kept := make([]*Run, 0, len(runs))
	for _, r := range runs {
		r.Records = align.OnTarget(r.Records, target.Start, target.End)
		if len(r.Records) == 0 {
			logger.Info("excluding run with no on-target reads", zap.String("run", r.Name))
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("no runs with on-target reads")
	}

	s := &CrisprSet{
		Target:    target,
		Reference: ref,
		Runs:      kept,
		Opts:      opts,
		logger:    logger,
	}

	if opts.Renumbered {
		minObs, maxObs := s.observedExtent()
		m, err := coords.NewMap(target, minObs, maxObs)
		if err != nil {
			return nil, err
		}
		s.Map = m
	}

	labeler, err := NewLabeler(s.Map, ref, target.Start, opts)
	if err != nil {
		return nil, err
	}
	if err := labelRuns(s.Runs, labeler, 0); err != nil {
		return nil, err
	}

	s.Table = buildTable(s.Runs, opts.MatchLabel, opts.MismatchLabel)
	logger.Info("built frequency table",
		zap.Int("variants", len(s.Table.Labels)),
		zap.Int("samples", len(s.Table.Samples)))
	return s, nil
}

// observedExtent returns the minimum and maximum genomic coordinate
// covered by any record in any run. A read ending in an insertion
// anchors that insertion one base past its aligned span, so insertion
// anchors widen the extent too.
func (s *CrisprSet) observedExtent() (int64, int64) {
	first := s.Runs[0].Records[0]
	minObs, maxObs := first.Start, first.End
	for _, r := range s.Runs {
		for _, rec := range r.Records {
			if rec.Start < minObs {
				minObs = rec.Start
			}
			if rec.End > maxObs {
				maxObs = rec.End
			}
			for _, op := range rec.Ops {
				if op.Kind == align.OpInsertion && op.Start > maxObs {
					maxObs = op.Start
				}
			}
		}
	}
	return minObs, maxObs
}

// InsertionRecord is the raw content of one inserted sequence; labels
// alone only encode insertion length.
type InsertionRecord struct {
	Label  string
	Start  int64 // genomic position of the base following the insertion
	Seq    []byte
	Sample string
}

// InsertionRecords returns one entry per insertion operation across all
// runs, in run and read order.
func (s *CrisprSet) InsertionRecords() []InsertionRecord {
	var out []InsertionRecord
	for _, r := range s.Runs {
		for i, rec := range r.Records {
			for _, op := range rec.Ops {
				if op.Kind != align.OpInsertion {
					continue
				}
				end := op.Query + op.Len
				if end > len(rec.Seq) {
					continue
				}
				out = append(out, InsertionRecord{
					Label:  r.Labels[i].String(),
					Start:  op.Start,
					Seq:    rec.Seq[op.Query:end],
					Sample: r.Name,
				})
			}
		}
	}
	return out
}

// RecordsByLabel groups all records across runs by canonical label.
func (s *CrisprSet) RecordsByLabel() map[string][]*align.Record {
	groups := make(map[string][]*align.Record)
	for _, r := range s.Runs {
		for i, rec := range r.Records {
			key := r.Labels[i].String()
			groups[key] = append(groups[key], rec)
		}
	}
	return groups
}

// FrequencyTable is the sample-by-variant count matrix. Rows are unique
// labels, columns are run names, and every column sums to its run's
// retained on-target read count.
type FrequencyTable struct {
	Labels  []string
	Samples []string
	Counts  [][]int // Counts[row][col]

	rowIndex  map[string]int
	firstSeen map[string]int
}

// buildTable tabulates per-run counts and imposes the canonical row
// order: match sentinel first, mismatch sentinel second, then remaining
// rows by descending total with ties kept in first-seen order.
func buildTable(runs []*Run, matchLabel, mismatchLabel string) *FrequencyTable {
	t := &FrequencyTable{
		rowIndex:  make(map[string]int),
		firstSeen: make(map[string]int),
	}

	// Collect distinct labels in first-seen order: runs in input
	// order, records in read order. This is the documented tie-break.
	for _, r := range runs {
		t.Samples = append(t.Samples, r.Name)
		for _, l := range r.Labels {
			key := l.String()
			if _, ok := t.firstSeen[key]; !ok {
				t.firstSeen[key] = len(t.Labels)
				t.Labels = append(t.Labels, key)
			}
		}
	}

	t.Counts = make([][]int, len(t.Labels))
	for i := range t.Counts {
		t.Counts[i] = make([]int, len(t.Samples))
	}
	for col, r := range runs {
		for label, n := range r.Tabulate() {
			t.Counts[t.firstSeen[label]][col] = n
		}
	}

	t.orderRows(matchLabel, mismatchLabel)
	return t
}

// orderRows applies the canonical row ordering.
func (t *FrequencyTable) orderRows(matchLabel, mismatchLabel string) {
	type row struct {
		label  string
		counts []int
		total  int
		seen   int
	}
	rows := make([]row, len(t.Labels))
	for i, label := range t.Labels {
		total := 0
		for _, n := range t.Counts[i] {
			total += n
		}
		rows[i] = row{label: label, counts: t.Counts[i], total: total, seen: t.firstSeen[label]}
	}

	rank := func(label string) int {
		switch label {
		case matchLabel:
			return 0
		case mismatchLabel:
			return 1
		}
		return 2
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rank(rows[i].label), rank(rows[j].label)
		if ri != rj {
			return ri < rj
		}
		if rows[i].total != rows[j].total {
			return rows[i].total > rows[j].total
		}
		return rows[i].seen < rows[j].seen
	})

	for i, r := range rows {
		t.Labels[i] = r.label
		t.Counts[i] = r.counts
		t.rowIndex[r.label] = i
	}
}

// RowIndex returns the row position of a label.
func (t *FrequencyTable) RowIndex(label string) (int, bool) {
	i, ok := t.rowIndex[label]
	return i, ok
}

// RowTotal returns the summed count of row i.
func (t *FrequencyTable) RowTotal(i int) int {
	total := 0
	for _, n := range t.Counts[i] {
		total += n
	}
	return total
}

// ColumnTotal returns the summed count of column j.
func (t *FrequencyTable) ColumnTotal(j int) int {
	total := 0
	for i := range t.Counts {
		total += t.Counts[i][j]
	}
	return total
}

// ColumnIndex returns the column position of a sample name.
func (t *FrequencyTable) ColumnIndex(sample string) (int, bool) {
	for j, s := range t.Samples {
		if s == sample {
			return j, true
		}
	}
	return 0, false
}

// removeRow drops row i from the table.
func (t *FrequencyTable) removeRow(i int) {
	delete(t.rowIndex, t.Labels[i])
	t.Labels = append(t.Labels[:i], t.Labels[i+1:]...)
	t.Counts = append(t.Counts[:i], t.Counts[i+1:]...)
	for j := i; j < len(t.Labels); j++ {
		t.rowIndex[t.Labels[j]] = j
	}
}
