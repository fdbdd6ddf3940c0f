package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/dara192/CrispRVariants/internal/variants"
)

// CountRow is one persisted frequency-table cell with its optional
// per-variant classification.
type CountRow struct {
	Label    string
	Sample   string
	Count    int
	Type     string
	Location string
}

// WriteExperiment replaces the persisted counts for one experiment with
// the given frequency table. Types and locations are optional
// per-label classifications; missing labels store empty strings.
func (s *Store) WriteExperiment(experiment string, t *variants.FrequencyTable, types, locations map[string]string) error {
	if err := s.ClearExperiment(experiment); err != nil {
		return err
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "variant_counts")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for i, label := range t.Labels {
		for j, sample := range t.Samples {
			if err := appender.AppendRow(
				experiment, label, sample, int32(t.Counts[i][j]),
				types[label], locations[label],
			); err != nil {
				return fmt.Errorf("append count row: %w", err)
			}
		}
	}
	return appender.Flush()
}

// Counts returns all persisted rows for an experiment, highest counts
// first.
func (s *Store) Counts(experiment string) ([]CountRow, error) {
	rows, err := s.db.Query(`SELECT label, sample, count, variant_type, location
		FROM variant_counts
		WHERE experiment=?
		ORDER BY count DESC, label, sample`, experiment)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()

	var out []CountRow
	for rows.Next() {
		var r CountRow
		if err := rows.Scan(&r.Label, &r.Sample, &r.Count, &r.Type, &r.Location); err != nil {
			return nil, fmt.Errorf("scan count row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return out, nil
}

// LabelTotals sums counts per label across samples for one experiment.
func (s *Store) LabelTotals(experiment string) (map[string]int, error) {
	rows, err := s.db.Query(`SELECT label, CAST(SUM(count) AS BIGINT)
		FROM variant_counts
		WHERE experiment=?
		GROUP BY label`, experiment)
	if err != nil {
		return nil, fmt.Errorf("query label totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, fmt.Errorf("scan label total: %w", err)
		}
		totals[label] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate label totals: %w", err)
	}
	return totals, nil
}

// Experiments returns the names of all persisted experiments, sorted.
func (s *Store) Experiments() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT experiment FROM variant_counts ORDER BY experiment`)
	if err != nil {
		return nil, fmt.Errorf("query experiments: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan experiment: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate experiments: %w", err)
	}
	return names, nil
}

// ClearExperiment removes all rows for one experiment.
func (s *Store) ClearExperiment(experiment string) error {
	if _, err := s.db.Exec(`DELETE FROM variant_counts WHERE experiment=?`, experiment); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM insertions WHERE experiment=?`, experiment)
	return err
}

// WriteInsertions batch-appends inserted sequences for an experiment.
func (s *Store) WriteInsertions(experiment string, recs []variants.InsertionRecord) error {
	if len(recs) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "insertions")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range recs {
		if err := appender.AppendRow(experiment, r.Label, r.Start, string(r.Seq), r.Sample); err != nil {
			return fmt.Errorf("append insertion: %w", err)
		}
	}
	return appender.Flush()
}

// Insertions returns the inserted sequences recorded for one label.
func (s *Store) Insertions(experiment, label string) ([]variants.InsertionRecord, error) {
	rows, err := s.db.Query(`SELECT label, start, seq, sample
		FROM insertions
		WHERE experiment=? AND label=?`, experiment, label)
	if err != nil {
		return nil, fmt.Errorf("query insertions: %w", err)
	}
	defer rows.Close()

	var out []variants.InsertionRecord
	for rows.Next() {
		var r variants.InsertionRecord
		var seq string
		if err := rows.Scan(&r.Label, &r.Start, &seq, &r.Sample); err != nil {
			return nil, fmt.Errorf("scan insertion: %w", err)
		}
		r.Seq = []byte(seq)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate insertions: %w", err)
	}
	return out, nil
}
