// Package output provides tab-delimited formatters for frequency
// tables, efficiency summaries and consensus alignments.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dara192/CrispRVariants/internal/variants"
)

// TableWriter writes a variant frequency table in tab-delimited format.
type TableWriter struct {
	w *bufio.Writer
}

// NewTableWriter creates a new tab-delimited frequency-table writer.
func NewTableWriter(w io.Writer) *TableWriter {
	return &TableWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line: the variant column followed by one
// column per sample and a total column.
func (tw *TableWriter) WriteHeader(samples []string) error {
	columns := append([]string{"#Variant"}, samples...)
	columns = append(columns, "Total")
	_, err := tw.w.WriteString(strings.Join(columns, "\t") + "\n")
	return err
}

// WriteRow writes one variant row.
func (tw *TableWriter) WriteRow(label string, counts []int) error {
	values := make([]string, 0, len(counts)+2)
	values = append(values, label)
	total := 0
	for _, n := range counts {
		values = append(values, fmt.Sprintf("%d", n))
		total += n
	}
	values = append(values, fmt.Sprintf("%d", total))
	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TableWriter) Flush() error {
	return tw.w.Flush()
}

// WriteTable writes a complete frequency table.
func WriteTable(w io.Writer, t *variants.FrequencyTable) error {
	tw := NewTableWriter(w)
	if err := tw.WriteHeader(t.Samples); err != nil {
		return err
	}
	for i, label := range t.Labels {
		if err := tw.WriteRow(label, t.Counts[i]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteInsertions writes the inserted-sequence table: one row per
// insertion operation with its label, genomic start, sequence and
// sample.
func WriteInsertions(w io.Writer, recs []variants.InsertionRecord) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("#Variant\tStart\tSequence\tSample\n"); err != nil {
		return err
	}
	for _, r := range recs {
		line := fmt.Sprintf("%s\t%d\t%s\t%s\n", r.Label, r.Start, r.Seq, r.Sample)
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
