package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dara192/CrispRVariants/internal/stats"
)

// WriteEfficiency writes per-sample mutation efficiencies followed by
// the summary statistics.
func WriteEfficiency(w io.Writer, eff *stats.Efficiency) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString("#Sample\tEfficiency\n"); err != nil {
		return err
	}
	for i, sample := range eff.Samples {
		line := fmt.Sprintf("%s\t%s\n", sample, formatPercent(eff.PerSample[i]))
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
	}

	summary := []string{
		fmt.Sprintf("Mean\t%s", formatPercent(eff.Mean)),
		fmt.Sprintf("Median\t%s", formatPercent(eff.Median)),
		fmt.Sprintf("Overall\t%s", formatPercent(eff.Overall)),
		fmt.Sprintf("ReadsMutant\t%d", eff.MutantReads),
		fmt.Sprintf("ReadsTotal\t%d", eff.TotalReads),
	}
	if _, err := bw.WriteString(strings.Join(summary, "\n") + "\n"); err != nil {
		return err
	}
	return bw.Flush()
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
