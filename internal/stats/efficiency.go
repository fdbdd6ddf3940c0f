// Package stats derives efficiency and classification statistics from a
// frequency table for reporting and visualization.
package stats

import (
	"fmt"
	"sort"

	"github.com/dara192/CrispRVariants/internal/variants"
)

// SNVMode controls how mismatch-only rows enter the efficiency
// calculation.
type SNVMode string

const (
	// SNVInclude counts mismatch-only rows as mutant.
	SNVInclude SNVMode = "include"
	// SNVExclude removes mismatch-only rows from both the mutant and
	// total counts.
	SNVExclude SNVMode = "exclude"
	// SNVNonVariant counts mismatch-only rows in the total but not as
	// mutant.
	SNVNonVariant SNVMode = "non_variant"
)

// EfficiencyOptions configures the mutation-efficiency calculation.
type EfficiencyOptions struct {
	ExcludeSamples []string // column names dropped before calculating
	ExcludeLabels  []string // rows removed before calculating
	SNV            SNVMode
	MatchLabel     string
	MismatchLabel  string
}

// DefaultEfficiencyOptions returns the standard configuration.
func DefaultEfficiencyOptions() EfficiencyOptions {
	return EfficiencyOptions{
		SNV:           SNVInclude,
		MatchLabel:    "no variant",
		MismatchLabel: "SNV",
	}
}

// Efficiency holds per-sample mutation efficiencies and their summary
// statistics. Overall is the pooled ratio sum(mutant)/sum(total)*100,
// which in general differs from the mean of per-sample percentages when
// sample sizes differ.
type Efficiency struct {
	Samples     []string
	PerSample   []float64
	Mean        float64
	Median      float64
	Overall     float64
	MutantReads int
	TotalReads  int
}

// rowClass partitions frequency-table rows for the efficiency
// calculation.
type rowClass int

const (
	classMatch rowClass = iota
	classSNV
	classMutant
)

func classify(label string, opts EfficiencyOptions) (rowClass, error) {
	l, err := variants.ParseLabel(label, opts.MatchLabel, opts.MismatchLabel)
	if err != nil {
		return 0, err
	}
	switch {
	case l.String() == opts.MatchLabel:
		return classMatch, nil
	case l.String() == opts.MismatchLabel:
		return classSNV, nil
	case !l.HasKind(variants.TokenInsertion) && !l.HasKind(variants.TokenDeletion):
		// Positional SNV labels carry no indel tokens.
		return classSNV, nil
	}
	return classMutant, nil
}

// MutationEfficiency computes per-sample efficiency: the fraction of
// retained reads carrying a mutation, as a percentage of the column
// total before mutant-row removal.
func MutationEfficiency(t *variants.FrequencyTable, opts EfficiencyOptions) (*Efficiency, error) {
	if opts.SNV == "" {
		opts.SNV = SNVInclude
	}
	switch opts.SNV {
	case SNVInclude, SNVExclude, SNVNonVariant:
	default:
		return nil, fmt.Errorf("unknown snv mode %q", opts.SNV)
	}

	excludeLabel := make(map[string]bool, len(opts.ExcludeLabels))
	for _, l := range opts.ExcludeLabels {
		excludeLabel[l] = true
	}
	excludeSample := make(map[string]bool, len(opts.ExcludeSamples))
	for _, s := range opts.ExcludeSamples {
		excludeSample[s] = true
	}

	var cols []int
	var samples []string
	for j, s := range t.Samples {
		if !excludeSample[s] {
			cols = append(cols, j)
			samples = append(samples, s)
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no samples remain after exclusion")
	}

	eff := &Efficiency{Samples: samples}
	totals := make([]int, len(cols))
	mutants := make([]int, len(cols))

	for i, label := range t.Labels {
		if excludeLabel[label] {
			continue
		}
		class, err := classify(label, opts)
		if err != nil {
			return nil, err
		}
		if class == classSNV && opts.SNV == SNVExclude {
			continue
		}
		mutant := class == classMutant || (class == classSNV && opts.SNV == SNVInclude)

		for k, j := range cols {
			n := t.Counts[i][j]
			totals[k] += n
			if mutant {
				mutants[k] += n
			}
		}
	}

	eff.PerSample = make([]float64, len(cols))
	for k := range cols {
		if totals[k] > 0 {
			eff.PerSample[k] = float64(mutants[k]) / float64(totals[k]) * 100
		}
		eff.MutantReads += mutants[k]
		eff.TotalReads += totals[k]
	}

	eff.Mean = mean(eff.PerSample)
	eff.Median = median(eff.PerSample)
	if eff.TotalReads > 0 {
		eff.Overall = float64(eff.MutantReads) / float64(eff.TotalReads) * 100
	}
	return eff, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
