package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dara192/CrispRVariants/internal/output"
	"github.com/dara192/CrispRVariants/internal/stats"
)

func newEfficiencyCmd() *cobra.Command {
	var f targetFlags
	var (
		outputFile     string
		excludeSamples []string
		excludeLabels  []string
		snvMode        string
	)

	cmd := &cobra.Command{
		Use:   "efficiency [flags] <alignments.bam> [more.bam ...]",
		Short: "Compute per-sample mutation efficiency",
		Long: `Efficiency reports the percentage of reads carrying a mutation per
sample, plus the mean, median and pooled overall efficiency. Control
samples and known background variants can be excluded.`,
		Example: `  crisprvariants efficiency --chrom chr14 --start 100 --end 127 \
      --strand + --cut-site 22 --ref-fasta target.fa \
      --exclude-sample control sample.bam control.bam`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, logger, err := buildSet(cmd, &f, args)
			if err != nil {
				return err
			}
			defer logger.Sync()

			opts := stats.EfficiencyOptions{
				ExcludeSamples: excludeSamples,
				ExcludeLabels:  excludeLabels,
				SNV:            stats.SNVMode(snvMode),
				MatchLabel:     set.Opts.MatchLabel,
				MismatchLabel:  set.Opts.MismatchLabel,
			}
			eff, err := stats.MutationEfficiency(set.Table, opts)
			if err != nil {
				return err
			}

			out, closeOut, err := openOutput(outputFile)
			if err != nil {
				return err
			}
			defer closeOut()

			if err := output.WriteEfficiency(out, eff); err != nil {
				return fmt.Errorf("write efficiency: %w", err)
			}
			return nil
		},
	}

	addTargetFlags(cmd, &f)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringSliceVar(&excludeSamples, "exclude-sample", nil, "Sample to exclude (repeatable)")
	cmd.Flags().StringSliceVar(&excludeLabels, "exclude-label", nil, "Variant label to exclude (repeatable)")
	cmd.Flags().StringVar(&snvMode, "snv-mode", string(stats.SNVInclude), "SNV handling: include, exclude or non_variant")

	return cmd
}
