package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dara192/CrispRVariants/internal/consensus"
	"github.com/dara192/CrispRVariants/internal/output"
	"github.com/dara192/CrispRVariants/internal/variants"
)

func newConsensusCmd() *cobra.Command {
	var f targetFlags
	var (
		outputFile string
		labels     []string
	)

	cmd := &cobra.Command{
		Use:   "consensus [flags] <alignments.bam> [more.bam ...]",
		Short: "Build per-variant consensus alignments",
		Long: `Consensus groups all reads sharing a variant label, votes a consensus
sequence per column and renders it aligned against the reference.
Without --label every indel variant in the table is rendered.`,
		Example: `  crisprvariants consensus --chrom chr14 --start 100 --end 127 \
      --strand + --cut-site 22 --ref-fasta target.fa \
      --label "-1:4D" sample.bam`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, logger, err := buildSet(cmd, &f, args)
			if err != nil {
				return err
			}
			defer logger.Sync()

			selected := labels
			if len(selected) == 0 {
				selected = indelLabels(set)
				if len(selected) == 0 {
					return fmt.Errorf("no indel variants to render; use --label to select variants")
				}
			}

			alns, err := consensus.Build(set, selected)
			if err != nil {
				return err
			}

			out, closeOut, err := openOutput(outputFile)
			if err != nil {
				return err
			}
			defer closeOut()

			if err := output.WriteConsensus(out, alns); err != nil {
				return fmt.Errorf("write consensus: %w", err)
			}
			return nil
		},
	}

	addTargetFlags(cmd, &f)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "Variant label to render (repeatable; default: all indel variants)")

	return cmd
}

// indelLabels returns the table's labels that carry indel tokens, in
// table order.
func indelLabels(set *variants.CrisprSet) []string {
	var out []string
	for _, label := range set.Table.Labels {
		l, err := variants.ParseLabel(label, set.Opts.MatchLabel, set.Opts.MismatchLabel)
		if err != nil {
			continue
		}
		if l.HasKind(variants.TokenInsertion) || l.HasKind(variants.TokenDeletion) {
			out = append(out, label)
		}
	}
	return out
}
