// Package main provides the crisprvariants command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crisprvariants",
		Short: "Count and classify mutations in CRISPR amplicon sequencing data",
		Long: `crisprvariants reads amplicon alignments (BAM/SAM), labels each read by
the insertions and deletions it carries relative to the cut site, and
aggregates the labels into a sample-by-variant frequency table. Derived
views include mutation efficiency, variant consensus sequences and
transcript location classification.`,
		Example: `  # Count variants across two samples
  crisprvariants count --chrom chr14 --start 100 --end 127 --strand + \
      --cut-site 22 --ref-fasta target.fa sample.bam control.bam

  # Mutation efficiency, excluding the control sample
  crisprvariants efficiency --chrom chr14 --start 100 --end 127 --strand + \
      --cut-site 22 --ref-fasta target.fa --exclude-sample control \
      sample.bam control.bam`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	cmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	cmd.AddCommand(newCountCmd())
	cmd.AddCommand(newEfficiencyCmd())
	cmd.AddCommand(newConsensusCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig loads ~/.crisprvariants.yaml and the default settings.
func initConfig() error {
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetConfigName(".crisprvariants")
	viper.SetConfigType("yaml")

	viper.SetDefault("labels.match", "no variant")
	viper.SetDefault("labels.mismatch", "SNV")
	viper.SetDefault("snv.upstream", 8)
	viper.SetDefault("snv.downstream", 6)
	viper.SetDefault("gene.promoter_width", 1500)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// newLogger builds the CLI logger: development output when verbose,
// otherwise silent.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}
