package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dara192/CrispRVariants/internal/duckdb"
	"github.com/dara192/CrispRVariants/internal/gene"
	"github.com/dara192/CrispRVariants/internal/output"
	"github.com/dara192/CrispRVariants/internal/stats"
	"github.com/dara192/CrispRVariants/internal/variants"
)

func newCountCmd() *cobra.Command {
	var f targetFlags
	var (
		outputFile     string
		insertionsFile string
		dbPath         string
		experiment     string
		gtfPath        string
	)

	cmd := &cobra.Command{
		Use:   "count [flags] <alignments.bam> [more.bam ...]",
		Short: "Build the sample-by-variant frequency table",
		Long: `Count labels every on-target read by its insertions and deletions
relative to the cut site and tabulates the labels per sample. With --db
the table is also persisted to DuckDB for SQL queries across runs; with
--gtf each variant row additionally carries its transcript location.`,
		Example: `  crisprvariants count --chrom chr14 --start 100 --end 127 --strand + \
      --cut-site 22 --ref-fasta target.fa sample.bam control.bam

  # Persist the counts for later comparison
  crisprvariants count ... --db results.duckdb --experiment gol_exon1 \
      --gtf annotations.gtf.gz sample.bam`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, logger, err := buildSet(cmd, &f, args)
			if err != nil {
				return err
			}
			defer logger.Sync()

			out, closeOut, err := openOutput(outputFile)
			if err != nil {
				return err
			}
			defer closeOut()

			if err := output.WriteTable(out, set.Table); err != nil {
				return fmt.Errorf("write table: %w", err)
			}

			if insertionsFile != "" {
				ins, closeIns, err := openOutput(insertionsFile)
				if err != nil {
					return err
				}
				defer closeIns()
				if err := output.WriteInsertions(ins, set.InsertionRecords()); err != nil {
					return fmt.Errorf("write insertions: %w", err)
				}
			}

			if dbPath == "" {
				return nil
			}
			return persistCounts(set, dbPath, experiment, gtfPath)
		},
	}

	addTargetFlags(cmd, &f)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&insertionsFile, "insertions", "", "Also write the inserted-sequence table to this file")
	cmd.Flags().StringVar(&dbPath, "db", "", "Persist counts to this DuckDB database")
	cmd.Flags().StringVar(&experiment, "experiment", "default", "Experiment name used as the persistence key")
	cmd.Flags().StringVar(&gtfPath, "gtf", "", "GTF annotation file for transcript location classification")

	return cmd
}

// persistCounts writes the frequency table, per-variant classification
// and inserted sequences to DuckDB.
func persistCounts(set *variants.CrisprSet, dbPath, experiment, gtfPath string) error {
	types := make(map[string]string, len(set.Table.Labels))
	for _, label := range set.Table.Labels {
		typ, err := stats.ClassifyType(label, set.Opts.MatchLabel, set.Opts.MismatchLabel)
		if err != nil {
			return err
		}
		types[label] = typ
	}

	var locations map[string]string
	if gtfPath != "" {
		db := gene.NewDB(viper.GetInt64("gene.promoter_width"))
		if err := gene.NewGTFLoader(gtfPath).Load(db); err != nil {
			return fmt.Errorf("load annotations: %w", err)
		}
		db.Index()

		var err error
		locations, err = stats.ClassifyLocations(set, db)
		if err != nil {
			return fmt.Errorf("classify locations: %w", err)
		}
	}

	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.WriteExperiment(experiment, set.Table, types, locations); err != nil {
		return fmt.Errorf("persist counts: %w", err)
	}
	if err := store.WriteInsertions(experiment, set.InsertionRecords()); err != nil {
		return fmt.Errorf("persist insertions: %w", err)
	}
	return nil
}
