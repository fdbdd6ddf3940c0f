package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dara192/CrispRVariants/internal/align"
	"github.com/dara192/CrispRVariants/internal/coords"
	"github.com/dara192/CrispRVariants/internal/variants"
)

// targetFlags holds the flags shared by all analysis commands: the
// target window, the reference, and the labeling configuration.
type targetFlags struct {
	chrom        string
	start, end   int64
	strand       string
	cutSite      int
	refSeq       string
	refFasta     string
	samples      []string
	genomic      bool
	splitSNV     bool
	keepChimeras bool
	minCount     int
	maxAmbiguous int
}

func addTargetFlags(cmd *cobra.Command, f *targetFlags) {
	cmd.Flags().StringVar(&f.chrom, "chrom", "", "Target chromosome")
	cmd.Flags().Int64Var(&f.start, "start", 0, "Target start (1-based, inclusive)")
	cmd.Flags().Int64Var(&f.end, "end", 0, "Target end (1-based, inclusive)")
	cmd.Flags().StringVar(&f.strand, "strand", "+", "Target strand: + or -")
	cmd.Flags().IntVar(&f.cutSite, "cut-site", 0, "Cut-site offset from the target start (1-based)")
	cmd.Flags().StringVar(&f.refSeq, "ref-seq", "", "Reference sequence spanning the target")
	cmd.Flags().StringVar(&f.refFasta, "ref-fasta", "", "FASTA file holding the reference sequence")
	cmd.Flags().StringSliceVar(&f.samples, "sample", nil, "Sample name per alignment file (default: file basename)")
	cmd.Flags().BoolVar(&f.genomic, "genomic", false, "Label variants by genomic position instead of cut-site offset")
	cmd.Flags().BoolVar(&f.splitSNV, "split-snv", false, "Label SNVs near the cut site by position")
	cmd.Flags().BoolVar(&f.keepChimeras, "keep-chimeras", false, "Keep chimeric read fragments")
	cmd.Flags().IntVar(&f.minCount, "min-count", 0, "Filter variants seen fewer times than this")
	cmd.Flags().IntVar(&f.maxAmbiguous, "max-ambiguous", 0, "Ambiguous bases tolerated when filtering rare variants")
}

func (f *targetFlags) target() (coords.Target, error) {
	var strand int8
	switch f.strand {
	case "+", "1", "+1":
		strand = 1
	case "-", "-1":
		strand = -1
	default:
		return coords.Target{}, fmt.Errorf("invalid strand %q: use + or -", f.strand)
	}
	return coords.Target{
		Chrom:     f.chrom,
		Start:     f.start,
		End:       f.end,
		Strand:    strand,
		CutOffset: f.cutSite,
	}, nil
}

func (f *targetFlags) reference() ([]byte, error) {
	switch {
	case f.refSeq != "" && f.refFasta != "":
		return nil, fmt.Errorf("--ref-seq and --ref-fasta are mutually exclusive")
	case f.refSeq != "":
		return []byte(strings.ToUpper(f.refSeq)), nil
	case f.refFasta != "":
		return readFasta(f.refFasta)
	}
	return nil, fmt.Errorf("a reference is required: use --ref-seq or --ref-fasta")
}

// readFasta reads the first sequence from a FASTA file.
func readFasta(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference: %w", err)
	}
	defer file.Close()

	var seq []byte
	inRecord := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, ">") {
			if inRecord {
				break
			}
			inRecord = true
			continue
		}
		if line == "" {
			continue
		}
		seq = append(seq, strings.ToUpper(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read reference: %w", err)
	}
	if len(seq) == 0 {
		return nil, fmt.Errorf("reference %s: no sequence found", path)
	}
	return seq, nil
}

// buildSet runs the shared pipeline: read alignments, drop chimeras,
// label reads and aggregate counts, then apply the rare-variant filter
// if requested.
func buildSet(cmd *cobra.Command, f *targetFlags, paths []string) (*variants.CrisprSet, *zap.Logger, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, nil, err
	}

	target, err := f.target()
	if err != nil {
		return nil, nil, err
	}
	ref, err := f.reference()
	if err != nil {
		return nil, nil, err
	}

	if len(f.samples) > 0 && len(f.samples) != len(paths) {
		return nil, nil, fmt.Errorf("got %d --sample names for %d alignment files", len(f.samples), len(paths))
	}

	runs := make([]*variants.Run, 0, len(paths))
	for i, path := range paths {
		sample := sampleName(path)
		if len(f.samples) > 0 {
			sample = f.samples[i]
		}

		records, err := align.ReadFile(path, sample)
		if err != nil {
			return nil, nil, err
		}
		if !f.keepChimeras {
			n := len(records)
			records = align.ExcludeChimeras(records)
			if dropped := n - len(records); dropped > 0 {
				logger.Info("excluded chimeric fragments",
					zap.String("sample", sample), zap.Int("fragments", dropped))
			}
		}
		runs = append(runs, variants.NewRun(sample, records))
	}

	opts := variants.Options{
		MatchLabel:    viper.GetString("labels.match"),
		MismatchLabel: viper.GetString("labels.mismatch"),
		Renumbered:    !f.genomic,
		SplitSNV:      f.splitSNV,
		UpstreamSNV:   viper.GetInt("snv.upstream"),
		DownstreamSNV: viper.GetInt("snv.downstream"),
	}

	set, err := variants.New(runs, target, ref, opts, logger)
	if err != nil {
		return nil, nil, err
	}

	if f.minCount > 0 {
		set.FilterVariants(variants.FilterOptions{
			MinCount:     f.minCount,
			MaxAmbiguous: f.maxAmbiguous,
		})
	}
	return set, logger, nil
}

func sampleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// openOutput opens the output destination: stdout when path is empty.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return file, file.Close, nil
}
