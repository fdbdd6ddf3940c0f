package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetFlags_Target(t *testing.T) {
	f := targetFlags{chrom: "chr14", start: 100, end: 127, strand: "+", cutSite: 22}
	target, err := f.target()
	require.NoError(t, err)
	assert.Equal(t, int8(1), target.Strand)
	assert.Equal(t, 22, target.CutOffset)

	f.strand = "-"
	target, err = f.target()
	require.NoError(t, err)
	assert.Equal(t, int8(-1), target.Strand)

	f.strand = "x"
	_, err = f.target()
	assert.Error(t, err)
}

func TestTargetFlags_Reference(t *testing.T) {
	f := targetFlags{refSeq: "actg"}
	ref, err := f.reference()
	require.NoError(t, err)
	assert.Equal(t, []byte("ACTG"), ref)

	f = targetFlags{}
	_, err = f.reference()
	assert.Error(t, err)

	f = targetFlags{refSeq: "ACTG", refFasta: "ref.fa"}
	_, err = f.reference()
	assert.Error(t, err)
}

func TestReadFasta(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.fa")
	content := ">target region\nactgactg\nACTGACTG\n>second record\nGGGG\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// Only the first record is read.
	seq, err := readFasta(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("ACTGACTGACTGACTG"), seq)
}

func TestReadFasta_Errors(t *testing.T) {
	_, err := readFasta("/nonexistent/ref.fa")
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.fa")
	require.NoError(t, os.WriteFile(empty, []byte(">header only\n"), 0o644))
	_, err = readFasta(empty)
	assert.Error(t, err)
}

func TestSampleName(t *testing.T) {
	assert.Equal(t, "sample1", sampleName("/data/runs/sample1.bam"))
	assert.Equal(t, "control", sampleName("control.sam"))
}
