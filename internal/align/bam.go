package align

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// FromSAM converts an aligner record into a Record. Soft-clipped bases
// are kept in Seq but produce no operations; hard clips and padding are
// ignored. Unmapped records are rejected.
func FromSAM(rec *sam.Record, sample string) (*Record, error) {
	if rec.Ref == nil || rec.Pos < 0 {
		return nil, fmt.Errorf("read %q: unmapped record", rec.Name)
	}

	r := &Record{
		Name:   rec.Name,
		Sample: sample,
		Chrom:  rec.Ref.Name(),
		Start:  int64(rec.Pos) + 1, // biogo positions are 0-based
		Seq:    rec.Seq.Expand(),
	}

	refPos := r.Start
	queryPos := 0

	for _, co := range rec.Cigar {
		n := co.Len()
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual:
			r.Ops = append(r.Ops, Op{Kind: OpMatch, Len: n, Start: refPos, Query: queryPos})
			refPos += int64(n)
			queryPos += n
		case sam.CigarMismatch:
			// Split runs of X into single-base mismatches.
			for i := 0; i < n; i++ {
				r.Ops = append(r.Ops, Op{Kind: OpMismatch, Len: 1, Start: refPos + int64(i), Query: queryPos + i})
			}
			refPos += int64(n)
			queryPos += n
		case sam.CigarInsertion:
			r.Ops = append(r.Ops, Op{Kind: OpInsertion, Len: n, Start: refPos, Query: queryPos})
			queryPos += n
		case sam.CigarDeletion, sam.CigarSkipped:
			r.Ops = append(r.Ops, Op{Kind: OpDeletion, Len: n, Start: refPos, Query: queryPos})
			refPos += int64(n)
		case sam.CigarSoftClipped:
			queryPos += n
		case sam.CigarHardClipped, sam.CigarPadded:
			// No bases consumed on either side.
		default:
			return nil, fmt.Errorf("read %q: unsupported cigar operation %v", rec.Name, co.Type())
		}
	}

	r.End = refPos - 1
	return r, nil
}

// ReadFile reads all mapped records from a BAM or SAM file, tagging each
// with the given sample name. The format is chosen by file extension.
func ReadFile(path, sample string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open alignment file: %w", err)
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(path), ".sam") {
		return readSAM(f, sample)
	}
	return readBAM(f, sample)
}

func readBAM(f io.Reader, sample string) ([]*Record, error) {
	reader, err := bam.NewReader(f, 0)
	if err != nil {
		return nil, fmt.Errorf("create bam reader: %w", err)
	}
	defer reader.Close()

	var records []*Record
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read bam record: %w", err)
		}
		if rec.Flags&sam.Unmapped != 0 {
			continue
		}
		r, err := FromSAM(rec, sample)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func readSAM(f io.Reader, sample string) ([]*Record, error) {
	reader, err := sam.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("create sam reader: %w", err)
	}

	var records []*Record
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read sam record: %w", err)
		}
		if rec.Flags&sam.Unmapped != 0 {
			continue
		}
		r, err := FromSAM(rec, sample)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}
