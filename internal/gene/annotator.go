package gene

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Location tags, from highest to lowest preference.
const (
	TagSpliceSite = "spliceSite"
	TagCoding     = "coding"
	TagIntron     = "intron"
	TagFiveUTR    = "fiveUTR"
	TagThreeUTR   = "threeUTR"
	TagPromoter   = "promoter"
	TagIntergenic = "intergenic"
)

// tagRank orders tags by preference; lower is preferred.
var tagRank = map[string]int{
	TagSpliceSite: 0,
	TagCoding:     1,
	TagIntron:     2,
	TagFiveUTR:    3,
	TagThreeUTR:   4,
	TagPromoter:   5,
	TagIntergenic: 6,
}

// ReduceTags collapses multiple location tags to the single preferred
// one. An empty set reduces to intergenic.
func ReduceTags(tags []string) string {
	best := TagIntergenic
	for _, tag := range tags {
		r, ok := tagRank[tag]
		if !ok {
			continue
		}
		if r < tagRank[best] {
			best = tag
		}
	}
	return best
}

// Splice sites extend this many bases into the intron from each exon
// boundary.
const spliceSiteWidth = 2

// DB holds transcripts indexed by chromosome for range queries. Build
// it with a loader, then call Index before querying.
type DB struct {
	transcripts map[string][]*Transcript
	trees       map[string]*IntervalTree
	promoter    int64 // bases upstream of a transcript considered promoter
	logger      *zap.Logger
}

// NewDB creates an empty annotation database. Promoter regions extend
// promoterWidth bases upstream of each transcript start.
func NewDB(promoterWidth int64) *DB {
	return &DB{
		transcripts: make(map[string][]*Transcript),
		promoter:    promoterWidth,
		logger:      zap.NewNop(),
	}
}

// SetLogger sets the logger for load progress messages.
func (d *DB) SetLogger(l *zap.Logger) {
	d.logger = l
}

// Add inserts a transcript. Must be called before Index.
func (d *DB) Add(t *Transcript) {
	d.transcripts[t.Chrom] = append(d.transcripts[t.Chrom], t)
}

// TranscriptCount returns the number of loaded transcripts.
func (d *DB) TranscriptCount() int {
	n := 0
	for _, ts := range d.transcripts {
		n += len(ts)
	}
	return n
}

// Chromosomes returns a sorted list of chromosomes with transcripts.
func (d *DB) Chromosomes() []string {
	chroms := make([]string, 0, len(d.transcripts))
	for c := range d.transcripts {
		chroms = append(chroms, c)
	}
	sort.Strings(chroms)
	return chroms
}

// Index builds the per-chromosome interval trees. Queries before Index
// fail: the database is treated as unavailable.
func (d *DB) Index() {
	d.trees = make(map[string]*IntervalTree, len(d.transcripts))
	for chrom, ts := range d.transcripts {
		// Promoter regions must be findable by overlap query, so the
		// indexed span is widened upstream of each transcript.
		intervals := make([]interval, len(ts))
		for i, t := range ts {
			start, end := t.Start, t.End
			if t.IsForwardStrand() {
				start -= d.promoter
				if start < 1 {
					start = 1
				}
			} else {
				end += d.promoter
			}
			intervals[i] = interval{start: start, end: end, transcript: t}
		}
		d.trees[chrom] = buildTree(intervals)
	}
	d.logger.Info("indexed annotation database",
		zap.Int("transcripts", d.TranscriptCount()),
		zap.Int("chromosomes", len(d.trees)))
}

// LocationTags returns the location tags for a genomic range: zero or
// more of spliceSite, coding, intron, fiveUTR, threeUTR, promoter. An
// unindexed database is unavailable and the error is propagated.
func (d *DB) LocationTags(chrom string, start, end int64) ([]string, error) {
	if d.trees == nil {
		return nil, fmt.Errorf("annotation database unavailable: not indexed")
	}
	tree, ok := d.trees[chrom]
	if !ok {
		return nil, nil
	}

	seen := make(map[string]bool)
	var tags []string
	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	for _, t := range tree.FindOverlaps(start, end) {
		for _, tag := range transcriptTags(t, start, end, d.promoter) {
			add(tag)
		}
	}
	return tags, nil
}

// transcriptTags classifies a range against one transcript.
func transcriptTags(t *Transcript, start, end, promoter int64) []string {
	var tags []string

	if overlapsPromoter(t, start, end, promoter) {
		tags = append(tags, TagPromoter)
	}
	if !t.Overlaps(start, end) {
		return tags
	}

	inExon := false
	for _, e := range t.Exons {
		if overlapsSpliceSite(t, e, start, end) {
			tags = append(tags, TagSpliceSite)
		}
		if start <= e.End && end >= e.Start {
			inExon = true
			tags = append(tags, exonTags(t, e, start, end)...)
		}
	}
	if !inExon {
		tags = append(tags, TagIntron)
	}
	return tags
}

// overlapsSpliceSite checks the intron-side bases flanking an exon
// boundary, excluding the transcript ends.
func overlapsSpliceSite(t *Transcript, e Exon, start, end int64) bool {
	if e.Start > t.Start {
		// Acceptor side: the spliceSiteWidth bases before the exon.
		if start <= e.Start-1 && end >= e.Start-spliceSiteWidth {
			return true
		}
	}
	if e.End < t.End {
		// Donor side: the spliceSiteWidth bases after the exon.
		if start <= e.End+spliceSiteWidth && end >= e.End+1 {
			return true
		}
	}
	return false
}

// exonTags classifies the exonic portion of the range as coding or UTR.
func exonTags(t *Transcript, e Exon, start, end int64) []string {
	if !t.IsProteinCoding() {
		// Non-coding transcripts have no CDS; treat exonic overlap as
		// intronic-level signal only.
		return nil
	}

	var tags []string
	if start <= t.CDSEnd && end >= t.CDSStart {
		tags = append(tags, TagCoding)
	}
	if start < t.CDSStart {
		if t.IsForwardStrand() {
			tags = append(tags, TagFiveUTR)
		} else {
			tags = append(tags, TagThreeUTR)
		}
	}
	if end > t.CDSEnd {
		if t.IsForwardStrand() {
			tags = append(tags, TagThreeUTR)
		} else {
			tags = append(tags, TagFiveUTR)
		}
	}
	return tags
}

// overlapsPromoter checks the strand-aware upstream window.
func overlapsPromoter(t *Transcript, start, end, promoter int64) bool {
	if promoter <= 0 {
		return false
	}
	if t.IsForwardStrand() {
		return start <= t.Start-1 && end >= t.Start-promoter
	}
	return start <= t.End+promoter && end >= t.End+1
}
