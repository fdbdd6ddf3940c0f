package align

import "sort"

// ChimeraIndexes returns the indexes of records whose read identifier
// occurs more than once in the run, ordered by identifier so fragments
// of the same originating read are adjacent. The records themselves are
// not modified; callers decide how to treat the flagged fragments.
//
// Runs are assumed non-multimapping, so a repeated name means the
// aligner split one read into multiple fragments.
func ChimeraIndexes(records []*Record) []int {
	counts := make(map[string]int, len(records))
	for _, r := range records {
		counts[r.Name]++
	}

	var idx []int
	for i, r := range records {
		if counts[r.Name] > 1 {
			idx = append(idx, i)
		}
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return records[idx[a]].Name < records[idx[b]].Name
	})
	return idx
}

// ExcludeChimeras returns the records with chimeric fragments removed.
func ExcludeChimeras(records []*Record) []*Record {
	chimeric := make(map[int]bool)
	for _, i := range ChimeraIndexes(records) {
		chimeric[i] = true
	}
	if len(chimeric) == 0 {
		return records
	}

	out := make([]*Record, 0, len(records)-len(chimeric))
	for i, r := range records {
		if !chimeric[i] {
			out = append(out, r)
		}
	}
	return out
}
