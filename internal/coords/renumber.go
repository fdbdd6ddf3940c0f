package coords

import "fmt"

// Map is a bijection between genomic positions in [Min, Max] and signed
// cut-site-relative coordinates. Zero is never produced: the cut site
// lies between -1 and 1. On the reverse strand the numbering runs in
// decreasing genomic order.
type Map struct {
	min     int64 // genomic bounds, inclusive
	max     int64
	cut     int64 // genomic position mapping to -1
	reverse bool
}

// NewMap builds a coordinate map for the observed genomic extent
// [minObserved, maxObserved]. The cut site comes from the target; a
// missing cut-site offset is a configuration error.
func NewMap(t Target, minObserved, maxObserved int64) (*Map, error) {
	cut, err := t.CutSite()
	if err != nil {
		return nil, err
	}
	if maxObserved < minObserved {
		return nil, &ConfigError{
			Field:   "coordinates",
			Message: fmt.Sprintf("observed range [%d, %d] is empty", minObserved, maxObserved),
		}
	}
	return &Map{
		min:     minObserved,
		max:     maxObserved,
		cut:     cut,
		reverse: !t.IsForwardStrand(),
	}, nil
}

// Min returns the smallest mapped genomic position.
func (m *Map) Min() int64 { return m.min }

// Max returns the largest mapped genomic position.
func (m *Map) Max() int64 { return m.max }

// Relative converts a genomic position to its cut-site-relative
// coordinate. Positions at or before the cut map to {-1, -2, ...},
// positions after it to {1, 2, ...}; the direction is reversed on the
// reverse strand.
func (m *Map) Relative(pos int64) (int, error) {
	if pos < m.min || pos > m.max {
		return 0, fmt.Errorf("genomic position %d outside mapped range [%d, %d]", pos, m.min, m.max)
	}
	if m.reverse {
		if pos >= m.cut {
			return int(-(pos - m.cut) - 1), nil
		}
		return int(m.cut - pos), nil
	}
	if pos <= m.cut {
		return int(pos - m.cut - 1), nil
	}
	return int(pos - m.cut), nil
}

// Genomic is the inverse of Relative. Relative coordinate zero is
// invalid by construction.
func (m *Map) Genomic(rel int) (int64, error) {
	if rel == 0 {
		return 0, fmt.Errorf("relative coordinate 0 does not exist")
	}
	var pos int64
	if m.reverse {
		if rel < 0 {
			pos = m.cut - int64(rel) - 1
		} else {
			pos = m.cut - int64(rel)
		}
	} else {
		if rel < 0 {
			pos = m.cut + int64(rel) + 1
		} else {
			pos = m.cut + int64(rel)
		}
	}
	if pos < m.min || pos > m.max {
		return 0, fmt.Errorf("relative coordinate %d maps outside range [%d, %d]", rel, m.min, m.max)
	}
	return pos, nil
}
