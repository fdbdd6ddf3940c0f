package consensus

// 4-bit mask per base.
var baseMask = map[byte]uint8{
	'A': 1 << 0,
	'C': 1 << 1,
	'G': 1 << 2,
	'T': 1 << 3,
}

// maskCode maps a combined base mask back to its IUPAC code.
var maskCode = map[uint8]byte{
	1 << 0:                   'A',
	1 << 1:                   'C',
	1 << 2:                   'G',
	1 << 3:                   'T',
	(1 << 0) | (1 << 2):      'R',
	(1 << 1) | (1 << 3):      'Y',
	(1 << 1) | (1 << 2):      'S',
	(1 << 0) | (1 << 3):      'W',
	(1 << 2) | (1 << 3):      'K',
	(1 << 0) | (1 << 1):      'M',
	(1 << 1) | (1 << 2) | (1 << 3): 'B',
	(1 << 0) | (1 << 2) | (1 << 3): 'D',
	(1 << 0) | (1 << 1) | (1 << 3): 'H',
	(1 << 0) | (1 << 1) | (1 << 2): 'V',
}

// ambiguityCode returns the IUPAC code covering the given bases.
// Unrecognized or empty input yields N.
func ambiguityCode(bases []byte) byte {
	var mask uint8
	for _, b := range bases {
		m, ok := baseMask[upper(b)]
		if !ok {
			return 'N'
		}
		mask |= m
	}
	if c, ok := maskCode[mask]; ok {
		return c
	}
	return 'N'
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
