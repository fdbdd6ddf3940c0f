// Package variants turns per-read alignments into canonical variant
// labels and aggregates them into a sample-by-variant frequency table.
package variants

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenKind is the kind of a single label token.
type TokenKind byte

const (
	TokenInsertion TokenKind = 'I'
	TokenDeletion  TokenKind = 'D'
	TokenSNV       TokenKind = 'S'
)

// Token is one structured component of a variant label: an indel with a
// cut-site-relative offset and length, or a positional SNV.
type Token struct {
	Offset int // cut-site-relative start (genomic when renumbering is off)
	Len    int
	Kind   TokenKind
}

// String renders the token in its canonical form: "<offset>:<len>I",
// "<offset>:<len>D" or "<offset>SNV".
func (t Token) String() string {
	if t.Kind == TokenSNV {
		return fmt.Sprintf("%dSNV", t.Offset)
	}
	return fmt.Sprintf("%d:%d%c", t.Offset, t.Len, t.Kind)
}

// Label is the canonical description of the mutations one read carries.
// A label is either a sentinel (perfect match or mismatch-only read) or
// a sequence of tokens in read order.
type Label struct {
	Tokens   []Token
	Sentinel string // set only when Tokens is empty
}

// String renders the canonical label. Tokens are comma-joined in read
// order; two reads with identical operation/position sequences always
// render identically.
func (l Label) String() string {
	if len(l.Tokens) == 0 {
		return l.Sentinel
	}
	parts := make([]string, len(l.Tokens))
	for i, t := range l.Tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

// IsSentinel returns true for match/mismatch sentinel labels.
func (l Label) IsSentinel() bool {
	return len(l.Tokens) == 0
}

// HasKind returns true if any token has the given kind.
func (l Label) HasKind(k TokenKind) bool {
	for _, t := range l.Tokens {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// IndelLength returns the summed length of all insertion and deletion
// tokens in the label.
func (l Label) IndelLength() int {
	n := 0
	for _, t := range l.Tokens {
		if t.Kind == TokenInsertion || t.Kind == TokenDeletion {
			n += t.Len
		}
	}
	return n
}

// ParseLabel parses a canonical label string back into its structured
// form. The two sentinel strings parse to sentinel labels.
func ParseLabel(s, matchLabel, mismatchLabel string) (Label, error) {
	if s == matchLabel || s == mismatchLabel {
		return Label{Sentinel: s}, nil
	}

	var tokens []Token
	for _, part := range strings.Split(s, ",") {
		tok, err := parseToken(part)
		if err != nil {
			return Label{}, fmt.Errorf("label %q: %w", s, err)
		}
		tokens = append(tokens, tok)
	}
	return Label{Tokens: tokens}, nil
}

func parseToken(s string) (Token, error) {
	if rest, ok := strings.CutSuffix(s, "SNV"); ok {
		off, err := strconv.Atoi(rest)
		if err != nil {
			return Token{}, fmt.Errorf("bad SNV token %q", s)
		}
		return Token{Offset: off, Len: 1, Kind: TokenSNV}, nil
	}

	if len(s) < 4 {
		return Token{}, fmt.Errorf("bad token %q", s)
	}
	var kind TokenKind
	switch s[len(s)-1] {
	case 'I':
		kind = TokenInsertion
	case 'D':
		kind = TokenDeletion
	default:
		return Token{}, fmt.Errorf("bad token %q: unknown operation %q", s, s[len(s)-1])
	}

	off, length, ok := strings.Cut(s[:len(s)-1], ":")
	if !ok {
		return Token{}, fmt.Errorf("bad token %q: missing separator", s)
	}
	offset, err := strconv.Atoi(off)
	if err != nil {
		return Token{}, fmt.Errorf("bad token %q: offset: %w", s, err)
	}
	n, err := strconv.Atoi(length)
	if err != nil || n <= 0 {
		return Token{}, fmt.Errorf("bad token %q: length", s)
	}
	return Token{Offset: offset, Len: n, Kind: kind}, nil
}
