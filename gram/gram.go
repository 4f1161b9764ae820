// Package gram implements the byte-slice N-gram representation: a
// contiguous run of 1..=MaxOrder tokens separated by single ASCII spaces.
package gram

import (
	"bytes"
	"fmt"
)

// Separator is the single byte used to delimit tokens within a Gram.
const Separator = ' '

// MaxOrder is the largest supported gram order (spec.md §6.4).
const MaxOrder = 8

// Gram borrows its bytes from a caller-provided buffer; it never copies.
// The zero value is the empty (invalid) gram.
type Gram []byte

// New wraps raw bytes as a Gram without validation. Callers that need the
// well-formedness guarantees should use Parse instead.
func New(b []byte) Gram { return Gram(b) }

// Parse validates that b is a well-formed gram (non-empty, no leading,
// trailing, or doubled separators) and returns it as a Gram. Token length is
// not limited. It does not copy b.
func Parse(b []byte) (Gram, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("gram: empty gram is invalid")
	}
	if b[0] == Separator || b[len(b)-1] == Separator {
		return nil, fmt.Errorf("gram: leading or trailing separator in %q", b)
	}
	runLen := 0
	for _, c := range b {
		if c == Separator {
			if runLen == 0 {
				return nil, fmt.Errorf("gram: doubled separator in %q", b)
			}
			runLen = 0
			continue
		}
		runLen++
	}
	return Gram(b), nil
}

// NumTokens returns the order of the gram (number of whitespace-separated
// tokens).
func (g Gram) NumTokens() int {
	if len(g) == 0 {
		return 0
	}
	return bytes.Count(g, []byte{Separator}) + 1
}

// Tokens splits the gram into its constituent token byte slices, each a
// sub-slice of g's backing array.
func (g Gram) Tokens() []Token {
	if len(g) == 0 {
		return nil
	}
	parts := bytes.Split(g, []byte{Separator})
	toks := make([]Token, len(parts))
	for i, p := range parts {
		toks[i] = Token(p)
	}
	return toks
}

// SplitLast splits the gram into its length-(k-1) prefix and its final
// token, e.g. "A B C" -> ("A B", "C"). SplitLast on a unigram returns an
// empty prefix and the gram itself as the last token.
func (g Gram) SplitLast() (prefix Gram, last Token) {
	idx := bytes.LastIndexByte(g, Separator)
	if idx < 0 {
		return nil, Token(g)
	}
	return Gram(g[:idx]), Token(g[idx+1:])
}

// SplitFirst splits the gram into its first token and the remaining
// length-(k-1) suffix, e.g. "A B C" -> ("A", "B C").
func (g Gram) SplitFirst() (first Token, rest Gram) {
	idx := bytes.IndexByte(g, Separator)
	if idx < 0 {
		return Token(g), nil
	}
	return Token(g[:idx]), Gram(g[idx+1:])
}

// String returns the gram's text form. Intended for error messages and
// debugging, not the hot path.
func (g Gram) String() string { return string(g) }

// Token is a single non-empty byte sequence not containing Separator.
type Token []byte

// String returns the token's text form.
func (t Token) String() string { return string(t) }

// Clone returns a copy of the token's bytes, detached from any shared
// backing array. Used when a token must outlive the buffer it was parsed
// from (e.g. stored permanently in the vocabulary).
func (t Token) Clone() Token {
	c := make(Token, len(t))
	copy(c, t)
	return c
}
