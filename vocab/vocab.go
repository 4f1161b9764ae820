// Package vocab implements the double-array vocabulary of spec.md §4.4: a
// byte-string-to-dense-token-ID map built once from the sorted, deduplicated
// set of unigram tokens and frozen for read-only lookups.
//
// The automaton itself is github.com/siongui/go-succinct-data-structure-trie,
// the double-array trie the teacher's succinct_bit_vector package already
// references. A github.com/bits-and-blooms/bloom/v3 filter over
// github.com/zeebo/xxh3 hashes (the same hash the teacher's
// bits.CharBitString uses) sits in front of it so out-of-vocabulary lookups
// — the common case for order >= 2 queries containing a typo or rare word —
// usually never touch the double array at all.
package vocab

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/bits-and-blooms/bloom/v3"
	succinct "github.com/siongui/go-succinct-data-structure-trie"
	"github.com/zeebo/xxh3"

	"eftc/gram"
)

// MaxSize is the largest vocabulary size this package supports
// (spec.md §6.4: |V| < 2^31).
const MaxSize = (1 << 31) - 1

// Vocabulary maps unigram token bytes to a dense ID in [0, Size()), assigned
// by lexicographic order of the input tokens (spec.md §3, Token ID).
type Vocabulary struct {
	trie   *succinct.SuccinctTrie
	filter *bloom.BloomFilter
	size   int
}

// DuplicateTokenError reports a repeated unigram encountered while building
// the vocabulary (spec.md §7, "Duplicate unigram").
type DuplicateTokenError struct {
	Token gram.Token
}

func (e *DuplicateTokenError) Error() string {
	return fmt.Sprintf("vocab: duplicate unigram token %q", e.Token)
}

// Builder accumulates unigram tokens in input order and freezes them into a
// Vocabulary, assigning IDs by the tokens' lexicographic order rather than
// their arrival order (spec.md §4.7.1, Stage B).
type Builder struct {
	tokens [][]byte
}

// NewBuilder creates an empty vocabulary Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add records a unigram token. It is the caller's responsibility to call
// Add once per order-1 input record, in the order the parser yields them.
// Duplicate detection happens in Build, once the full token set and its
// sorted order are known.
func (b *Builder) Add(tok gram.Token) error {
	if len(b.tokens) >= MaxSize {
		return fmt.Errorf("vocab: vocabulary exceeds max size %d", MaxSize)
	}
	owned := make([]byte, len(tok))
	copy(owned, tok)
	b.tokens = append(b.tokens, owned)
	return nil
}

// Build sorts the accumulated tokens lexicographically, assigns dense IDs by
// that order, rejects duplicates, and constructs the double-array automaton.
//
// mphPreflight first attempts a perfect hash build over the raw (unsorted)
// token set (static MPH construction over github.com/aelaguiz/mph requires
// distinct keys), but its outcome is discarded. The adjacent-pair scan over
// the sorted tokens that follows is the check that rejects duplicates and
// reports which bytes were duplicated, as spec.md §7 requires.
func (b *Builder) Build() (*Vocabulary, error) {
	mphPreflight(b.tokens)

	sorted := make([][]byte, len(b.tokens))
	copy(sorted, b.tokens)
	sort.Slice(sorted, func(i, j int) bool {
		return string(sorted[i]) < string(sorted[j])
	})

	if err := rejectDuplicates(sorted); err != nil {
		return nil, err
	}

	keys := make([]string, len(sorted))
	filter := bloom.NewWithEstimates(uint(max(len(sorted), 1)), 1e-4)
	for i, k := range sorted {
		keys[i] = string(k)
		filter.Add(hashSeed(k))
	}

	trie := succinct.NewSuccinctTrie()
	trie.Build(keys)

	return &Vocabulary{trie: trie, filter: filter, size: len(sorted)}, nil
}

// Size returns |V|, the number of distinct unigram tokens.
func (v *Vocabulary) Size() int { return v.size }

// Get maps a token's bytes to its dense ID. The bloom filter rejects most
// out-of-vocabulary tokens without ever calling into the double array; a
// filter hit still falls through to ExactMatchSearch for a ground-truth
// answer (the filter only produces false positives, never false negatives).
func (v *Vocabulary) Get(tok gram.Token) (int, bool) {
	if v == nil || v.size == 0 {
		return 0, false
	}
	if !v.filter.Test(hashSeed(tok)) {
		return 0, false
	}
	id := v.trie.ExactMatchSearch(string(tok))
	if id < 0 {
		return 0, false
	}
	return id, true
}

// ByteSize returns the approximate resident size in bytes.
func (v *Vocabulary) ByteSize() int {
	if v == nil {
		return 0
	}
	// The double-array trie and bloom filter don't expose a byte-accounting
	// method; approximate from the bloom filter's bit capacity plus a
	// per-key overhead estimate for the double array's base/check/leaf
	// arrays (three 4-byte words per key is the documented worst case for
	// this family of succinct tries).
	size := 0
	if v.filter != nil {
		size += int(v.filter.Cap() / 8)
	}
	size += v.size * 3 * 4
	return size
}

// WriteTo serializes the vocabulary: the double-array trie's compact encoded
// form, the bloom filter's own binary marshaling, and the token count.
func (v *Vocabulary) WriteTo(w io.Writer) (int64, error) {
	encoded := v.trie.Encode()
	var filterBuf bytes.Buffer
	if _, err := v.filter.WriteTo(&filterBuf); err != nil {
		return 0, fmt.Errorf("vocab: marshal bloom filter: %w", err)
	}
	filterBytes := filterBuf.Bytes()

	var hdr [24]byte
	binary.LittleEndian.PutUint64(hdr[0:8], uint64(v.size))
	binary.LittleEndian.PutUint64(hdr[8:16], uint64(len(encoded)))
	binary.LittleEndian.PutUint64(hdr[16:24], uint64(len(filterBytes)))

	var total int64
	n, err := w.Write(hdr[:])
	total += int64(n)
	if err != nil {
		return total, fmt.Errorf("vocab: write header: %w", err)
	}
	n, err = io.WriteString(w, encoded)
	total += int64(n)
	if err != nil {
		return total, fmt.Errorf("vocab: write trie: %w", err)
	}
	n, err = w.Write(filterBytes)
	total += int64(n)
	if err != nil {
		return total, fmt.Errorf("vocab: write bloom filter: %w", err)
	}
	return total, nil
}

// ReadVocabulary deserializes a Vocabulary written by WriteTo.
func ReadVocabulary(r io.Reader) (*Vocabulary, error) {
	var hdr [24]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("vocab: read header: %w", err)
	}
	size := int(binary.LittleEndian.Uint64(hdr[0:8]))
	trieLen := binary.LittleEndian.Uint64(hdr[8:16])
	filterLen := binary.LittleEndian.Uint64(hdr[16:24])

	encoded := make([]byte, trieLen)
	if _, err := io.ReadFull(r, encoded); err != nil {
		return nil, fmt.Errorf("vocab: read trie: %w", err)
	}
	filterBytes := make([]byte, filterLen)
	if _, err := io.ReadFull(r, filterBytes); err != nil {
		return nil, fmt.Errorf("vocab: read bloom filter: %w", err)
	}

	trie := succinct.DecodeSuccinctTrie(string(encoded))
	filter := &bloom.BloomFilter{}
	if _, err := filter.ReadFrom(bytes.NewReader(filterBytes)); err != nil {
		return nil, fmt.Errorf("vocab: unmarshal bloom filter: %w", err)
	}

	return &Vocabulary{trie: trie, filter: filter, size: size}, nil
}

func hashSeed(tok gram.Token) []byte {
	h := xxh3.Hash(tok)
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(h >> (8 * i))
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
