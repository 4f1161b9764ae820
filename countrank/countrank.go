// Package countrank implements the per-order count-rank dictionary of
// spec.md §4.5: a bidirectional map between raw count values and their rank
// in the order's frequency-of-the-count distribution (most frequent count
// gets rank 0; ties broken by ascending count value).
package countrank

import (
	"fmt"
	"io"

	"github.com/SaveTheRbtz/mph"
	radixsort "github.com/dgryski/go-radixsort"
	"golang.org/x/exp/slices"
)

// Array is the read-only, serializable from_rank side of a count-rank
// dictionary: rank -> count. eftc's product type is parameterized over this
// interface (spec.md §9's capability-set design note), so a model can mix
// the compressed EFArray for large orders with the uncompressed SimpleArray
// for small ones (spec.md §11, supplemented feature 3).
type Array interface {
	Get(rank int) uint64
	Len() int
	ByteSize() int
	WriteTo(w io.Writer) (int64, error)
}

// Builder accumulates the multiset of count values observed at one order
// (Stage A of spec.md §4.7.1) and finalizes it into a frozen Array plus a
// transient to_rank lookup used only for the remainder of the build.
type Builder struct {
	freq map[uint64]uint64
}

// NewBuilder creates an empty per-order Builder.
func NewBuilder() *Builder {
	return &Builder{freq: make(map[uint64]uint64)}
}

// Observe records one occurrence of count in this order's input.
func (b *Builder) Observe(count uint64) {
	b.freq[count]++
}

// Dict is the finalized per-order dictionary: a frozen Array for
// serialization, plus the transient to_rank map used only during the
// remainder of the build (spec.md §4.5: "to_rank ... is not serialized").
type Dict struct {
	FromRank Array
	toRank   *mph.CHD
	order    []uint64 // distinct counts, descending-frequency / ascending-count order
}

// Finalize sorts the observed distinct counts into descending-frequency,
// ascending-count-value order and builds both the from_rank Array (compact
// if useEF is false, Elias-Fano gap-coded if true — spec.md §11 feature 3)
// and the transient to_rank perfect hash.
func (b *Builder) Finalize(useEF bool) (*Dict, error) {
	counts := make([]uint64, 0, len(b.freq))
	for c := range b.freq {
		counts = append(counts, c)
	}

	// Establish the ascending-count tiebreak order with a radix sort over
	// the raw count values (dgryski/go-radixsort operates on []uint64
	// directly, avoiding the comparator overhead of sort.Slice for
	// potentially millions of distinct counts).
	radixsort.Uint64(counts)

	// A stable sort by descending frequency preserves that ascending-count
	// order among ties, giving exactly spec.md §4.5's ordering rule.
	slices.SortStableFunc(counts, func(a, b2 uint64) bool {
		return b.freq[a] > b.freq[b2]
	})

	var arr Array
	var err error
	if useEF {
		arr, err = buildEFArray(counts)
	} else {
		arr = buildSimpleArray(counts)
	}
	if err != nil {
		return nil, fmt.Errorf("countrank: finalize: %w", err)
	}

	toRank, err := buildToRank(counts)
	if err != nil {
		return nil, fmt.Errorf("countrank: building transient to_rank index: %w", err)
	}

	return &Dict{FromRank: arr, toRank: toRank, order: counts}, nil
}

// Rank returns the rank of a count value observed during Finalize's input.
// It panics if count was never observed — callers (the builder's joint
// pass, §4.7.1 Stage C) only ever call Rank with counts taken directly from
// the same order's records, so an unknown count indicates a builder bug.
func (d *Dict) Rank(count uint64) int {
	r := d.toRank.Get(encodeCountKey(count))
	if int(r) >= len(d.order) || d.order[r] != count {
		panic(fmt.Sprintf("countrank: count %d was not observed during Finalize", count))
	}
	return int(r)
}

// WriteTo serializes the dictionary's from_rank side only: to_rank is a
// transient build-time index and order is recoverable by replaying
// FromRank.Get(0..Len()-1) (spec.md §4.5, "to_rank ... is not serialized").
func (d *Dict) WriteTo(w io.Writer) (int64, error) {
	n, err := d.FromRank.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("countrank: write dict: %w", err)
	}
	return n, nil
}

// ReadDict deserializes a Dict written by WriteTo. The returned Dict's
// to_rank index is rebuilt from the deserialized from_rank array, since a
// frozen model only ever needs rank -> count (the lookup direction); Rank
// still works (e.g. for a builder rebuilding a higher order against an
// already-serialized dictionary) because it's rebuilt from the same order.
func ReadDict(r io.Reader) (*Dict, error) {
	arr, err := ReadArray(r)
	if err != nil {
		return nil, fmt.Errorf("countrank: read dict: %w", err)
	}
	order := make([]uint64, arr.Len())
	for i := range order {
		order[i] = arr.Get(i)
	}
	toRank, err := buildToRank(order)
	if err != nil {
		return nil, fmt.Errorf("countrank: read dict: rebuilding to_rank: %w", err)
	}
	return &Dict{FromRank: arr, toRank: toRank, order: order}, nil
}

func encodeCountKey(count uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(count >> (8 * i))
	}
	return b
}

func buildToRank(counts []uint64) (*mph.CHD, error) {
	keys := make([][]byte, len(counts))
	for i, c := range counts {
		keys[i] = encodeCountKey(c)
	}
	return mph.Build(keys)
}
