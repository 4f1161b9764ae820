package ef

import (
	"fmt"
	"io"
)

// List represents a sequence of n non-negative integers, not necessarily
// monotone, stored as the prefix-sum trick of spec.md §4.2:
// the cumulative sums are themselves a monotone Sequence, and Get(i) is
// recovered from two Select calls.
type List struct {
	sums *Sequence
}

// ListBuilder accumulates raw (not necessarily monotone) values and
// produces a List.
type ListBuilder struct {
	sum    uint64
	sums   []uint64
	maxSum uint64
}

// NewListBuilder creates a ListBuilder for n values.
func NewListBuilder(n int) *ListBuilder {
	return &ListBuilder{sums: make([]uint64, 0, n+1)}
}

// Append adds the next raw value v[i] to the list under construction.
func (b *ListBuilder) Append(v uint64) {
	if len(b.sums) == 0 {
		b.sums = append(b.sums, 0)
	}
	b.sum += v
	b.sums = append(b.sums, b.sum)
}

// Freeze finalizes the ListBuilder into a read-only List.
func (b *ListBuilder) Freeze() *List {
	if len(b.sums) == 0 {
		b.sums = []uint64{0}
	}
	n := len(b.sums)
	sb := NewBuilder(n, b.sum+1, true)
	for _, s := range b.sums {
		sb.Append(s)
	}
	return &List{sums: sb.Freeze()}
}

// Len returns the number of values in the list (one less than the number of
// prefix sums stored).
func (l *List) Len() int {
	if l.sums.Len() == 0 {
		return 0
	}
	return l.sums.Len() - 1
}

// Get returns v[i] = s[i+1] - s[i].
func (l *List) Get(i int) uint64 {
	if i < 0 || i >= l.Len() {
		panic(fmt.Sprintf("ef: List.Get index %d out of range [0,%d)", i, l.Len()))
	}
	return l.sums.Select(i+1) - l.sums.Select(i)
}

// ByteSize returns the approximate resident size in bytes.
func (l *List) ByteSize() int {
	if l == nil {
		return 0
	}
	return l.sums.ByteSize()
}

// WriteTo serializes the List (its prefix-sum Sequence).
func (l *List) WriteTo(w io.Writer) (int64, error) {
	return l.sums.WriteTo(w)
}

// ReadList deserializes a List written by WriteTo.
func ReadList(r io.Reader) (*List, error) {
	sums, err := ReadSequence(r)
	if err != nil {
		return nil, fmt.Errorf("ef: read list: %w", err)
	}
	return &List{sums: sums}, nil
}
