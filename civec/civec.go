// Package civec implements the compact integer vector of spec.md §4.3: a
// vector of n non-negative integers, each known in advance to fit in
// w = ceil(log2(max+1)) bits, packed contiguously.
package civec

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/constraints"
)

// Vector is a fixed-width packed integer vector. The zero value is not
// usable; construct with NewBuilder or Load.
type Vector struct {
	bs    *bitset.BitSet
	n     int
	width uint
}

// widthFor returns ceil(log2(max+1)), the number of bits needed to store
// any value in [0, max], except that max == 0 gets a width of 1.
func widthFor(max uint64) uint {
	if max == 0 {
		return 1
	}
	return uint(bits.Len64(max))
}

// Builder accumulates values via Append, then Freeze produces the packed
// Vector. Building is append-only, matching the builder's single forward
// pass over each order (spec.md §4.7.2).
type Builder struct {
	width  uint
	values []uint64
}

// NewBuilder creates a Builder sized to hold values up to and including max.
func NewBuilder(max uint64) *Builder {
	return &Builder{width: widthFor(max)}
}

// Append adds a value to the end of the vector under construction. It
// panics if v exceeds the width reserved at construction — this is a
// builder-usage bug, not a runtime input error (every caller in this module
// computes max from the actual data before constructing the Builder).
func (b *Builder) Append(v uint64) {
	if b.width < 64 && v>>b.width != 0 {
		panic(fmt.Sprintf("civec: value %d does not fit in reserved width %d", v, b.width))
	}
	b.values = append(b.values, v)
}

// Len returns the number of values appended so far.
func (b *Builder) Len() int { return len(b.values) }

// NewBuilderFromValues sizes a Builder from the maximum of values and
// appends all of them, for any of the integer-typed count/ID/rank slices
// scattered across this module (token IDs, count-ranks, raw counts) — the
// same generalization over "some unsigned integer type" the teacher's
// mmph/rbtz-mmph serialization code makes with its own UNumber constraint.
func NewBuilderFromValues[T constraints.Integer](values []T) *Builder {
	var max T
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	b := NewBuilder(uint64(max))
	for _, v := range values {
		b.Append(uint64(v))
	}
	return b
}

// Freeze packs the accumulated values into a read-only Vector.
func (b *Builder) Freeze() *Vector {
	n := len(b.values)
	bs := bitset.New(uint(n) * uint(b.width))
	for i, v := range b.values {
		base := uint(i) * b.width
		for bit := uint(0); bit < b.width; bit++ {
			if v&(1<<bit) != 0 {
				bs.Set(base + bit)
			}
		}
	}
	return &Vector{bs: bs, n: n, width: b.width}
}

// Len returns the number of packed values.
func (v *Vector) Len() int { return v.n }

// Width returns the per-value bit width.
func (v *Vector) Width() uint { return v.width }

// Get returns the value at position i.
func (v *Vector) Get(i int) uint64 {
	if i < 0 || i >= v.n {
		panic(fmt.Sprintf("civec: index %d out of range [0,%d)", i, v.n))
	}
	base := uint(i) * v.width
	var val uint64
	for bit := uint(0); bit < v.width; bit++ {
		if v.bs.Test(base + bit) {
			val |= 1 << bit
		}
	}
	return val
}

// ByteSize returns the approximate resident size in bytes.
func (v *Vector) ByteSize() int {
	if v == nil || v.bs == nil {
		return 0
	}
	return int(v.bs.BinaryStorageSize())
}

// WriteTo serializes the vector as a little-endian (n u64, width u64)
// header followed by the packed words in bitset.BitSet.WriteTo's own format.
func (v *Vector) WriteTo(w io.Writer) (int64, error) {
	var hdr [16]byte
	binary.LittleEndian.PutUint64(hdr[0:8], uint64(v.n))
	binary.LittleEndian.PutUint64(hdr[8:16], uint64(v.width))
	if _, err := w.Write(hdr[:]); err != nil {
		return 0, fmt.Errorf("civec: write header: %w", err)
	}
	n64, err := v.bs.WriteTo(w)
	if err != nil {
		return 16 + n64, fmt.Errorf("civec: write bitset: %w", err)
	}
	return 16 + n64, nil
}

// ReadVector deserializes a Vector written by WriteTo.
func ReadVector(r io.Reader) (*Vector, error) {
	var hdr [16]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("civec: read header: %w", err)
	}
	n := binary.LittleEndian.Uint64(hdr[0:8])
	width := binary.LittleEndian.Uint64(hdr[8:16])
	bs := &bitset.BitSet{}
	if _, err := bs.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("civec: read bitset: %w", err)
	}
	return &Vector{bs: bs, n: int(n), width: uint(width)}, nil
}
