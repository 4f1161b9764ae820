// Package ef implements the Elias-Fano succinct integer representations of
// spec.md §4.1-§4.2: a monotone sequence with rank/select, and a gap-coded
// list of arbitrary non-negative integers built on top of it.
//
// The high-bits unary stream is backed by github.com/hillbig/rsdic's
// rank/select dictionary, the same bit-vector type the teacher's
// range-locator (rloc.Query) builds over leaf markers.
package ef

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"

	"github.com/hillbig/rsdic"

	"eftc/civec"
	"eftc/errutil"
)

// Sequence represents a sorted non-decreasing integer sequence
// x[0] <= x[1] <= ... <= x[n-1] < universe, encoded as low bits packed in a
// civec.Vector plus a unary high-bit stream with rank/select (rsdic.RSDic).
type Sequence struct {
	n        int
	universe uint64
	lowWidth uint
	low      *civec.Vector
	high     *rsdic.RSDic
	rankOK   bool
}

// lowWidthFor returns the low-bit width max(0, floor(log2(universe/n))) of
// spec.md §4.1.
func lowWidthFor(universe uint64, n int) uint {
	if n <= 0 || universe == 0 {
		return 0
	}
	ratio := universe / uint64(n)
	if ratio == 0 {
		return 0
	}
	return uint(bits.Len64(ratio)) - 1
}

// Builder accumulates a non-decreasing sequence, then Freeze produces the
// immutable Sequence. Values must be appended in non-decreasing order.
type Builder struct {
	universe   uint64
	n          int
	lowWidth   uint
	lowBuilder *civec.Builder
	high       *rsdic.RSDic
	prevHigh   uint64
	prev       uint64
	enableRank bool
}

// NewBuilder creates a Builder for a sequence of exactly n values, all
// strictly less than universe. enableRank controls whether the resulting
// Sequence supports Rank (spec.md §4.1's "optional rank index").
func NewBuilder(n int, universe uint64, enableRank bool) *Builder {
	lw := lowWidthFor(universe, n)
	maxLow := uint64(0)
	if lw > 0 {
		maxLow = (uint64(1) << lw) - 1
	}
	return &Builder{
		universe:   universe,
		lowWidth:   lw,
		lowBuilder: civec.NewBuilder(maxLow),
		high:       rsdic.New(),
		enableRank: enableRank,
	}
}

// Append adds the next value to the sequence under construction. It must be
// >= the previously appended value (checked only in debug builds, per
// spec.md §4.1).
func (b *Builder) Append(v uint64) {
	errutil.BugOn(v < b.prev, "ef: sequence.Append got %d after %d: not non-decreasing", v, b.prev)
	errutil.BugOn(v >= b.universe, "ef: sequence.Append got %d >= universe %d", v, b.universe)

	high := v
	var low uint64
	if b.lowWidth > 0 {
		high = v >> b.lowWidth
		low = v & ((uint64(1) << b.lowWidth) - 1)
	}
	for ; b.prevHigh < high; b.prevHigh++ {
		b.high.PushBack(false)
	}
	b.high.PushBack(true)
	b.lowBuilder.Append(low)
	b.n++
	b.prev = v
}

// Freeze finalizes the Builder into a read-only Sequence.
func (b *Builder) Freeze() *Sequence {
	return &Sequence{
		n:        b.n,
		universe: b.universe,
		lowWidth: b.lowWidth,
		low:      b.lowBuilder.Freeze(),
		high:     b.high,
		rankOK:   b.enableRank,
	}
}

// Len returns n, the number of encoded values.
func (s *Sequence) Len() int { return s.n }

// Universe returns the exclusive upper bound on encoded values.
func (s *Sequence) Universe() uint64 { return s.universe }

// Select returns x[i], the i-th smallest encoded value.
func (s *Sequence) Select(i int) uint64 {
	if i < 0 || i >= s.n {
		panic(fmt.Sprintf("ef: Select index %d out of range [0,%d)", i, s.n))
	}
	pos := s.high.Select(uint64(i), true)
	high := pos - uint64(i)
	if s.lowWidth == 0 {
		return high
	}
	return (high << s.lowWidth) | s.low.Get(i)
}

// Rank returns the number of encoded values strictly less than v. Rank
// panics if the Sequence was built with enableRank=false, matching
// spec.md §4.1's "when an optional rank index is enabled at build" clause.
func (s *Sequence) Rank(v uint64) int {
	if !s.rankOK {
		panic("ef: Rank called on a Sequence built without rank support")
	}
	if s.n == 0 || v == 0 {
		return 0
	}
	if v >= s.universe {
		return s.n
	}
	// Binary search over Select(i) < v; Select is monotone in i so this is
	// correct regardless of how many probes rsdic.Select costs internally.
	lo, hi := 0, s.n
	for lo < hi {
		mid := (lo + hi) / 2
		if s.Select(mid) < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// ByteSize returns the approximate resident size in bytes.
func (s *Sequence) ByteSize() int {
	if s == nil {
		return 0
	}
	size := s.low.ByteSize()
	if s.high != nil {
		size += s.high.AllocSize()
	}
	return size
}

// WriteTo serializes the Sequence as
// (n u64, universe u64, lowWidth u64, rankOK u8, low blob, high blob).
func (s *Sequence) WriteTo(w io.Writer) (int64, error) {
	var hdr [25]byte
	binary.LittleEndian.PutUint64(hdr[0:8], uint64(s.n))
	binary.LittleEndian.PutUint64(hdr[8:16], s.universe)
	binary.LittleEndian.PutUint64(hdr[16:24], uint64(s.lowWidth))
	if s.rankOK {
		hdr[24] = 1
	}
	var total int64
	if n, err := w.Write(hdr[:]); err != nil {
		return int64(n), fmt.Errorf("ef: write sequence header: %w", err)
	} else {
		total += int64(n)
	}
	n, err := s.low.WriteTo(w)
	total += n
	if err != nil {
		return total, fmt.Errorf("ef: write sequence low bits: %w", err)
	}
	hn, err := s.high.MarshalBinary()
	if err != nil {
		return total, fmt.Errorf("ef: marshal sequence high bits: %w", err)
	}
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(hn)))
	if wn, err := w.Write(lenBuf[:]); err != nil {
		return total, fmt.Errorf("ef: write sequence high-bits length: %w", err)
	} else {
		total += int64(wn)
	}
	wn, err := w.Write(hn)
	total += int64(wn)
	if err != nil {
		return total, fmt.Errorf("ef: write sequence high bits: %w", err)
	}
	return total, nil
}

// ReadSequence deserializes a Sequence written by WriteTo.
func ReadSequence(r io.Reader) (*Sequence, error) {
	var hdr [25]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("ef: read sequence header: %w", err)
	}
	s := &Sequence{
		n:        int(binary.LittleEndian.Uint64(hdr[0:8])),
		universe: binary.LittleEndian.Uint64(hdr[8:16]),
		lowWidth: uint(binary.LittleEndian.Uint64(hdr[16:24])),
		rankOK:   hdr[24] == 1,
	}
	low, err := civec.ReadVector(r)
	if err != nil {
		return nil, fmt.Errorf("ef: read sequence low bits: %w", err)
	}
	s.low = low
	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("ef: read sequence high-bits length: %w", err)
	}
	hlen := binary.LittleEndian.Uint64(lenBuf[:])
	hbuf := make([]byte, hlen)
	if _, err := io.ReadFull(r, hbuf); err != nil {
		return nil, fmt.Errorf("ef: read sequence high bits: %w", err)
	}
	high := rsdic.New()
	if err := high.UnmarshalBinary(hbuf); err != nil {
		return nil, fmt.Errorf("ef: unmarshal sequence high bits: %w", err)
	}
	s.high = high
	return s, nil
}
