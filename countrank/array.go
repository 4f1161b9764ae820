package countrank

import (
	"fmt"
	"io"

	"eftc/civec"
	"eftc/ef"
)

// SimpleArray is the uncompressed from_rank implementation: a fixed-width
// civec.Vector sized to the maximum observed count, matching spec.md §4.5's
// "from_rank is a compact integer vector" baseline and the "simple" variant
// named in spec.md §9's Design Notes / §11's supplemented dual-backend
// feature.
type SimpleArray struct {
	v *civec.Vector
}

func buildSimpleArray(counts []uint64) *SimpleArray {
	max := uint64(0)
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	b := civec.NewBuilder(max)
	for _, c := range counts {
		b.Append(c)
	}
	return &SimpleArray{v: b.Freeze()}
}

func (a *SimpleArray) Get(rank int) uint64 { return a.v.Get(rank) }
func (a *SimpleArray) Len() int            { return a.v.Len() }
func (a *SimpleArray) ByteSize() int       { return a.v.ByteSize() }

func (a *SimpleArray) WriteTo(w io.Writer) (int64, error) {
	var tag [1]byte
	tag[0] = tagSimple
	if _, err := w.Write(tag[:]); err != nil {
		return 0, err
	}
	n, err := a.v.WriteTo(w)
	return n + 1, err
}

// EFArray is the compressed from_rank implementation: an Elias-Fano gap-
// coded list (ef.List) over the from_rank sequence, for orders where the
// count distribution is large enough that EF's sublinear space wins over
// SimpleArray's fixed width (spec.md §4.2, §11 feature 3).
type EFArray struct {
	l *ef.List
}

func buildEFArray(counts []uint64) (*EFArray, error) {
	b := ef.NewListBuilder(len(counts))
	for _, c := range counts {
		b.Append(c)
	}
	return &EFArray{l: b.Freeze()}, nil
}

func (a *EFArray) Get(rank int) uint64 { return a.l.Get(rank) }
func (a *EFArray) Len() int            { return a.l.Len() }
func (a *EFArray) ByteSize() int       { return a.l.ByteSize() }

func (a *EFArray) WriteTo(w io.Writer) (int64, error) {
	var tag [1]byte
	tag[0] = tagEF
	if _, err := w.Write(tag[:]); err != nil {
		return 0, err
	}
	n, err := a.l.WriteTo(w)
	return n + 1, err
}

const (
	tagSimple byte = 0
	tagEF     byte = 1
)

// ReadArray deserializes whichever Array variant WriteTo wrote.
func ReadArray(r io.Reader) (Array, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return nil, fmt.Errorf("countrank: read array tag: %w", err)
	}
	switch tag[0] {
	case tagSimple:
		v, err := civec.ReadVector(r)
		if err != nil {
			return nil, fmt.Errorf("countrank: read simple array: %w", err)
		}
		return &SimpleArray{v: v}, nil
	case tagEF:
		l, err := ef.ReadList(r)
		if err != nil {
			return nil, fmt.Errorf("countrank: read ef array: %w", err)
		}
		return &EFArray{l: l}, nil
	default:
		return nil, fmt.Errorf("countrank: unknown array tag %d", tag[0])
	}
}
