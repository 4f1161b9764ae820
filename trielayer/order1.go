package trielayer

import (
	"fmt"
	"io"

	"eftc/civec"
)

// Order1Layer is the degenerate order-1 layer of spec.md §3: token IDs are
// implicit (position == token ID), so only the count-rank array is stored.
type Order1Layer struct {
	countRanks *civec.Vector
}

// NewOrder1Layer packs a count-rank array for the vocabulary-sized order-1
// layer. ranks[i] is the count-rank of the unigram with token ID i.
func NewOrder1Layer(ranks []int) *Order1Layer {
	return &Order1Layer{countRanks: civec.NewBuilderFromValues(ranks).Freeze()}
}

// NumTokens returns the vocabulary size.
func (l *Order1Layer) NumTokens() int { return l.countRanks.Len() }

// CountRankAt returns the count-rank of the unigram with token ID i.
func (l *Order1Layer) CountRankAt(i int) int { return int(l.countRanks.Get(i)) }

// ByteSize returns the approximate resident size in bytes.
func (l *Order1Layer) ByteSize() int {
	if l == nil {
		return 0
	}
	return l.countRanks.ByteSize()
}

// WriteTo serializes the layer.
func (l *Order1Layer) WriteTo(w io.Writer) (int64, error) {
	n, err := l.countRanks.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("trielayer: write order-1 layer: %w", err)
	}
	return n, nil
}

// ReadOrder1Layer deserializes an Order1Layer written by WriteTo.
func ReadOrder1Layer(r io.Reader) (*Order1Layer, error) {
	v, err := civec.ReadVector(r)
	if err != nil {
		return nil, fmt.Errorf("trielayer: read order-1 layer: %w", err)
	}
	return &Order1Layer{countRanks: v}, nil
}
