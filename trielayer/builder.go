package trielayer

import (
	"eftc/civec"
	"eftc/ef"
)

// Builder assembles a Layer across the single joint pass described in
// spec.md §4.7.1 Stage C: the caller advances through the parent (order
// k-1) stream, calling AdvanceParent once per parent boundary crossed
// (including the trailing boundary after the last parent), and calls
// AppendChild once per k-gram in the current parent's range.
type Builder struct {
	tokenRaw   []uint32
	countRanks []int
	pointers   []int
	started    bool
}

// NewBuilder creates an empty layer Builder. maxChildrenHint only pre-sizes
// the token and count-rank slices; it does not bound the layer.
func NewBuilder(maxChildrenHint int) *Builder {
	return &Builder{
		tokenRaw:   make([]uint32, 0, maxChildrenHint),
		countRanks: make([]int, 0, maxChildrenHint),
		pointers:   []int{0},
	}
}

// AdvanceParent records a parent boundary: the current child count becomes
// the pointer value for the next parent position. Called once per
// order-(k-1) record advanced over (spec.md §4.7.1 step 2), and once more
// after the last one to close the array (pointers.Len() == n_{k-1}+1).
func (b *Builder) AdvanceParent() {
	b.pointers = append(b.pointers, len(b.tokenRaw))
	b.started = true
}

// AppendChild records one k-gram: its k-th token ID (relative to its
// parent, i.e. not yet biased by a running base) and its count-rank under
// the order-k dictionary.
func (b *Builder) AppendChild(tokenID uint32, countRank int) {
	b.tokenRaw = append(b.tokenRaw, tokenID)
	b.countRanks = append(b.countRanks, countRank)
}

// Freeze computes the per-parent running bases, builds the gapped token
// sequence, and packs the count ranks, producing an immutable Layer.
// pointers must already have its trailing boundary appended via a final
// AdvanceParent call, so that len(pointers) == numParents+1.
func (b *Builder) Freeze() *Layer {
	numParents := len(b.pointers) - 1
	if numParents < 0 {
		numParents = 0
	}

	tokenPrime := make([]uint64, len(b.tokenRaw))
	bases := make([]uint64, 0, numParents)
	var runningBase uint64
	for p := 0; p < numParents; p++ {
		base := runningBase
		bases = append(bases, base)
		lo, hi := b.pointers[p], b.pointers[p+1]
		for i := lo; i < hi; i++ {
			tokenPrime[i] = uint64(b.tokenRaw[i]) + base
		}
		if hi > lo {
			runningBase = tokenPrime[hi-1]
		}
	}

	tokenUniverse := runningBase + 1
	tokensBuilder := ef.NewBuilder(len(tokenPrime), tokenUniverse, true)
	for _, v := range tokenPrime {
		tokensBuilder.Append(v)
	}

	baseUniverse := runningBase + 1
	basesBuilder := ef.NewBuilder(len(bases), baseUniverse, false)
	for _, v := range bases {
		basesBuilder.Append(v)
	}

	pointerUniverse := uint64(len(b.tokenRaw)) + 1
	pointersBuilder := ef.NewBuilder(len(b.pointers), pointerUniverse, true)
	for _, v := range b.pointers {
		pointersBuilder.Append(uint64(v))
	}

	countRanksBuilder := civec.NewBuilderFromValues(b.countRanks)

	return &Layer{
		tokens:     tokensBuilder.Freeze(),
		bases:      basesBuilder.Freeze(),
		pointers:   pointersBuilder.Freeze(),
		countRanks: countRanksBuilder.Freeze(),
		numParents: numParents,
	}
}
