// Package eftc provides the frozen, read-only Elias-Fano trie count
// language model: the product type spec.md §9's Design Notes describes as
// "parameterized by (TrieLayer, Vocabulary, CountRankArray)". This module
// has exactly one Vocabulary implementation (vocab.Vocabulary, the
// double-array trie) and exactly one structural TrieLayer implementation
// (trielayer.Layer, the gapped-Elias-Fano layer), so those two are
// monomorphic; CountRankArray is the one subsystem with two real backends
// (countrank.SimpleArray, countrank.EFArray — spec.md §11 feature 3), so
// Model holds it behind the countrank.Array interface. This is a deliberate,
// narrower use of dynamic dispatch than the "generics everywhere on the
// query path" ideal of spec.md §9 — see DESIGN.md's Open Question entry for
// why one interface indirection per Lookup call (not per element decoded)
// doesn't compromise the asymptotic contract.
package eftc

import (
	"fmt"

	"eftc/countrank"
	"eftc/trielayer"
	"eftc/utils"
	"eftc/vocab"
)

// MaxOrder is the largest supported gram order (spec.md §6.4).
const MaxOrder = 8

// Model is a frozen N-gram count index, built once by package builder and
// queried read-only thereafter (spec.md §3, Lifecycle).
type Model struct {
	Vocab *vocab.Vocabulary

	// Order1 is the degenerate order-1 layer (spec.md §3): token IDs are
	// implicit, so it holds only the count-rank array.
	Order1 *trielayer.Order1Layer

	// Layers holds the structural order-k layers for k = 2..NumOrders(),
	// i.e. Layers[0] is order 2, Layers[len(Layers)-1] is order NumOrders().
	Layers []*trielayer.Layer

	// Dicts holds one count-rank dictionary per order, Dicts[0] for order 1
	// through Dicts[NumOrders()-1] for the highest order.
	Dicts []*countrank.Dict
}

// NumOrders returns K, the highest gram order this model was built from.
func (m *Model) NumOrders() int {
	return len(m.Dicts)
}

// NumGrams returns the number of grams stored at order (1-indexed).
func (m *Model) NumGrams(order int) int {
	if order == 1 {
		return m.Order1.NumTokens()
	}
	return m.Layers[order-2].NumTokens()
}

// ByteSize returns the approximate total resident size in bytes.
func (m *Model) ByteSize() int {
	size := m.Vocab.ByteSize() + m.Order1.ByteSize()
	for _, l := range m.Layers {
		size += l.ByteSize()
	}
	for _, d := range m.Dicts {
		size += d.FromRank.ByteSize()
	}
	return size
}

// Stats returns a hierarchical memory-usage breakdown, one child per
// component (spec.md §11, supplemented "stats" feature, grounded on the
// teacher's utils.MemReport).
func (m *Model) Stats() utils.MemReport {
	children := []utils.MemReport{
		{Name: "vocab", TotalBytes: m.Vocab.ByteSize()},
		{Name: "order1", TotalBytes: m.Order1.ByteSize()},
	}
	for i, l := range m.Layers {
		children = append(children, utils.MemReport{
			Name:       fmt.Sprintf("layer[order=%d]", i+2),
			TotalBytes: l.ByteSize(),
		})
	}
	for i, d := range m.Dicts {
		children = append(children, utils.MemReport{
			Name:       fmt.Sprintf("countrank[order=%d]", i+1),
			TotalBytes: d.FromRank.ByteSize(),
		})
	}
	total := 0
	for _, c := range children {
		total += c.TotalBytes
	}
	return utils.MemReport{Name: "model", TotalBytes: total, Children: children}
}
