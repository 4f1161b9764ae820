// Package builder implements the multi-pass streaming build of spec.md
// §4.7.1: one order-1 pass to seed the vocabulary, one pass per order to
// build that order's count-rank dictionary (Stage A), then a lockstep joint
// walk of each consecutive pair of order streams to build the structural
// trie layers (Stage C), assembling everything into a frozen *eftc.Model.
//
// No stage holds more than two orders' raw record streams in memory at
// once; the teacher's own builders (trie.MPHGoTrieBuilder,
// rloc.BuildSortedArrayLocator) follow the same discipline of one linear
// pass per input rather than loading the whole corpus into a working set.
package builder

import (
	"fmt"

	"eftc"
	"eftc/countrank"
	"eftc/gram"
	"eftc/record"
	"eftc/trielayer"
	"eftc/vocab"
)

// Build consumes sources[0] as the order-1 stream, sources[1] as order 2,
// and so on, and produces a frozen Model. len(sources) is the model's order
// K and must be in [1, eftc.MaxOrder] (spec.md §7, "Order overflow").
func Build(sources []Source, cfg Config) (*eftc.Model, error) {
	k := len(sources)
	if k == 0 {
		return nil, fmt.Errorf("builder: at least one (order-1) source is required")
	}
	if k > eftc.MaxOrder {
		return nil, fmt.Errorf("builder: %d orders exceeds the maximum of %d", k, eftc.MaxOrder)
	}

	dicts := make([]*countrank.Dict, k)
	for order := 1; order <= k; order++ {
		d, err := buildDict(sources[order-1], order, cfg.useEF(order))
		if err != nil {
			return nil, fmt.Errorf("builder: order %d count-rank dictionary: %w", order, err)
		}
		dicts[order-1] = d
		cfg.report("countrank", order)
	}

	vocabulary, order1Layer, err := buildVocabAndOrder1(sources[0], dicts[0])
	if err != nil {
		return nil, err
	}
	cfg.report("vocab", 1)

	layers := make([]*trielayer.Layer, 0, k-1)
	for order := 2; order <= k; order++ {
		layer, err := buildLayer(sources[order-2], sources[order-1], order, vocabulary, dicts[order-1])
		if err != nil {
			return nil, fmt.Errorf("builder: order %d trie layer: %w", order, err)
		}
		layers = append(layers, layer)
		cfg.report("trielayer", order)
	}

	return &eftc.Model{
		Vocab:  vocabulary,
		Order1: order1Layer,
		Layers: layers,
		Dicts:  dicts,
	}, nil
}

// buildDict runs Stage A for one order: a single pass over its records,
// observing every count value into a countrank.Builder.
func buildDict(src Source, order int, useEF bool) (*countrank.Dict, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("opening order-%d stream: %w", order, err)
	}
	defer rc.Close()

	p, err := record.NewParser(rc, order)
	if err != nil {
		return nil, err
	}

	b := countrank.NewBuilder()
	for {
		rec, ok, err := p.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		b.Observe(rec.Count)
	}

	return b.Finalize(useEF)
}

// buildVocabAndOrder1 runs Stage B: a second pass over the order-1 stream,
// this time collecting (token, count) pairs to add to the vocabulary
// builder. Once the vocabulary assigns dense IDs (by lexicographic order,
// spec.md §3), each collected pair's count-rank is placed at its token's ID
// to produce the order-1 layer.
func buildVocabAndOrder1(src Source, dict1 *countrank.Dict) (*vocab.Vocabulary, *trielayer.Order1Layer, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("builder: opening order-1 stream: %w", err)
	}
	defer rc.Close()

	p, err := record.NewParser(rc, 1)
	if err != nil {
		return nil, nil, err
	}

	vb := vocab.NewBuilder()
	type pair struct {
		tok   gram.Token
		count uint64
	}
	pairs := make([]pair, 0, p.Total())
	for {
		rec, ok, err := p.Next()
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			break
		}
		_, last := rec.Gram.SplitLast()
		if err := vb.Add(last); err != nil {
			return nil, nil, fmt.Errorf("builder: order-1: %w", err)
		}
		pairs = append(pairs, pair{tok: last.Clone(), count: rec.Count})
	}

	vocabulary, err := vb.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("builder: order-1: %w", err)
	}

	ranks := make([]int, vocabulary.Size())
	for _, pr := range pairs {
		id, ok := vocabulary.Get(pr.tok)
		if !ok {
			return nil, nil, fmt.Errorf("builder: order-1: token %q missing from its own vocabulary", pr.tok)
		}
		ranks[id] = dict1.Rank(pr.count)
	}

	return vocabulary, trielayer.NewOrder1Layer(ranks), nil
}
