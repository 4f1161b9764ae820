// Package lookup implements the query path of spec.md §4.8: tokenize,
// map tokens to vocabulary IDs, then descend the trie layer by layer.
package lookup

import (
	"bytes"

	"eftc"
	"eftc/gram"
	"eftc/utils"
)

// Engine is a lookup handle over a frozen Model. An Engine owns a small
// per-call scratch buffer for mapped token IDs, so it is re-entrant across
// calls but, per spec.md §5, not meant to be shared across goroutines —
// each concurrent reader should hold its own Engine over the same Model.
type Engine struct {
	model *eftc.Model
	ids   []int
}

// New creates an Engine over model.
func New(model *eftc.Model) *Engine {
	return &Engine{model: model}
}

// Lookup implements spec.md §4.8's algorithm for a Gram: it splits g on the
// gram separator and walks the trie (see LookupBytes/LookupString/
// LookupTokens for the convenience entry points).
func (e *Engine) Lookup(g gram.Gram) (uint64, bool) {
	toks := g.Tokens()
	return e.lookupTokens(toks)
}

// LookupBytes tokenizes raw bytes by the gram separator and looks them up.
func (e *Engine) LookupBytes(b []byte) (uint64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	return e.Lookup(gram.Gram(b))
}

// LookupString tokenizes a string by the gram separator and looks it up.
func (e *Engine) LookupString(s string) (uint64, bool) {
	return e.LookupBytes([]byte(s))
}

// LookupTokens looks up a gram given as a pre-split list of token strings.
func (e *Engine) LookupTokens(tokens []string) (uint64, bool) {
	toks := utils.Map(tokens, func(t string) gram.Token { return gram.Token(t) })
	return e.lookupTokens(toks)
}

func (e *Engine) lookupTokens(toks []gram.Token) (uint64, bool) {
	k := len(toks)
	if k == 0 || k > eftc.MaxOrder || k > e.model.NumOrders() {
		return 0, false
	}

	if cap(e.ids) < k {
		e.ids = make([]int, k)
	}
	ids := e.ids[:k]

	for i, t := range toks {
		if bytes.IndexByte(t, gram.Separator) >= 0 {
			return 0, false
		}
		id, ok := e.model.Vocab.Get(t)
		if !ok {
			return 0, false
		}
		ids[i] = id
	}

	pos := ids[0]
	if k == 1 {
		rank := e.model.Order1.CountRankAt(pos)
		return e.model.Dicts[0].FromRank.Get(rank), true
	}

	for j := 1; j < k; j++ {
		layer := e.model.Layers[j-1] // Layers[0] is order 2
		next, ok := layer.FindChild(pos, uint32(ids[j]))
		if !ok {
			return 0, false
		}
		pos = next
	}

	layer := e.model.Layers[k-2]
	rank := layer.CountRankAt(pos)
	return e.model.Dicts[k-1].FromRank.Get(rank), true
}
