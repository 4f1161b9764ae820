package lookup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eftc"
	"eftc/countrank"
	"eftc/gram"
	"eftc/lookup"
	"eftc/trielayer"
	"eftc/vocab"
)

// buildTinyModel constructs a 2-order model directly from the component
// builders (bypassing the builder package) so this package's tests don't
// depend on it: vocabulary {A, B}, order-1 counts {A: 10, B: 7}, and a
// single bigram "A B" with count 3.
func buildTinyModel(t *testing.T) *eftc.Model {
	t.Helper()

	vb := vocab.NewBuilder()
	require.NoError(t, vb.Add(gram.Token("A")))
	require.NoError(t, vb.Add(gram.Token("B")))
	v, err := vb.Build()
	require.NoError(t, err)

	idA, ok := v.Get(gram.Token("A"))
	require.True(t, ok)
	idB, ok := v.Get(gram.Token("B"))
	require.True(t, ok)

	dict1b := countrank.NewBuilder()
	dict1b.Observe(10)
	dict1b.Observe(7)
	dict1, err := dict1b.Finalize(false)
	require.NoError(t, err)

	ranks := make([]int, 2)
	ranks[idA] = dict1.Rank(10)
	ranks[idB] = dict1.Rank(7)
	order1 := trielayer.NewOrder1Layer(ranks)

	dict2b := countrank.NewBuilder()
	dict2b.Observe(3)
	dict2, err := dict2b.Finalize(false)
	require.NoError(t, err)

	lb := trielayer.NewBuilder(1)
	if idA == 0 {
		lb.AppendChild(uint32(idB), dict2.Rank(3))
		lb.AdvanceParent()
	} else {
		lb.AdvanceParent()
		lb.AppendChild(uint32(idB), dict2.Rank(3))
	}
	lb.AdvanceParent()
	layer2 := lb.Freeze()

	return &eftc.Model{
		Vocab:  v,
		Order1: order1,
		Layers: []*trielayer.Layer{layer2},
		Dicts:  []*countrank.Dict{dict1, dict2},
	}
}

func TestLookupUnigram(t *testing.T) {
	m := buildTinyModel(t)
	e := lookup.New(m)

	c, ok := e.LookupString("A")
	require.True(t, ok)
	assert.EqualValues(t, 10, c)
}

func TestLookupBigram(t *testing.T) {
	m := buildTinyModel(t)
	e := lookup.New(m)

	c, ok := e.LookupString("A B")
	require.True(t, ok)
	assert.EqualValues(t, 3, c)
}

func TestLookupMissingToken(t *testing.T) {
	m := buildTinyModel(t)
	e := lookup.New(m)
	_, ok := e.LookupString("Z")
	assert.False(t, ok)
}

func TestLookupMissingGram(t *testing.T) {
	m := buildTinyModel(t)
	e := lookup.New(m)
	_, ok := e.LookupString("B A")
	assert.False(t, ok)
}

func TestLookupOrderTooHigh(t *testing.T) {
	m := buildTinyModel(t)
	e := lookup.New(m)
	_, ok := e.LookupTokens([]string{"A", "B", "A"})
	assert.False(t, ok)
}

func TestLookupEmptyTokens(t *testing.T) {
	m := buildTinyModel(t)
	e := lookup.New(m)
	_, ok := e.LookupTokens(nil)
	assert.False(t, ok)
}
