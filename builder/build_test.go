package builder_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eftc/builder"
	"eftc/envelope"
	"eftc/lookup"
)

// These fixtures are the worked example from spec.md §8: token IDs are
// assigned in input order (A=0, B=1, C=2, D=3) since the unigram file is
// already lexicographically sorted.
const unigrams = "4\nA\t10\nB\t7\nC\t1\nD\t1\n"

const bigrams = "9\n" +
	"A A\t5\n" +
	"A C\t2\n" +
	"B B\t2\n" +
	"B C\t2\n" +
	"B D\t1\n" +
	"C A\t3\n" +
	"C D\t2\n" +
	"D B\t1\n" +
	"D D\t1\n"

const trigrams = "7\n" +
	"A A C\t4\n" +
	"B B C\t2\n" +
	"B B D\t1\n" +
	"B C D\t1\n" +
	"D B B\t2\n" +
	"D B C\t1\n" +
	"D D D\t1\n"

func buildWorkedExample(t *testing.T) *lookup.Engine {
	t.Helper()
	sources := []builder.Source{
		builder.StringSource(unigrams),
		builder.StringSource(bigrams),
		builder.StringSource(trigrams),
	}
	model, err := builder.Build(sources, builder.Config{})
	require.NoError(t, err)
	return lookup.New(model)
}

func TestWorkedExampleUnigramLookups(t *testing.T) {
	e := buildWorkedExample(t)

	c, ok := e.LookupString("A")
	require.True(t, ok)
	assert.EqualValues(t, 10, c)

	c, ok = e.LookupString("D")
	require.True(t, ok)
	assert.EqualValues(t, 1, c)

	_, ok = e.LookupString("E")
	assert.False(t, ok)
}

func TestWorkedExampleBigramLookups(t *testing.T) {
	e := buildWorkedExample(t)

	c, ok := e.LookupString("A A")
	require.True(t, ok)
	assert.EqualValues(t, 5, c)

	_, ok = e.LookupString("B A")
	assert.False(t, ok)
}

func TestWorkedExampleTrigramLookups(t *testing.T) {
	e := buildWorkedExample(t)

	c, ok := e.LookupString("B B D")
	require.True(t, ok)
	assert.EqualValues(t, 1, c)

	_, ok = e.LookupString("B B A")
	assert.False(t, ok)

	c, ok = e.LookupString("D D D")
	require.True(t, ok)
	assert.EqualValues(t, 1, c)
}

func TestWorkedExampleLayer2Structure(t *testing.T) {
	sources := []builder.Source{
		builder.StringSource(unigrams),
		builder.StringSource(bigrams),
	}
	model, err := builder.Build(sources, builder.Config{})
	require.NoError(t, err)

	layer := model.Layers[0]
	require.Equal(t, 9, layer.NumTokens())

	wantTokens := []uint32{0, 2, 1, 2, 3, 0, 3, 1, 3} // A C B C D A D B D
	for i, want := range wantTokens {
		assert.Equal(t, want, layer.TokenAt(i), "token at position %d", i)
	}

	wantPointers := []int{0, 2, 5, 7, 9}
	for p, want := range wantPointers {
		if p == len(wantPointers)-1 {
			break
		}
		lo, hi := layer.ChildRange(p)
		assert.Equal(t, want, lo, "ChildRange(%d) lo", p)
		assert.Equal(t, wantPointers[p+1], hi, "ChildRange(%d) hi", p)
	}
}

func TestWorkedExampleCountRankOrder2(t *testing.T) {
	sources := []builder.Source{
		builder.StringSource(unigrams),
		builder.StringSource(bigrams),
	}
	model, err := builder.Build(sources, builder.Config{})
	require.NoError(t, err)

	dict := model.Dicts[1] // order 2
	for _, c := range []uint64{2, 1, 3, 5} {
		rank := dict.Rank(c)
		assert.Equal(t, c, dict.FromRank.Get(rank), "from_rank[to_rank[%d]]", c)
	}
}

func TestWorkedExampleRoundTrip(t *testing.T) {
	sources := []builder.Source{
		builder.StringSource(unigrams),
		builder.StringSource(bigrams),
		builder.StringSource(trigrams),
	}
	model, err := builder.Build(sources, builder.Config{})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = envelope.WriteModel(&buf, model)
	require.NoError(t, err)

	model2, err := envelope.ReadModel(&buf)
	require.NoError(t, err)

	assert.Equal(t, model.NumOrders(), model2.NumOrders())
	for order := 1; order <= model.NumOrders(); order++ {
		assert.Equal(t, model.NumGrams(order), model2.NumGrams(order))
	}

	e2 := lookup.New(model2)
	for _, g := range []string{"A", "D", "A A", "B B D", "D D D"} {
		want, wantOK := lookup.New(model).LookupString(g)
		got, gotOK := e2.LookupString(g)
		assert.Equal(t, wantOK, gotOK, g)
		assert.Equal(t, want, got, g)
	}
	_, ok := e2.LookupString("E")
	assert.False(t, ok)
}

func TestMissingParentRejected(t *testing.T) {
	sources := []builder.Source{
		builder.StringSource(unigrams),
		builder.StringSource("1\nE E\t1\n"),
	}
	_, err := builder.Build(sources, builder.Config{})
	assert.Error(t, err)
}

func TestOrderOverflowRejected(t *testing.T) {
	sources := make([]builder.Source, 9)
	for i := range sources {
		sources[i] = builder.StringSource("0\n")
	}
	_, err := builder.Build(sources, builder.Config{})
	assert.Error(t, err)
}

func TestSingleUnigramVocabulary(t *testing.T) {
	sources := []builder.Source{builder.StringSource("1\nonly\t1\n")}
	model, err := builder.Build(sources, builder.Config{})
	require.NoError(t, err)
	e := lookup.New(model)
	c, ok := e.LookupString("only")
	require.True(t, ok)
	assert.EqualValues(t, 1, c)
}

func TestEmptyOrderKWithHigherOrderNonEmptyRejected(t *testing.T) {
	sources := []builder.Source{
		builder.StringSource(unigrams),
		builder.StringSource("0\n"),
		builder.StringSource(trigrams),
	}
	_, err := builder.Build(sources, builder.Config{})
	assert.Error(t, err)
}
