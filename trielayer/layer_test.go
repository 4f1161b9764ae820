package trielayer_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eftc/trielayer"
)

// buildWorkedLayer2 replays spec.md §8's bigram layer directly against
// trielayer.Builder, independent of the builder package's joint-walk
// plumbing: parent A has children [A(0), C(2)], parent B has [B(1), C(2),
// D(3)], parent C has [A(0), D(3)], parent D has [B(1), D(3)].
func buildWorkedLayer2(t *testing.T) *trielayer.Layer {
	t.Helper()
	b := trielayer.NewBuilder(9)

	// parent A (position 0): no prior parent boundary to cross.
	b.AppendChild(0, 0) // A A -> rank 0
	b.AppendChild(2, 1) // A C -> rank 1

	// parent B (position 1): cross one boundary.
	b.AdvanceParent()
	b.AppendChild(1, 1) // B B
	b.AppendChild(2, 1) // B C
	b.AppendChild(3, 2) // B D

	// parent C (position 2): cross one boundary.
	b.AdvanceParent()
	b.AppendChild(0, 3) // C A
	b.AppendChild(3, 1) // C D

	// parent D (position 3): cross one boundary.
	b.AdvanceParent()
	b.AppendChild(1, 2) // D B
	b.AppendChild(3, 2) // D D

	// final closing boundary.
	b.AdvanceParent()

	return b.Freeze()
}

func TestLayerTokensAndPointers(t *testing.T) {
	layer := buildWorkedLayer2(t)
	require.Equal(t, 9, layer.NumTokens())

	want := []uint32{0, 2, 1, 2, 3, 0, 3, 1, 3}
	for i, w := range want {
		assert.Equal(t, w, layer.TokenAt(i))
	}

	wantPointers := [][2]int{{0, 2}, {2, 5}, {5, 7}, {7, 9}}
	for p, wp := range wantPointers {
		lo, hi := layer.ChildRange(p)
		assert.Equal(t, wp[0], lo)
		assert.Equal(t, wp[1], hi)
	}
}

func TestLayerFindChild(t *testing.T) {
	layer := buildWorkedLayer2(t)

	pos, ok := layer.FindChild(1, 3) // parent B, looking for D
	require.True(t, ok)
	assert.Equal(t, uint32(3), layer.TokenAt(pos))

	_, ok = layer.FindChild(1, 0) // parent B has no child token A
	assert.False(t, ok)

	_, ok = layer.FindChild(0, 9) // token never appears at all
	assert.False(t, ok)
}

func TestLayerCountRankAt(t *testing.T) {
	layer := buildWorkedLayer2(t)
	pos, ok := layer.FindChild(2, 3) // parent C, child D -> rank 1
	require.True(t, ok)
	assert.Equal(t, 1, layer.CountRankAt(pos))
}

func TestLayerWriteReadRoundTrip(t *testing.T) {
	layer := buildWorkedLayer2(t)

	var buf bytes.Buffer
	_, err := layer.WriteTo(&buf)
	require.NoError(t, err)

	layer2, err := trielayer.ReadLayer(&buf)
	require.NoError(t, err)

	require.Equal(t, layer.NumTokens(), layer2.NumTokens())
	for i := 0; i < layer.NumTokens(); i++ {
		assert.Equal(t, layer.TokenAt(i), layer2.TokenAt(i))
		assert.Equal(t, layer.CountRankAt(i), layer2.CountRankAt(i))
	}
}

func TestOrder1Layer(t *testing.T) {
	l := trielayer.NewOrder1Layer([]int{2, 0, 1, 1})
	require.Equal(t, 4, l.NumTokens())
	assert.Equal(t, 2, l.CountRankAt(0))
	assert.Equal(t, 0, l.CountRankAt(1))
	assert.Equal(t, 1, l.CountRankAt(2))
	assert.Equal(t, 1, l.CountRankAt(3))
}

func TestOrder1LayerWriteReadRoundTrip(t *testing.T) {
	l := trielayer.NewOrder1Layer([]int{0, 3, 1})
	var buf bytes.Buffer
	_, err := l.WriteTo(&buf)
	require.NoError(t, err)
	l2, err := trielayer.ReadOrder1Layer(&buf)
	require.NoError(t, err)
	for i := 0; i < l.NumTokens(); i++ {
		assert.Equal(t, l.CountRankAt(i), l2.CountRankAt(i))
	}
}
