package civec_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eftc/civec"
)

func TestBuilderFreezeGet(t *testing.T) {
	values := []uint64{0, 5, 17, 42, 100}
	b := civec.NewBuilder(100)
	for _, v := range values {
		b.Append(v)
	}
	v := b.Freeze()
	require.Equal(t, len(values), v.Len())
	for i, want := range values {
		assert.Equal(t, want, v.Get(i))
	}
}

func TestAppendPanicsOnOverflow(t *testing.T) {
	b := civec.NewBuilder(3) // width = 2 bits
	assert.Panics(t, func() { b.Append(100) })
}

func TestNewBuilderFromValues(t *testing.T) {
	ranks := []int{0, 3, 1, 9, 9, 0}
	v := civec.NewBuilderFromValues(ranks).Freeze()
	require.Equal(t, len(ranks), v.Len())
	for i, want := range ranks {
		assert.EqualValues(t, want, v.Get(i))
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	b := civec.NewBuilder(1000)
	for i := 0; i < 50; i++ {
		b.Append(uint64(i * 17 % 1000))
	}
	v := b.Freeze()

	var buf bytes.Buffer
	_, err := v.WriteTo(&buf)
	require.NoError(t, err)

	v2, err := civec.ReadVector(&buf)
	require.NoError(t, err)
	require.Equal(t, v.Len(), v2.Len())
	require.Equal(t, v.Width(), v2.Width())
	for i := 0; i < v.Len(); i++ {
		assert.Equal(t, v.Get(i), v2.Get(i))
	}
}

func TestZeroMaxStillUsableForAllZeroVector(t *testing.T) {
	b := civec.NewBuilder(0)
	b.Append(0)
	b.Append(0)
	v := b.Freeze()
	assert.Equal(t, uint64(0), v.Get(0))
	assert.Equal(t, uint64(0), v.Get(1))
}
