package record_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eftc/record"
)

func TestParserHappyPath(t *testing.T) {
	input := "2\nthe\t100\nfox\t7\n"
	p, err := record.NewParser(strings.NewReader(input), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.Total())

	rec1, ok, err := p.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "the", rec1.Gram.String())
	assert.EqualValues(t, 100, rec1.Count)

	rec2, ok, err := p.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fox", rec2.Gram.String())
	assert.EqualValues(t, 7, rec2.Count)

	_, ok, err = p.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParserRejectsCountMismatch(t *testing.T) {
	input := "2\nthe\t100\n"
	p, err := record.NewParser(strings.NewReader(input), 1)
	require.NoError(t, err)
	_, ok, err := p.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = p.Next()
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestParserRejectsWrongOrder(t *testing.T) {
	input := "1\nthe fox\t5\n"
	p, err := record.NewParser(strings.NewReader(input), 1)
	require.NoError(t, err)
	_, _, err = p.Next()
	assert.Error(t, err)
}

func TestParserRejectsMalformedHeader(t *testing.T) {
	_, err := record.NewParser(strings.NewReader("not-a-number\n"), 1)
	assert.Error(t, err)
}

func TestParserRejectsMissingTab(t *testing.T) {
	p, err := record.NewParser(strings.NewReader("1\nnotab\n"), 1)
	require.NoError(t, err)
	_, _, err = p.Next()
	assert.Error(t, err)
}

func TestParserEmptyOrderAllowed(t *testing.T) {
	p, err := record.NewParser(strings.NewReader("0\n"), 2)
	require.NoError(t, err)
	_, ok, err := p.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecordOwnsItsBytes(t *testing.T) {
	input := "2\nthe\t1\nfox\t2\n"
	p, err := record.NewParser(strings.NewReader(input), 1)
	require.NoError(t, err)
	rec, ok, err := p.Next()
	require.NoError(t, err)
	require.True(t, ok)
	rec2, ok, err := p.Next()
	require.NoError(t, err)
	require.True(t, ok)
	_, ok, err = p.Next()
	require.NoError(t, err)
	require.False(t, ok)
	assert.Equal(t, "the", rec.Gram.String())
	assert.Equal(t, "fox", rec2.Gram.String())
}
