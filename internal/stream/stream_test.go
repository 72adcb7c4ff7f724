package stream

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSet(t *testing.T) {
	tests := []struct {
		in   string
		want []uint
	}{
		{"{}", nil},
		{"{3}", []uint{3}},
		{"{1,2,3}", []uint{1, 2, 3}},
		{"  { 1 , 20 ,300 }  ", []uint{1, 20, 300}},
		{"{\n0,\t1000000\n}", []uint{0, 1000000}},
	}
	for _, tt := range tests {
		got, err := ParseSet(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseSet_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"1,2}",
		"{1,2",
		"{1;2}",
		"{a}",
		"{1,}",
		"{,1}",
		"{-1}",
		"{1} x",
		"{99999999999999999999999999}",
	} {
		_, err := ParseSet(in)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, ErrMalformed, in)

		var pe *ParseError
		assert.ErrorAs(t, err, &pe, in)
	}
}

func TestReadSet_LeavesTrailingInput(t *testing.T) {
	r := strings.NewReader("{4,5} rest")
	got, err := ReadSet(r)
	require.NoError(t, err)
	assert.Equal(t, []uint{4, 5}, got)

	rest := make([]byte, 8)
	n, _ := r.Read(rest)
	assert.Equal(t, " rest", string(rest[:n]))
}

func TestParsePairs(t *testing.T) {
	got, err := ParsePairs("[1->{2,3}, {4,5}->6 ,x->-7]")
	require.NoError(t, err)
	assert.Equal(t, []Pair{
		{Key: "1", Value: "{2,3}"},
		{Key: "{4,5}", Value: "6"},
		{Key: "x", Value: "-7"},
	}, got)

	got, err = ParsePairs(" [ ] ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParsePairs_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"1->2]",
		"[1->2",
		"[1]",
		"[1->2,]",
		"[->2]",
		"[1->]",
		"[1->2] tail",
	} {
		_, err := ParsePairs(in)
		assert.ErrorIs(t, err, ErrMalformed, in)
	}
}

func TestAppendSet(t *testing.T) {
	got := AppendSet(nil, slices.Values([]uint{3, 7, 130}))
	assert.Equal(t, "{3,7,130}", string(got))
	assert.Equal(t, "{}", string(AppendSet(nil, slices.Values([]uint(nil)))))
}
