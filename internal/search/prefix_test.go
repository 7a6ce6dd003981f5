package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePrefixDepthTableAndClamp(t *testing.T) {
	cases := map[int]int{6: 2, 8: 3, 10: 3, 12: 4, 14: 4, 16: 5, 20: 5}
	for n, want := range cases {
		assert.Equal(t, want, ComputePrefixDepth(n), "n=%d", n)
	}
	assert.Equal(t, 2, ComputePrefixDepth(3), "must clamp to n-1 for tiny n")
	assert.Equal(t, 1, ComputePrefixDepth(2), "depth must never exceed n-1")
}

func TestGeneratePrefixesAreFeasibleAndAtDepth(t *testing.T) {
	n, maxLen, depth := 8, 50, 3
	prefixes := GeneratePrefixes(n, maxLen, depth)
	require.NotEmpty(t, prefixes)
	for _, p := range prefixes {
		assert.Equal(t, depth+1, p.MarksCount)
		assert.Equal(t, p.MarksCount, p.ReversedMarks.PopCount())
		assert.Equal(t, p.MarksCount*(p.MarksCount-1)/2, p.UsedDiffs.PopCount())
		marks := p.Marks()
		assert.Equal(t, 0, marks[0])
		for i := 1; i < len(marks); i++ {
			assert.Greater(t, marks[i], marks[i-1])
		}
	}
}

func TestGeneratePrefixesDeterministic(t *testing.T) {
	a := GeneratePrefixes(10, 60, 3)
	b := GeneratePrefixes(10, 60, 3)
	require.Equal(t, len(a), len(b))
	assert.Equal(t, FingerprintAll(a), FingerprintAll(b))
}

func TestGeneratePrefixesRespectPrefixSymmetry(t *testing.T) {
	maxLen := 40
	prefixes := GeneratePrefixes(9, maxLen, 2)
	require.NotEmpty(t, prefixes)
	for _, p := range prefixes {
		marks := p.Marks()
		assert.LessOrEqual(t, marks[1], maxLen/2, "first mark must respect prefix symmetry")
	}
}
