package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeamy/golomb/internal/ruler"
)

func solveSingleThreaded(t *testing.T, n, maxLen int) (int, []int) {
	t.Helper()
	bound := NewBound(maxLen + 1)
	bt := NewBacktracker(bound.Load())
	bt.Explore(ruler.Root(), n, bound)
	return bt.Best()
}

func TestBacktrackerScenario4Marks(t *testing.T) {
	length, marks := solveSingleThreaded(t, 4, 100)
	assert.Equal(t, 6, length)
	assert.Equal(t, []int{0, 1, 4, 6}, marks)
}

func TestBacktrackerScenario7Marks(t *testing.T) {
	length, marks := solveSingleThreaded(t, 7, 100)
	assert.Equal(t, 25, length)
	assert.Equal(t, []int{0, 1, 4, 10, 18, 23, 25}, marks)
}

func TestBacktrackerBoundary2Marks(t *testing.T) {
	// n=2 is normally special-cased before the backtracker runs, but the
	// backtracker itself must still behave correctly if invoked directly.
	length, marks := solveSingleThreaded(t, 2, 5)
	assert.Equal(t, 1, length)
	assert.Equal(t, []int{0, 1}, marks)
}

func TestBacktrackerBoundary6MarksFeasible(t *testing.T) {
	length, marks := solveSingleThreaded(t, 6, 17)
	assert.Equal(t, 17, length)
	assert.Len(t, marks, 6)
}

func TestBacktrackerBoundary6MarksInfeasible(t *testing.T) {
	bound := NewBound(15 + 1)
	bt := NewBacktracker(bound.Load())
	bt.Explore(ruler.Root(), 6, bound)
	length, marks := bt.Best()
	assert.Equal(t, 16, length, "no improvement means bestLen stays at the initial cap")
	assert.Nil(t, marks)
}

func TestBacktrackerRespectsInitialBound(t *testing.T) {
	// Seeding with the known optimum must not explore past it and must
	// still return that optimum.
	bound := NewBound(6 + 1)
	bt := NewBacktracker(bound.Load())
	bt.Explore(ruler.Root(), 4, bound)
	length, marks := bt.Best()
	assert.Equal(t, 6, length)
	assert.Equal(t, []int{0, 1, 4, 6}, marks)
}

func TestBacktrackerParallelPrefixesAgreeWithSingleThreaded(t *testing.T) {
	n, maxLen := 8, 100
	wantLen, _ := solveSingleThreaded(t, n, maxLen)

	depth := 2
	prefixes := GeneratePrefixes(n, maxLen+1, depth)
	require.NotEmpty(t, prefixes)

	bound := NewBound(maxLen + 1)
	bt := NewBacktracker(bound.Load())
	for _, p := range prefixes {
		bt.Explore(p, n, bound)
	}
	gotLen, gotMarks := bt.Best()
	assert.Equal(t, wantLen, gotLen)
	assert.True(t, isGolomb(gotMarks))
	assert.Equal(t, gotLen, bound.Load())
}

func TestBacktrackerReturnedRulerIsValidGolomb(t *testing.T) {
	for _, n := range []int{3, 5, 6, 7} {
		_, marks := solveSingleThreaded(t, n, 100)
		require.True(t, isGolomb(marks), "n=%d", n)
		require.Equal(t, 0, marks[0])
		for i := 1; i < len(marks); i++ {
			require.Greater(t, marks[i], marks[i-1])
		}
	}
}

// A prefix depth of n-1 makes GeneratePrefixes hand Explore already-complete
// n-mark rulers, which never enter the frame loop; Explore must still record
// them as candidates instead of silently dropping them.
func TestBacktrackerRecordsAlreadyCompletePrefix(t *testing.T) {
	bound := NewBound(4) // exclusive cutoff: only length < 4 accepted
	bt := NewBacktracker(bound.Load())

	// {0} -> {0,1} -> {0,1,3}, built by hand rather than via GeneratePrefixes
	// so the test pins down Explore's behavior in isolation.
	root := ruler.Root()
	oneMark := root.Extend(1, root.NewDiffs(1))
	complete := oneMark.Extend(3, oneMark.NewDiffs(3))
	require.Equal(t, 3, complete.MarksCount)
	require.Equal(t, 3, complete.RulerLength)

	bt.Explore(complete, 3, bound)
	length, marks := bt.Best()
	assert.Equal(t, 3, length)
	assert.Equal(t, []int{0, 1, 3}, marks)
	assert.Equal(t, 3, bound.Load(), "a valid complete prefix must CAS-min the shared bound")
}

// {0,1,3} and {0,2,3} are mirror images of each other; Explore must record
// exactly one of them as a solution, using the same rule whether the
// completion is reached mid-search or handed in already complete.
func TestBacktrackerDedupsMirroredCompletePrefixes(t *testing.T) {
	n, bound := 3, 4
	depth := n - 1
	prefixes := GeneratePrefixes(n, bound, depth)
	require.Len(t, prefixes, 2)

	b := NewBound(bound)
	bt := NewBacktracker(b.Load())
	recorded := 0
	for _, p := range prefixes {
		before := bt.bestLen
		bt.Explore(p, n, b)
		if bt.bestLen < before {
			recorded++
		}
	}
	assert.Equal(t, 1, recorded, "exactly one of the mirrored completions should be recorded")
	length, marks := bt.Best()
	assert.Equal(t, 3, length)
	assert.True(t, isGolomb(marks))
}

// TestBacktrackerN3MaxLen3ViaGeneratedPrefixes documents the boundary case a maintainer flagged:
// n=3 with prefix depth n-1 (ComputePrefixDepth(3) == 2) hands the
// backtracker only already-complete prefixes.
func TestBacktrackerN3MaxLen3ViaGeneratedPrefixes(t *testing.T) {
	n := 3
	bound := NewBound(4)
	depth := ComputePrefixDepth(n)
	require.Equal(t, 2, depth)
	prefixes := GeneratePrefixes(n, bound.Load(), depth)
	require.NotEmpty(t, prefixes)

	bt := NewBacktracker(bound.Load())
	for _, p := range prefixes {
		bt.Explore(p, n, bound)
	}
	length, marks := bt.Best()
	assert.Equal(t, 3, length)
	assert.True(t, isGolomb(marks))
}
