package ruler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootState(t *testing.T) {
	r := Root()
	assert.Equal(t, 1, r.MarksCount)
	assert.Equal(t, 0, r.RulerLength)
	assert.Equal(t, []int{0}, r.Marks())
	assert.Equal(t, 1, r.ReversedMarks.PopCount())
}

func TestExtendMaintainsInvariants(t *testing.T) {
	r := Root()
	pos := 3
	diffs := r.NewDiffs(pos)
	require.False(t, r.Collides(diffs))

	child := r.Extend(pos, diffs)
	assert.Equal(t, 2, child.MarksCount)
	assert.Equal(t, pos, child.RulerLength)
	assert.Equal(t, child.MarksCount, child.ReversedMarks.PopCount(), "P1")
	assert.Equal(t, child.MarksCount*(child.MarksCount-1)/2, child.UsedDiffs.PopCount(), "P2")
	assert.Equal(t, []int{0, 3}, child.Marks())
}

func TestExtendChainMatchesKnownRuler(t *testing.T) {
	// {0,1,4,6} is the optimal 4-mark ruler.
	positions := []int{1, 4, 6}
	r := Root()
	for _, pos := range positions {
		diffs := r.NewDiffs(pos)
		require.False(t, r.Collides(diffs), "position %d should not collide", pos)
		r = r.Extend(pos, diffs)
	}
	assert.Equal(t, []int{0, 1, 4, 6}, r.Marks())
	assert.Equal(t, 6, r.RulerLength)
	assert.Equal(t, 4, r.MarksCount)
	assert.Equal(t, 6, r.UsedDiffs.PopCount())
}

func TestCollisionDetected(t *testing.T) {
	// {0,1} then {0,1,2} would repeat difference 1 twice (2-1=1, 1-0=1).
	r := Root()
	diffs := r.NewDiffs(1)
	r = r.Extend(1, diffs)

	badDiffs := r.NewDiffs(2)
	assert.True(t, r.Collides(badDiffs))
}
