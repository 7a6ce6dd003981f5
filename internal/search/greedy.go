package search

import "github.com/jeamy/golomb/internal/ruler"

// GreedySeed produces a valid n-mark ruler by repeatedly placing the
// smallest position that does not collide with any prior difference,
// starting from {0}. It returns the resulting length and true, or
// (maxLen+1, false) — the "no ruler" sentinel — if it cannot place n marks
// within maxLen.
func GreedySeed(n, maxLen int) (length int, marks []int, ok bool) {
	if n <= 0 {
		return 0, nil, false
	}
	state := ruler.Root()
	for pos := 1; state.MarksCount < n && pos <= maxLen; pos++ {
		diffs := state.NewDiffs(pos)
		if state.Collides(diffs) {
			continue
		}
		state = state.Extend(pos, diffs)
	}
	if state.MarksCount != n {
		return maxLen + 1, nil, false
	}
	return state.RulerLength, state.Marks(), true
}
