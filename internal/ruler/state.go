// Package ruler defines the tagged partial-ruler record shared by the
// prefix generator, the backtracker, and the master/worker coordinator.
package ruler

import "github.com/jeamy/golomb/internal/bitset"

// MaxMarks bounds the frame stack depth (n <= MaxMarks per the entry
// contract's n in [2,24]).
const MaxMarks = 24

// State is a partial (or complete) Golomb ruler: ReversedMarks bit i set
// means there is a mark at distance i from the current last mark;
// UsedDiffs bit d set means some pair of current marks differs by d.
type State struct {
	ReversedMarks bitset.BitSet128
	UsedDiffs     bitset.BitSet128
	MarksCount    int
	RulerLength   int
}

// Root returns the initial one-mark state {0}.
func Root() State {
	return State{ReversedMarks: bitset.BitSet128{}.Set(0), MarksCount: 1}
}

// Extend returns the child state obtained by placing a mark at pos, given
// that newDiffs = s.ReversedMarks.Shl(pos - s.RulerLength) has already been
// checked disjoint from s.UsedDiffs by the caller (this is the same shift
// the caller used for the collision test, so it is passed in rather than
// recomputed).
func (s State) Extend(pos int, newDiffs bitset.BitSet128) State {
	return State{
		ReversedMarks: newDiffs.Set(0),
		UsedDiffs:     s.UsedDiffs.Xor(newDiffs),
		MarksCount:    s.MarksCount + 1,
		RulerLength:   pos,
	}
}

// NewDiffs computes the shift-based candidate-difference set for placing a
// mark at pos. This is the entire hot path: a single shift plus an AND in
// Collides.
func (s State) NewDiffs(pos int) bitset.BitSet128 {
	return s.ReversedMarks.Shl(pos - s.RulerLength)
}

// Collides reports whether newDiffs overlaps s.UsedDiffs.
func (s State) Collides(newDiffs bitset.BitSet128) bool {
	return newDiffs.And(s.UsedDiffs).Any()
}

// Marks reconstructs the absolute, ascending mark positions encoded by s.
func (s State) Marks() []int {
	marks := make([]int, 0, s.MarksCount)
	for i := 0; i <= s.RulerLength; i++ {
		if s.ReversedMarks.Test(s.RulerLength - i) {
			marks = append(marks, i)
		}
	}
	return marks
}

// Frame is a stack entry used by the iterative backtracker: a State plus a
// resumable cursor for the next candidate position to try.
type Frame struct {
	State
	NextCandidate int
}
