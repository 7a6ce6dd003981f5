package search

import "github.com/jeamy/golomb/internal/ruler"

// Backtracker is a per-worker iterative depth-first search over a
// pre-allocated frame stack. A single Backtracker is meant to be reused
// across many prefixes assigned to the same worker: its best witness and
// explored-state counter persist across Explore calls, the way a single
// OpenMP thread's ThreadBest persists across the prefixes its
// `#pragma omp for schedule(dynamic,1)` iteration hands it.
type Backtracker struct {
	frames    [ruler.MaxMarks]ruler.Frame
	bestLen   int
	bestMarks []int
	explored  int64
}

// NewBacktracker creates a Backtracker whose thread-local best starts at
// initialBestLen (normally the shared bound's value at worker start).
func NewBacktracker(initialBestLen int) *Backtracker {
	return &Backtracker{bestLen: initialBestLen}
}

// Best returns the best complete ruler this Backtracker has found across
// all Explore calls so far, or (initialBestLen, nil) if none.
func (bt *Backtracker) Best() (length int, marks []int) {
	return bt.bestLen, bt.bestMarks
}

// Explored returns the number of frames visited across all Explore calls.
func (bt *Backtracker) Explored() int64 {
	return bt.explored
}

// Explore enumerates every completion of prefix that reaches n marks with
// length strictly less than the shared bound observed during the call;
// every improvement is both recorded locally and CAS-min'd into bound.
// prefix must have MarksCount >= 1.
func (bt *Backtracker) Explore(prefix ruler.State, n int, bound *Bound) {
	currentGlobal := bound.Load()
	remaining := n - prefix.MarksCount
	if prefix.RulerLength+remaining*(remaining+1)/2 >= currentGlobal {
		return
	}

	marks := prefix.Marks()
	firstMark := -1
	if len(marks) >= 2 {
		firstMark = marks[1]
	}

	// A prefix can already be a complete n-mark ruler (e.g. prefix depth
	// D == n-1): record it as a candidate with the same mirror-tail check
	// used for a mid-search completion, since it never enters the frame
	// loop below otherwise.
	if prefix.MarksCount == n {
		bt.explored++
		lastGap := prefix.RulerLength - marks[len(marks)-2]
		if firstMark >= 0 && firstMark >= lastGap {
			return
		}
		if prefix.RulerLength < bt.bestLen {
			bt.bestLen = prefix.RulerLength
			bt.bestMarks = marks
			bound.Improve(prefix.RulerLength)
		}
		return
	}

	bt.frames[0] = ruler.Frame{State: prefix}
	stackTop := 0

	for stackTop >= 0 {
		bt.explored++
		frame := &bt.frames[stackTop]

		globalBest := bound.Load()
		r := n - frame.MarksCount
		minAdditional := r * (r + 1) / 2
		if frame.RulerLength+minAdditional >= globalBest {
			stackTop--
			continue
		}

		minPos := frame.RulerLength + 1
		maxRemaining := (r - 1) * r / 2
		maxPos := globalBest - maxRemaining - 1

		start := frame.NextCandidate
		if start == 0 {
			start = minPos
		}

		pushedChild := false
		for pos := start; pos <= maxPos; pos++ {
			latestBest := bound.Load()
			if pos >= latestBest {
				break
			}

			diffs := frame.NewDiffs(pos)
			if frame.Collides(diffs) {
				continue
			}

			if frame.MarksCount+1 == n {
				lastGap := pos - frame.RulerLength
				if firstMark >= 0 && firstMark >= lastGap {
					// Mirror-tail symmetry: keep only one of each mirror
					// pair, applied at completion only.
					continue
				}
				if pos < bt.bestLen {
					bt.bestLen = pos
					finalMarks := ruler.State{ReversedMarks: diffs.Set(0), RulerLength: pos}
					bt.bestMarks = finalMarks.Marks()
					bound.Improve(pos)
				}
				continue
			}

			frame.NextCandidate = pos + 1
			bt.frames[stackTop+1] = ruler.Frame{State: frame.Extend(pos, diffs)}
			stackTop++
			pushedChild = true
			break
		}

		if !pushedChild {
			stackTop--
		}
	}
}
