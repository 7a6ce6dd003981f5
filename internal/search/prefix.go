package search

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/jeamy/golomb/internal/ruler"
)

// ComputePrefixDepth picks the prefix depth D used to split the search
// into independent work items, scaling with n and clamped to [2, n-1].
func ComputePrefixDepth(n int) int {
	var d int
	switch {
	case n <= 6:
		d = 2
	case n <= 8:
		d = 3
	case n <= 10:
		d = 3
	case n <= 12:
		d = 4
	case n <= 14:
		d = 4
	case n <= 16:
		d = 5
	default:
		d = 5
	}
	if d < 2 {
		d = 2
	}
	if d > n-1 {
		d = n - 1
	}
	return d
}

// GeneratePrefixes enumerates every ruler.State of exactly depth+1 marks
// that is still feasible under bound (the same exclusive cutoff the
// backtracker calls bestLen: valid completions have length < bound), in
// deterministic lexicographic order on marks. Prefix symmetry restricts
// the first mark to [1, bound/2] so mirrored prefix pairs are not both
// explored; the mirror-tail rule is deliberately NOT applied here, since
// doing so during generation would drop non-mirrored completions reachable
// only from a "mirrored" prefix.
func GeneratePrefixes(n, bound, depth int) []ruler.State {
	if depth < 1 {
		depth = 1
	}
	targetMarks := depth + 1
	out := make([]ruler.State, 0, 1024)

	root := ruler.Root()
	firstMax := bound / 2
	for firstMark := 1; firstMark <= firstMax && firstMark < bound; firstMark++ {
		diffs := root.NewDiffs(firstMark)
		if root.Collides(diffs) {
			continue
		}
		child := root.Extend(firstMark, diffs)
		generatePrefixesRec(child, n, bound, targetMarks, &out)
	}
	return out
}

func generatePrefixesRec(s ruler.State, n, bound, targetMarks int, out *[]ruler.State) {
	if s.MarksCount == targetMarks {
		*out = append(*out, s)
		return
	}
	remaining := targetMarks - s.MarksCount
	minAdditional := remaining * (remaining + 1) / 2
	if s.RulerLength+minAdditional >= bound {
		return
	}

	// Same tight upper cap the backtracker uses, so generated prefixes are
	// never infeasible under the initial bound.
	overallRemaining := n - s.MarksCount
	maxRemaining := (overallRemaining - 1) * overallRemaining / 2
	maxPos := bound - maxRemaining - 1

	for pos := s.RulerLength + 1; pos <= maxPos; pos++ {
		diffs := s.NewDiffs(pos)
		if s.Collides(diffs) {
			continue
		}
		generatePrefixesRec(s.Extend(pos, diffs), n, bound, targetMarks, out)
	}
}

// Fingerprint returns a deterministic 64-bit digest of a prefix, used only
// to cross-check that independent generation runs (e.g. one per process in
// the Design A collective) produced byte-identical work lists without
// having to compare the full slice.
func Fingerprint(s ruler.State) uint64 {
	var buf [40]byte
	binary.LittleEndian.PutUint64(buf[0:8], s.ReversedMarks.Lo)
	binary.LittleEndian.PutUint64(buf[8:16], s.ReversedMarks.Hi)
	binary.LittleEndian.PutUint64(buf[16:24], s.UsedDiffs.Lo)
	binary.LittleEndian.PutUint64(buf[24:32], s.UsedDiffs.Hi)
	binary.LittleEndian.PutUint32(buf[32:36], uint32(s.MarksCount))
	binary.LittleEndian.PutUint32(buf[36:40], uint32(s.RulerLength))
	return xxhash.Sum64(buf[:])
}

// FingerprintAll folds Fingerprint across a whole prefix list into one
// digest, order-sensitive by construction since generation order must be
// reproducible across independent runs.
func FingerprintAll(prefixes []ruler.State) uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, p := range prefixes {
		binary.LittleEndian.PutUint64(buf[:], Fingerprint(p))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}
