// Package bench drives golomb.Solve across a table of n values and records
// per-run timing, the way the original's main_benchmark_compare.cpp sweeps
// a range and reports states/sec, but calling the public Solve entry point
// instead of duplicating the search.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/jeamy/golomb/pkg/golomb"
)

// Row is one sweep entry: the parameters solved for, the result, and the
// timing/throughput derived from it.
type Row struct {
	N             int
	MaxLen        int
	Length        int
	Marks         []int
	ElapsedMillis int64
	Explored      int64
	StatesPerSec  float64
}

// Sweep runs Solve for every n in ns with the given maxLen and options,
// producing one Row per n in order.
func Sweep(ctx context.Context, ns []int, maxLen int, opts golomb.Options) ([]Row, error) {
	rows := make([]Row, 0, len(ns))
	for _, n := range ns {
		start := time.Now()
		res, err := golomb.Solve(ctx, n, maxLen, opts)
		if err != nil {
			return rows, fmt.Errorf("solve n=%d: %w", n, err)
		}
		elapsed := time.Since(start)

		row := Row{
			N:             n,
			MaxLen:        maxLen,
			Length:        res.Ruler.Length,
			Marks:         res.Ruler.Marks,
			ElapsedMillis: elapsed.Milliseconds(),
			Explored:      res.Explored,
		}
		if secs := elapsed.Seconds(); secs > 0 {
			row.StatesPerSec = float64(res.Explored) / secs
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Verify checks a Row's ruler against the correctness self-check the
// original's test_correctness.cpp performs: pairwise mark differences must
// be distinct, and where a tabulated optimum exists for N, Length must
// match it exactly.
func Verify(row Row) error {
	if row.Length == 0 {
		if _, hasOptimum := golomb.Optimal[row.N]; hasOptimum {
			return fmt.Errorf("n=%d: expected a feasible ruler within maxLen=%d, found none", row.N, row.MaxLen)
		}
		return nil
	}
	if row.Marks[0] != 0 {
		return fmt.Errorf("n=%d: ruler does not start at 0: %v", row.N, row.Marks)
	}
	seen := make(map[int]bool, len(row.Marks)*(len(row.Marks)-1)/2)
	for i := range row.Marks {
		if i > 0 && row.Marks[i] <= row.Marks[i-1] {
			return fmt.Errorf("n=%d: marks not strictly increasing: %v", row.N, row.Marks)
		}
		for j := i + 1; j < len(row.Marks); j++ {
			d := row.Marks[j] - row.Marks[i]
			if seen[d] {
				return fmt.Errorf("n=%d: duplicate difference %d in %v", row.N, d, row.Marks)
			}
			seen[d] = true
		}
	}
	if row.Marks[len(row.Marks)-1] != row.Length {
		return fmt.Errorf("n=%d: length %d does not match last mark %d", row.N, row.Length, row.Marks[len(row.Marks)-1])
	}
	if want, ok := golomb.Optimal[row.N]; ok && row.Length != want {
		return fmt.Errorf("n=%d: length %d does not match tabulated optimum %d", row.N, row.Length, want)
	}
	return nil
}
