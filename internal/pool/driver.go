// Package pool drives the shared-memory phase of a search: it fans a
// prefix list out across a fixed goroutine pool, each goroutine owning a
// persistent search.Backtracker exactly the way a single OpenMP thread
// owns a persistent ThreadBest across its dynamically scheduled loop
// iterations.
package pool

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jeamy/golomb/internal/ruler"
	"github.com/jeamy/golomb/internal/search"
	"github.com/jeamy/golomb/internal/util"
)

// Result is the outcome of running a prefix list to completion.
type Result struct {
	Length   int
	Marks    []int
	Explored int64
}

// Run explores every prefix in prefixes across numThreads goroutines,
// pulling work one prefix at a time from a shared atomic cursor, the same
// dynamic, one-item-at-a-time scheduling a `#pragma omp for
// schedule(dynamic,1)` loop gives its threads. Each goroutine keeps its own
// search.Backtracker for the whole run, so its thread-local best survives
// across every prefix it is handed. bound is shared across all goroutines
// and CAS-min'd on every improvement, so a discovery in one goroutine
// immediately prunes the others.
//
// Run returns ctx.Err() if ctx is cancelled before all prefixes are
// explored; partial results are discarded in that case, since the shared
// bound already reflects any improvements the cancelled workers made.
func Run(ctx context.Context, n int, prefixes []ruler.State, bound *search.Bound, numThreads int) (Result, error) {
	return RunVerbose(ctx, n, prefixes, bound, numThreads, nil)
}

// RunVerbose is Run plus an optional progress logger: if progress is
// non-nil, each goroutine reports the states it explored per prefix so a
// caller can render a live "states explored" counter for the hot loop.
func RunVerbose(ctx context.Context, n int, prefixes []ruler.State, bound *search.Bound, numThreads int, progress *util.RateProgressLogger) (Result, error) {
	if numThreads < 1 {
		numThreads = 1
	}
	if len(prefixes) == 0 {
		return Result{Length: bound.Load()}, nil
	}
	if numThreads > len(prefixes) {
		numThreads = len(prefixes)
	}

	var cursor atomic.Int64
	var mu sync.Mutex
	best := Result{Length: bound.Load()}

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < numThreads; w++ {
		g.Go(func() error {
			bt := search.NewBacktracker(bound.Load())
			var lastExplored int64
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				idx := cursor.Add(1) - 1
				if idx >= int64(len(prefixes)) {
					break
				}
				bt.Explore(prefixes[idx], n, bound)
				if progress != nil {
					explored := bt.Explored()
					progress.Add(explored - lastExplored)
					lastExplored = explored
				}
			}

			length, marks := bt.Best()
			mu.Lock()
			if marks != nil && length < best.Length {
				best.Length = length
				best.Marks = marks
			}
			best.Explored += bt.Explored()
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if progress != nil {
		progress.Finalize()
	}
	return best, nil
}
