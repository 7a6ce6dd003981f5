// Package golomb is the public entry point for the parallel/distributed
// optimal Golomb ruler search: it clamps and validates inputs, then drives
// the greedy seed, prefix generator, thread pool driver, and (optionally)
// inter-process coordinator in one call.
package golomb

import (
	"context"
	"fmt"
	"sort"

	"github.com/jeamy/golomb/internal/config"
	"github.com/jeamy/golomb/internal/coordinator"
	"github.com/jeamy/golomb/internal/pool"
	"github.com/jeamy/golomb/internal/ruler"
	"github.com/jeamy/golomb/internal/search"
	"github.com/jeamy/golomb/internal/util"
)

// MinN, MaxN and MaxLen are the entry function's clamp limits: n in [2, 24],
// maxLen in [n-1, 127].
const (
	MinN   = 2
	MaxN   = ruler.MaxMarks
	MaxLen = 127
)

// Ruler is the solved (or empty) result: marks is a sorted ascending
// sequence of distinct non-negative integers starting with 0; length
// equals the last mark. A ruler with no marks (length 0) means no ruler of
// length <= maxLen exists.
type Ruler struct {
	Marks  []int
	Length int
}

// Options controls a single Solve call, overlaying config.Config's process
// topology with search-specific overrides.
type Options struct {
	Config       config.Config
	InitialBound int // 0 means "use the greedy seed"
	PrefixDepth  int // 0 means "use Config.PrefixDepth, else auto per search.ComputePrefixDepth"
	EventLog     *util.EventLog
	Progress     *util.RateProgressLogger // optional; nil disables live progress reporting
}

// DefaultOptions returns Options wired to config.Default() and a no-op
// event log.
func DefaultOptions() Options {
	return Options{Config: config.Default(), EventLog: util.Noop()}
}

// Result carries the solved ruler plus the total number of states explored
// across every thread and process that took part in the search.
type Result struct {
	Ruler    Ruler
	Explored int64
	// PrefixesServed is the number of prefixes the coordinator actually
	// dispatched to a worker, as tracked by its roaring-bitmap ledger; it
	// is 0 for single-process runs and for the Design A symmetric
	// coordinator, neither of which keeps a per-index ledger.
	PrefixesServed int
}

// Solve is the top-level entry point: it clamps maxLen to the bit-width
// cap, computes a greedy seed, picks a prefix depth, generates prefixes,
// drives the thread pool (and, when opts.Config.Processes > 1, the
// inter-process coordinator), and assembles the final ruler.
func Solve(ctx context.Context, n, maxLen int, opts Options) (Result, error) {
	if n < MinN || n > MaxN {
		return Result{}, InvalidInputError{N: n, MaxLen: maxLen, Reason: fmt.Sprintf("n must be in [%d, %d]", MinN, MaxN)}
	}
	if maxLen > MaxLen {
		maxLen = MaxLen
	}
	if maxLen < n-1 {
		return Result{}, InvalidInputError{N: n, MaxLen: maxLen, Reason: fmt.Sprintf("maxLen must be >= n-1 (%d)", n-1)}
	}

	log := opts.EventLog
	if log == nil {
		log = util.Noop()
	}
	log.PhaseStart("solve", n)

	// Trivial case: n == 2 always yields {0,1}, length 1. Handled before
	// the search machinery runs, the way the original's
	// searchGolombSequentialV4WithBound special-cases n==2, since a 3-mark
	// prefix generator has nothing to produce for a 2-mark ruler.
	if n == 2 {
		return Result{Ruler: Ruler{Marks: []int{0, 1}, Length: 1}, Explored: 0}, nil
	}

	// Exclusive cutoff: valid completions must have length < bound.
	bound := maxLen + 1
	if opts.InitialBound > 0 && opts.InitialBound+1 < bound {
		bound = opts.InitialBound + 1
	} else if seedLen, _, ok := search.GreedySeed(n, bound); ok && seedLen+1 < bound {
		bound = seedLen + 1
	}

	depth := opts.PrefixDepth
	if depth <= 0 {
		depth = opts.Config.PrefixDepth
	}
	if depth <= 0 {
		depth = search.ComputePrefixDepth(n)
	}
	prefixes := search.GeneratePrefixes(n, bound, depth)

	cfg := opts.Config
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if cfg.Processes < 1 {
		cfg.Processes = 1
	}

	log.PhaseStart("search", n)
	var (
		bestLen  = bound
		marks    []int
		explored int64
		served   int
		err      error
	)
	if cfg.Processes <= 1 {
		bestLen, marks, explored, err = solveSingleProcess(ctx, n, prefixes, bound, cfg, opts.Progress)
	} else {
		bestLen, marks, explored, served, err = solveMultiProcess(ctx, n, prefixes, bound, depth, cfg)
	}
	if err != nil {
		log.Error("search failed", err)
		return Result{}, err
	}
	log.PhaseEnd("search", n, 0)

	if marks == nil {
		return Result{Ruler: Ruler{}, Explored: explored, PrefixesServed: served}, nil
	}
	sort.Ints(marks)
	return Result{Ruler: Ruler{Marks: marks, Length: bestLen}, Explored: explored, PrefixesServed: served}, nil
}

func solveSingleProcess(ctx context.Context, n int, prefixes []ruler.State, bound int, cfg config.Config, progress *util.RateProgressLogger) (int, []int, int64, error) {
	sharedBound := search.NewBound(bound)
	res, err := pool.RunVerbose(ctx, n, prefixes, sharedBound, cfg.Threads, progress)
	if err != nil {
		return 0, nil, 0, err
	}
	return res.Length, res.Marks, res.Explored, nil
}

func solveMultiProcess(ctx context.Context, n int, prefixes []ruler.State, bound, depth int, cfg config.Config) (int, []int, int64, int, error) {
	size := cfg.Processes
	net := coordinator.NewChannelNetwork(size, 2*size)

	results := make([]coordinator.WorkResult, size)
	errs := make([]error, size)
	done := make(chan int, size)

	syncInterval := cfg.SyncInterval
	if syncInterval < 1 {
		syncInterval = coordinator.SyncInterval
	}

	run := func(rank int) {
		defer func() { done <- rank }()
		ep := net.Endpoint(rank)
		if cfg.CoordinatorDesign == "symmetric" {
			// Design A regenerates its own prefix list per rank (see
			// RunDesignA's fingerprint cross-check), so the coordinator's
			// single shared slice built above is only needed by the
			// master/worker branch below.
			results[rank], errs[rank] = coordinator.RunDesignA(ctx, ep, n, bound, depth, syncInterval)
			return
		}
		if rank == 0 {
			results[rank], errs[rank] = coordinator.RunCoordinator(ctx, ep, n, prefixes, bound)
		} else {
			results[rank], errs[rank] = coordinator.RunWorker(ctx, ep, n, bound)
		}
	}

	for r := 0; r < size; r++ {
		go run(r)
	}
	for i := 0; i < size; i++ {
		<-done
	}

	for _, err := range errs {
		if err != nil {
			return 0, nil, 0, 0, err
		}
	}
	return results[0].BestLen, results[0].Marks, results[0].Explored, results[0].Served, nil
}
