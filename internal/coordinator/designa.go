package coordinator

import (
	"context"
	"encoding/binary"

	"github.com/jeamy/golomb/internal/ruler"
	"github.com/jeamy/golomb/internal/search"
)

// SyncInterval is the default number of prefixes each rank processes
// between hypercube bound synchronizations.
const SyncInterval = 64

// RunDesignA drives the Design A symmetric role: every rank runs the
// prefix generator itself — "done on all ranks identically" per the
// original's search_mpi_v3.cpp — then statically owns prefix i where
// i mod Size() == Rank(), runs the backtracker locally in batches of
// syncInterval prefixes, and synchronizes bestLen with an all-reduce
// (min) between batches. Because bound synchronization goes through the
// hypercube collective, RunDesignA requires a power-of-two Size().
func RunDesignA(ctx context.Context, t Transport, n, initialBound, depth, syncInterval int) (WorkResult, error) {
	hc, err := NewHypercube(t)
	if err != nil {
		return WorkResult{}, err
	}
	if syncInterval < 1 {
		syncInterval = SyncInterval
	}

	allPrefixes := search.GeneratePrefixes(n, initialBound, depth)

	// Independent generation is only as safe as the assumption that it's
	// actually deterministic: broadcast rank 0's fingerprint of its list
	// and compare, so a divergence (a platform bug, a future change that
	// breaks determinism) aborts loudly instead of silently distributing
	// mismatched work.
	fpBuf := make([]byte, 8)
	binary.LittleEndian.PutUint64(fpBuf, search.FingerprintAll(allPrefixes))
	rootFP, err := hc.BroadcastBytes(ctx, TagCounterUpdate, fpBuf, 0)
	if err != nil {
		return WorkResult{}, err
	}
	if len(rootFP) != 8 {
		return WorkResult{}, ProtocolViolationError{Rank: t.Rank(), Msg: "malformed prefix-fingerprint broadcast"}
	}
	diverged := 0
	if binary.LittleEndian.Uint64(rootFP) != binary.LittleEndian.Uint64(fpBuf) {
		diverged = 1
	}
	// Every rank learns whether any rank diverged, so rank 0 aborts too
	// instead of waiting on a partner that has already given up.
	anyDiverged, err := hc.allReduceMax(ctx, diverged)
	if err != nil {
		return WorkResult{}, err
	}
	if anyDiverged != 0 {
		return WorkResult{}, ProtocolViolationError{Rank: t.Rank(), Msg: "independently generated prefix list diverged from rank 0"}
	}

	rank, size := t.Rank(), t.Size()
	var mine []ruler.State
	for i, p := range allPrefixes {
		if i%size == rank {
			mine = append(mine, p)
		}
	}

	bound := search.NewBound(initialBound)
	bt := search.NewBacktracker(initialBound)

	rounds := 0
	for start := 0; start < len(mine); start += syncInterval {
		end := min(start+syncInterval, len(mine))
		for _, p := range mine[start:end] {
			bt.Explore(p, n, bound)
		}
		rounds++

		newBound, err := hc.AllReduceMin(ctx, bound.Load())
		if err != nil {
			return WorkResult{}, err
		}
		bound.Improve(newBound)
	}

	// Ranks with fewer prefixes than the maximum still owe the same number
	// of collective rounds, or a rank still mid-batch elsewhere would
	// block forever waiting on a partner that already moved on.
	maxLocal, err := hc.allReduceMax(ctx, len(mine))
	if err != nil {
		return WorkResult{}, err
	}
	maxRounds := (maxLocal + syncInterval - 1) / syncInterval
	for rounds < maxRounds {
		newBound, err := hc.AllReduceMin(ctx, bound.Load())
		if err != nil {
			return WorkResult{}, err
		}
		bound.Improve(newBound)
		rounds++
	}

	length, marks := bt.Best()
	local := WorkResult{BestLen: length, Marks: marks, Explored: bt.Explored()}
	return electFinal(ctx, t, local)
}

func (h *Hypercube) allReduceMax(ctx context.Context, local int) (int, error) {
	result, err := h.allReduce(ctx, int64(local), func(a, b int64) int64 {
		if a > b {
			return a
		}
		return b
	}, TagBoundUpdate)
	return int(result), err
}
