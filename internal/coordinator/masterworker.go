package coordinator

import (
	"context"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cenkalti/backoff/v5"

	"github.com/jeamy/golomb/internal/ruler"
	"github.com/jeamy/golomb/internal/search"
)

// WorkResult is what a worker (or a size-1 coordinator running solo)
// reports at the end of a master/worker run.
type WorkResult struct {
	BestLen  int
	Marks    []int
	Explored int64
	// Served is the number of prefixes the coordinator actually dispatched
	// to a worker (runSolo counts its own direct processing the same way).
	// It is always <= len(prefixes): prefixes skipped because a tightened
	// globalBound already pruned them before dispatch are never counted.
	// Only meaningful on the value RunCoordinator/runSolo itself returns;
	// a worker's own WorkResult leaves it at zero, since a worker never
	// knows how many prefixes remain in the coordinator's list.
	Served int
}

// RunCoordinator drives the Design B master role: it hands out prefixes
// from a precomputed, deterministically ordered list on demand, folding
// each worker's piggybacked local best into the global bound before
// replying, and terminates every worker once the list is exhausted. The
// list is generated once up front by search.GeneratePrefixes and served
// by index, since generation is already O(prefixes) and this avoids
// duplicating the generator's pruning logic in two places. served tracks
// dispatched indices in a compressed bitmap purely for observability;
// nothing here resends a prefix once served.
func RunCoordinator(ctx context.Context, t Transport, n int, prefixes []ruler.State, initialBound int) (WorkResult, error) {
	size := t.Size()
	if size == 1 {
		return runSolo(n, prefixes, initialBound), nil
	}

	served := roaring.New()
	globalBound := initialBound
	nextIdx := 0
	workersFinished := 0

	for workersFinished < size-1 {
		env, from, err := t.Recv(ctx)
		if err != nil {
			return WorkResult{}, err
		}
		if env.Tag == TagBoundUpdate {
			// A neighbouring worker's hypercube relay: fold it in like a
			// piggybacked local best.
			update, err := DecodeBoundUpdate(t.Rank(), env.Payload)
			if err != nil {
				return WorkResult{}, err
			}
			if int(update.NewBestLen) < globalBound {
				globalBound = int(update.NewBestLen)
			}
			continue
		}
		if env.Tag != TagRequest {
			return WorkResult{}, ProtocolViolationError{Rank: t.Rank(), Msg: "coordinator expected a Request"}
		}
		req, err := DecodeRequest(t.Rank(), env.Payload)
		if err != nil {
			return WorkResult{}, err
		}
		if int(req.WorkerLocalBest) < globalBound {
			globalBound = int(req.WorkerLocalBest)
		}

		for nextIdx < len(prefixes) {
			r := n - prefixes[nextIdx].MarksCount
			minAdditional := r * (r + 1) / 2
			if prefixes[nextIdx].RulerLength+minAdditional >= globalBound {
				nextIdx++ // pruned by the improved bound, never dispatched
				continue
			}
			break
		}

		if nextIdx >= len(prefixes) {
			if err := t.Send(ctx, from, Envelope{Tag: TagTerminate}); err != nil {
				return WorkResult{}, err
			}
			workersFinished++
			continue
		}

		assignment := Assignment{GlobalBestLen: int32(globalBound), Prefix: prefixes[nextIdx]}
		served.Add(uint32(nextIdx))
		nextIdx++
		if err := t.Send(ctx, from, Envelope{Tag: TagAssignment, Payload: EncodeAssignment(assignment)}); err != nil {
			return WorkResult{}, err
		}
	}

	flushStaleRelays(t)
	result, err := electFinal(ctx, t, WorkResult{BestLen: initialBound})
	if err != nil {
		return WorkResult{}, err
	}
	// served.GetCardinality() undercounts len(prefixes) whenever a worker's
	// piggybacked local best pruned entries of the list before they were
	// ever dispatched; the gap is exactly how many prefixes the
	// bound-tightening feedback loop saved the pool from exploring.
	result.Served = int(served.GetCardinality())
	return result, nil
}

// flushStaleRelays drains any in-flight bound-relay messages before the
// final hypercube election starts. RecvFrom only filters by sender, so a
// relay message still in transit from a partner would otherwise be
// mistaken for that partner's collective reply; termination already
// implies the search phase is over, so any relay traffic still queued at
// this point is stale and safe to discard.
func flushStaleRelays(t Transport) {
	for {
		if _, _, ok := t.TryRecv(); !ok {
			return
		}
	}
}

// runSolo handles the degenerate P=1 case: the "coordinator" is the only
// process, so it just runs every prefix itself, in order, through a single
// search.Backtracker on the calling goroutine.
func runSolo(n int, prefixes []ruler.State, initialBound int) WorkResult {
	bound := search.NewBound(initialBound)
	bt := search.NewBacktracker(initialBound)
	for _, p := range prefixes {
		bt.Explore(p, n, bound)
	}
	length, marks := bt.Best()
	return WorkResult{BestLen: length, Marks: marks, Explored: bt.Explored(), Served: len(prefixes)}
}

// RunWorker drives the Design B worker role: repeatedly request a prefix,
// explore it against the coordinator-supplied bound (via a persistent
// search.Backtracker so its thread-local best survives across prefixes),
// and relay bound improvements to hypercube neighbors so they diffuse in
// O(log P) rounds without funneling through the coordinator. A relay may
// occasionally reach a neighbor that already knows the bound; that is
// harmless since the shared bound's improve is idempotent.
func RunWorker(ctx context.Context, t Transport, n int, initialBound int) (WorkResult, error) {
	bound := search.NewBound(initialBound)
	bt := search.NewBacktracker(initialBound)

	hc, hcErr := NewHypercube(t) // only usable when Size() is a power of two
	relay := hcErr == nil

	for {
		req := Request{WorkerRank: int32(t.Rank()), WorkerLocalBest: int32(bound.Load())}
		if err := sendWithBackoff(ctx, t, 0, Envelope{Tag: TagRequest, Payload: EncodeRequest(req)}); err != nil {
			return WorkResult{}, err
		}

		// The coordinator's reply and a neighbor's relayed bound update
		// can race, so keep receiving until we see the reply we asked
		// for, applying any interleaved bound updates along the way.
		var env Envelope
		for {
			var err error
			env, _, err = t.Recv(ctx)
			if err != nil {
				return WorkResult{}, err
			}
			if env.Tag != TagBoundUpdate {
				break
			}
			if update, derr := DecodeBoundUpdate(t.Rank(), env.Payload); derr == nil {
				bound.Improve(int(update.NewBestLen))
			}
		}

		switch env.Tag {
		case TagTerminate:
			length, marks := bt.Best()
			local := WorkResult{BestLen: length, Marks: marks, Explored: bt.Explored()}
			flushStaleRelays(t)
			return electFinal(ctx, t, local)

		case TagAssignment:
			assignment, err := DecodeAssignment(t.Rank(), env.Payload)
			if err != nil {
				return WorkResult{}, err
			}
			bound.Improve(int(assignment.GlobalBestLen))
			before := bound.Load()
			bt.Explore(assignment.Prefix, n, bound)
			after := bound.Load()
			if relay && after < before {
				relayBoundUpdate(ctx, t, hc, after)
			}

		default:
			return WorkResult{}, ProtocolViolationError{Rank: t.Rank(), Msg: "worker expected Assignment or Terminate"}
		}

		// Drain any bound updates relayed by neighbors without blocking
		// the main request/assign cadence: polling is non-blocking so a
		// slow neighbor never stalls this worker's own progress.
		for {
			env, _, ok := t.TryRecv()
			if !ok {
				break
			}
			if env.Tag == TagBoundUpdate {
				if update, derr := DecodeBoundUpdate(t.Rank(), env.Payload); derr == nil {
					bound.Improve(int(update.NewBestLen))
				}
			}
		}
	}
}

func relayBoundUpdate(ctx context.Context, t Transport, hc *Hypercube, newBound int) {
	env := Envelope{Tag: TagBoundUpdate, Payload: EncodeBoundUpdate(BoundUpdate{NewBestLen: int32(newBound)})}
	for d := 0; d < hc.Dimensions(); d++ {
		partner := hc.Neighbor(d)
		if partner == t.Rank() {
			continue
		}
		// Fire-and-forget: relay failures (e.g. context cancellation at
		// shutdown) are not fatal to the worker's own progress.
		sendCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		_ = t.Send(sendCtx, partner, env)
		cancel()
	}
}

// sendWithBackoff retries a Send against transient blocking (a full inbox
// on a slow coordinator) with the exponential backoff the corpus uses for
// its own reconnect loops, rather than a bare busy-loop.
func sendWithBackoff(ctx context.Context, t Transport, to int, env Envelope) error {
	b := backoff.ExponentialBackOff{
		InitialInterval:     backoff.DefaultInitialInterval,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         50 * time.Millisecond,
	}
	b.Reset()

	for {
		sendCtx, cancel := context.WithTimeout(ctx, 5*time.Millisecond)
		err := t.Send(sendCtx, to, env)
		cancel()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		wait := b.NextBackOff()
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// electFinal runs the mandatory final all-reduce + broadcast: every rank's
// best length is reduced to the global minimum via the hypercube
// collective, the lowest rank holding that minimum is elected, and its
// marks are broadcast to everyone.
func electFinal(ctx context.Context, t Transport, local WorkResult) (WorkResult, error) {
	hc, err := NewHypercube(t)
	if err != nil {
		return WorkResult{}, err
	}

	globalMin, err := hc.AllReduceMin(ctx, local.BestLen)
	if err != nil {
		return WorkResult{}, err
	}

	hasWinner := t.Size()
	if local.BestLen == globalMin && local.Marks != nil {
		hasWinner = t.Rank()
	}
	winner, err := hc.allReduceRankMin(ctx, hasWinner)
	if err != nil {
		return WorkResult{}, err
	}

	explored, err := hc.AllReduceSum(ctx, local.Explored)
	if err != nil {
		return WorkResult{}, err
	}

	if winner >= t.Size() {
		return WorkResult{BestLen: globalMin, Explored: explored}, nil
	}

	var payload []byte
	if t.Rank() == winner {
		payload = EncodeFinalElection(FinalElection{BestLen: int32(globalMin), Marks: toInt32Slice(local.Marks)})
	}
	payload, err = hc.BroadcastBytes(ctx, TagFinalElection, payload, winner)
	if err != nil {
		return WorkResult{}, err
	}
	elect, err := DecodeFinalElection(t.Rank(), payload)
	if err != nil {
		return WorkResult{}, err
	}

	return WorkResult{BestLen: globalMin, Marks: fromInt32Slice(elect.Marks), Explored: explored}, nil
}

func toInt32Slice(marks []int) []int32 {
	out := make([]int32, len(marks))
	for i, m := range marks {
		out[i] = int32(m)
	}
	return out
}

func fromInt32Slice(marks []int32) []int {
	out := make([]int, len(marks))
	for i, m := range marks {
		out[i] = int(m)
	}
	return out
}

// allReduceRankMin is AllReduceMin specialized for electing the
// lowest-ranked winner, kept separate from AllReduceMin's bound-reduction
// role for clarity at call sites.
func (h *Hypercube) allReduceRankMin(ctx context.Context, localRank int) (int, error) {
	return h.AllReduceMin(ctx, localRank)
}
