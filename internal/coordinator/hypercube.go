package coordinator

import (
	"context"
	"math/bits"
)

// Hypercube wraps a Transport whose Size() is a power of two and provides
// the classic hypercube collective algorithms: each process exchanges
// with its neighbor in every dimension, so a value converges to a
// collective result in O(log P) rounds instead of a naive O(P) chain.
type Hypercube struct {
	t    Transport
	dims int
}

// NewHypercube validates that t's rank count is a power of two and
// returns a Hypercube ready to run collectives over it.
func NewHypercube(t Transport) (*Hypercube, error) {
	size := t.Size()
	if size&(size-1) != 0 {
		return nil, RankCountMismatchError{Size: size}
	}
	dims := 0
	if size > 1 {
		dims = bits.TrailingZeros(uint(size))
	}
	return &Hypercube{t: t, dims: dims}, nil
}

// Dimensions returns log2(Size()).
func (h *Hypercube) Dimensions() int { return h.dims }

// Neighbor returns the partner rank in the given hypercube dimension.
func (h *Hypercube) Neighbor(dimension int) int {
	return h.t.Rank() ^ (1 << dimension)
}

// AllReduceMin exchanges localMin with the neighbor in every dimension,
// keeping the smaller value each round; after Dimensions() rounds every
// rank holds the same global minimum.
func (h *Hypercube) AllReduceMin(ctx context.Context, localMin int) (int, error) {
	result, err := h.allReduce(ctx, int64(localMin), func(a, b int64) int64 {
		if a < b {
			return a
		}
		return b
	}, TagBoundUpdate)
	return int(result), err
}

// AllReduceSum exchanges localSum with the neighbor in every dimension,
// accumulating; used to total the per-process explored-state counters at
// the final election.
func (h *Hypercube) AllReduceSum(ctx context.Context, localSum int64) (int64, error) {
	return h.allReduce(ctx, localSum, func(a, b int64) int64 { return a + b }, TagCounterUpdate)
}

func (h *Hypercube) allReduce(ctx context.Context, local int64, combine func(a, b int64) int64, tag Tag) (int64, error) {
	if h.t.Size() == 1 {
		return local, nil
	}
	result := local
	for d := 0; d < h.dims; d++ {
		partner := h.Neighbor(d)
		env := Envelope{Tag: tag, Payload: EncodeCounterUpdate(result)}
		if err := h.t.Send(ctx, partner, env); err != nil {
			return 0, err
		}
		recvEnv, err := h.t.RecvFrom(ctx, partner)
		if err != nil {
			return 0, err
		}
		received, err := DecodeCounterUpdate(h.t.Rank(), recvEnv.Payload)
		if err != nil {
			return 0, err
		}
		result = combine(result, received)
	}
	return result, nil
}

// Broadcast distributes value from root to every rank in Dimensions()
// rounds, following the dimension-order pattern in
// HypercubeMPI::broadcast: each rank already holding the value forwards it
// to its lower-dimension neighbors.
func (h *Hypercube) Broadcast(ctx context.Context, value int, root int) (int, error) {
	if h.t.Size() == 1 {
		return value, nil
	}
	rank := h.t.Rank()
	result := value

	for d := h.dims - 1; d >= 0; d-- {
		mask := (1 << (d + 1)) - 1
		partner := h.Neighbor(d)

		switch {
		case (rank & mask) == (root & mask):
			env := Envelope{Tag: TagBoundUpdate, Payload: EncodeBoundUpdate(BoundUpdate{NewBestLen: int32(result)})}
			if err := h.t.Send(ctx, partner, env); err != nil {
				return 0, err
			}
		case (rank & mask) == ((root ^ (1 << d)) & mask):
			recvEnv, err := h.t.RecvFrom(ctx, partner)
			if err != nil {
				return 0, err
			}
			update, err := DecodeBoundUpdate(rank, recvEnv.Payload)
			if err != nil {
				return 0, err
			}
			result = int(update.NewBestLen)
		}
	}
	return result, nil
}

// BroadcastBytes disseminates an arbitrary tagged payload from root to
// every rank in Dimensions() rounds, following the same dimension-order
// pattern as Broadcast but carrying one framed message instead of a single
// int — used for the final-election record, which the wire format defines
// as one { best_len, marks_count, marks[marks_count] } message rather than
// a length followed by a stream of per-mark broadcasts.
func (h *Hypercube) BroadcastBytes(ctx context.Context, tag Tag, payload []byte, root int) ([]byte, error) {
	if h.t.Size() == 1 {
		return payload, nil
	}
	rank := h.t.Rank()
	result := payload

	for d := h.dims - 1; d >= 0; d-- {
		mask := (1 << (d + 1)) - 1
		partner := h.Neighbor(d)

		switch {
		case (rank & mask) == (root & mask):
			env := Envelope{Tag: tag, Payload: result}
			if err := h.t.Send(ctx, partner, env); err != nil {
				return nil, err
			}
		case (rank & mask) == ((root ^ (1 << d)) & mask):
			recvEnv, err := h.t.RecvFrom(ctx, partner)
			if err != nil {
				return nil, err
			}
			result = recvEnv.Payload
		}
	}
	return result, nil
}
