package search

import "sync/atomic"

// Bound is the process-local shared best-length cutoff: a single
// machine-word atomic integer, monotonically non-increasing, read
// with relaxed loads and updated with a CAS-min retry loop. Concurrent
// improvements are serialized by the CAS; stale reads only weaken pruning,
// never correctness, so no other synchronization is needed.
type Bound struct {
	v atomic.Int64
}

// NewBound creates a shared bound initialized to v.
func NewBound(v int) *Bound {
	b := &Bound{}
	b.v.Store(int64(v))
	return b
}

// Load returns the current bound.
func (b *Bound) Load() int {
	return int(b.v.Load())
}

// Improve lowers the bound to candidate if candidate is strictly smaller
// than the current value, retrying under contention. Returns true if it
// applied the improvement.
func (b *Bound) Improve(candidate int) bool {
	c := int64(candidate)
	for {
		cur := b.v.Load()
		if c >= cur {
			return false
		}
		if b.v.CompareAndSwap(cur, c) {
			return true
		}
	}
}
