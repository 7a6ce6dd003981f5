package util

import (
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateProgressLogger tracks a running count of explored states and prints an
// update at most once per tick, the same role as ProgressLogger above but
// rate-limited with a real token bucket instead of ProgressLogger's manual
// time.Since comparison — useful for the search hot loop, where the caller
// increments far more often than the terminal should be redrawn.
type RateProgressLogger struct {
	count     atomic.Int64
	prefix    string
	limiter   *rate.Limiter
	startTime time.Time
	enabled   bool
}

// NewRateProgressLogger builds a logger that prints at most once per
// interval. enable=false makes every call a no-op.
func NewRateProgressLogger(prefix string, interval time.Duration, enable bool) *RateProgressLogger {
	return &RateProgressLogger{
		prefix:    prefix,
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
		startTime: time.Now(),
		enabled:   enable,
	}
}

// Add increments the counter by delta and prints an update if the rate
// limiter currently allows it.
func (p *RateProgressLogger) Add(delta int64) {
	total := p.count.Add(delta)
	if !p.enabled {
		return
	}
	if p.limiter.Allow() {
		p.print(total, false)
	}
}

// Finalize forces one last unconditional print.
func (p *RateProgressLogger) Finalize() {
	if !p.enabled {
		return
	}
	p.print(p.count.Load(), true)
}

// Count returns the current running total.
func (p *RateProgressLogger) Count() int64 {
	return p.count.Load()
}

func (p *RateProgressLogger) print(total int64, final bool) {
	elapsed := time.Since(p.startTime).Seconds()
	rate := float64(0)
	if elapsed > 0 {
		rate = float64(total) / elapsed
	}
	if final {
		fmt.Printf("\r%s%d states explored (%.0f states/sec, %.2fs)\n", p.prefix, total, rate, elapsed)
	} else {
		fmt.Printf("\r%s%d states explored (%.0f states/sec)", p.prefix, total, rate)
	}
}
