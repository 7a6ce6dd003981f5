// Package util holds small cross-cutting helpers shared by the CLI and
// benchmark sweep: verbose diagnostic logging and terminal progress bars.
package util

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Log prints a diagnostic message when verbose is true, used by the CLI's
// --verbose flag to narrate solve/sweep progress without cluttering
// default output.
func Log(verbose bool, format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

// ProgressLogger renders a percentage-complete progress bar for a sweep
// over a known number of rows, printed to stdout with in-place \r updates.
type ProgressLogger struct {
	totalEvents    uint64
	prefix         string
	suffix         string
	loggedEvents   uint64
	logStep        uint64
	nextEventToLog uint64
	enabled        bool
	startTime      time.Time
	lastUpdateTime time.Time
}

// NewProgressLogger creates a progress logger for totalEvents rows in a
// sweep. A sweep is one row per n value, almost always well under a
// thousand rows, so unlike a bulk key-count logger there is no need to
// coarsen updates into percentage buckets: every row gets its own print.
// Only once a sweep is unusually wide (> rowLogCap rows) does it fall back
// to ~1% steps so the terminal isn't flooded with a line per row.
func NewProgressLogger(totalEvents uint64, prefix, suffix string, enable bool) *ProgressLogger {
	const rowLogCap = 200

	pl := &ProgressLogger{
		totalEvents: totalEvents,
		prefix:      prefix,
		suffix:      suffix,
		enabled:     enable,
		startTime:   time.Now(),
	}

	pl.logStep = 1
	if totalEvents > rowLogCap {
		pl.logStep = (totalEvents + 99) / 100
	}

	if enable {
		pl.nextEventToLog = pl.logStep
		pl.update(false) // Initial print
	} else {
		pl.nextEventToLog = ^uint64(0) // Effectively disable updates if !enable
	}
	return pl
}

// Log increments the counter and updates progress if the step is reached.
func (pl *ProgressLogger) Log() {
	if !pl.enabled {
		return
	}
	pl.loggedEvents++
	if pl.loggedEvents >= pl.nextEventToLog {
		pl.update(false)
		pl.nextEventToLog += pl.logStep
		// Ensure the last update on 100%
		if pl.nextEventToLog > pl.totalEvents {
			pl.nextEventToLog = pl.totalEvents
		}
	}
}

// Finalize prints the 100% progress update.
func (pl *ProgressLogger) Finalize() {
	if !pl.enabled {
		return
	}
	// Ensure loggedEvents matches totalEvents if finalizing early
	pl.loggedEvents = pl.totalEvents
	pl.update(true)
}

// update prints the progress status as "<done>/<total> (<pct>%)" followed
// by the caller's suffix —
// row counts matter more than a bare percentage for a sweep, since a
// caller watching it usually already knows roughly how many n values it
// asked for.
func (pl *ProgressLogger) update(final bool) {
	perc := uint64(0)
	if pl.totalEvents > 0 {
		perc = (100 * pl.loggedEvents) / pl.totalEvents
	}
	line := func() string {
		return fmt.Sprintf("\r%s%d/%d (%d%%)%s", pl.prefix, pl.loggedEvents, pl.totalEvents, perc, pl.suffix)
	}
	fmt.Print(line())
	if final {
		elapsed := time.Since(pl.startTime)
		fmt.Printf(" (%.2fs) \n", elapsed.Seconds())
	} else {
		// A sweep row can take anywhere from milliseconds to minutes, so
		// this throttle mostly matters for the rowLogCap fallback path;
		// 250ms keeps the terminal from flickering during a burst of
		// fast, small-n rows without perceptibly delaying real updates.
		now := time.Now()
		if now.Sub(pl.lastUpdateTime) > 250*time.Millisecond {
			fmt.Print(strings.Repeat(" ", 10)) // clear previous line remnants
			fmt.Print(line())
			pl.lastUpdateTime = now
		}
	}
}
