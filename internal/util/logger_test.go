package util

import "testing"

func TestNewProgressLoggerLogsEveryRowBelowCap(t *testing.T) {
	pl := NewProgressLogger(10, "sweep: ", " rows done", true)
	if pl.logStep != 1 {
		t.Fatalf("logStep = %d, want 1 for a sweep under the row cap", pl.logStep)
	}
}

func TestNewProgressLoggerCoarsensAboveRowCap(t *testing.T) {
	pl := NewProgressLogger(1000, "sweep: ", " rows done", true)
	if pl.logStep <= 1 {
		t.Fatalf("logStep = %d, want > 1 once totalEvents exceeds the row cap", pl.logStep)
	}
}

func TestProgressLoggerFinalizeSetsLoggedEventsToTotal(t *testing.T) {
	pl := NewProgressLogger(5, "sweep: ", "", true)
	pl.Log()
	pl.Log()
	pl.Finalize()
	if pl.loggedEvents != pl.totalEvents {
		t.Fatalf("loggedEvents = %d, want %d after Finalize", pl.loggedEvents, pl.totalEvents)
	}
}

func TestProgressLoggerDisabledDoesNotAdvance(t *testing.T) {
	pl := NewProgressLogger(5, "sweep: ", "", false)
	pl.Log()
	pl.Log()
	if pl.loggedEvents != 0 {
		t.Fatalf("loggedEvents = %d, want 0 when disabled", pl.loggedEvents)
	}
}
