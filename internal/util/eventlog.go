package util

import "go.uber.org/zap"

// EventLog records coordinator lifecycle events — phase transitions, bound
// improvements, the final election — structured the way sakateka-yanet2's
// services log through a *zap.SugaredLogger, distinct from the plain
// log.Printf progress reporting Log/ProgressLogger use for the hot loop.
type EventLog struct {
	log *zap.SugaredLogger
}

// NewEventLog builds a production zap logger and wraps it. Callers that
// already have a *zap.SugaredLogger (e.g. tests using zaptest) should use
// NewEventLogFrom instead.
func NewEventLog() (*EventLog, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewEventLogFrom(l.Sugar()), nil
}

// NewEventLogFrom wraps an existing sugared logger.
func NewEventLogFrom(log *zap.SugaredLogger) *EventLog {
	return &EventLog{log: log}
}

// Noop returns an EventLog that discards everything, for callers that don't
// want lifecycle logging (e.g. benchmark sweeps run in a tight loop).
func Noop() *EventLog {
	return NewEventLogFrom(zap.NewNop().Sugar())
}

func (e *EventLog) PhaseStart(phase string, n int) {
	e.log.Infow("phase started", zap.String("phase", phase), zap.Int("n", n))
}

func (e *EventLog) PhaseEnd(phase string, n int, elapsedMillis int64) {
	e.log.Infow("phase ended", zap.String("phase", phase), zap.Int("n", n), zap.Int64("elapsed_ms", elapsedMillis))
}

func (e *EventLog) BoundImproved(rank, newBound int) {
	e.log.Infow("bound improved", zap.Int("rank", rank), zap.Int("new_bound", newBound))
}

func (e *EventLog) Elected(winnerRank, bestLen int) {
	e.log.Infow("final election completed", zap.Int("winner_rank", winnerRank), zap.Int("best_len", bestLen))
}

func (e *EventLog) Error(context string, err error) {
	e.log.Errorw(context, zap.Error(err))
}

// Sync flushes any buffered log entries; call on shutdown.
func (e *EventLog) Sync() error {
	return e.log.Sync()
}
