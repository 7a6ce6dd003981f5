package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateProgressLoggerAccumulatesCount(t *testing.T) {
	p := NewRateProgressLogger("explored: ", time.Hour, true)
	p.Add(10)
	p.Add(5)
	assert.EqualValues(t, 15, p.Count())
}

func TestRateProgressLoggerDisabledStillCounts(t *testing.T) {
	p := NewRateProgressLogger("explored: ", time.Nanosecond, false)
	p.Add(3)
	assert.EqualValues(t, 3, p.Count())
}

func TestRateProgressLoggerFinalizeDoesNotPanic(t *testing.T) {
	p := NewRateProgressLogger("explored: ", time.Hour, true)
	p.Add(1)
	p.Finalize()
}
