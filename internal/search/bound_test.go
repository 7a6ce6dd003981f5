package search

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundImproveMonotonic(t *testing.T) {
	b := NewBound(100)
	assert.True(t, b.Improve(50))
	assert.Equal(t, 50, b.Load())
	assert.False(t, b.Improve(60), "worse candidate must not apply")
	assert.Equal(t, 50, b.Load())
	assert.True(t, b.Improve(10))
	assert.Equal(t, 10, b.Load())
}

func TestBoundConcurrentImprovementsConverge(t *testing.T) {
	b := NewBound(1000)
	var wg sync.WaitGroup
	for i := 1; i <= 200; i++ {
		wg.Add(1)
		go func(candidate int) {
			defer wg.Done()
			b.Improve(candidate)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, b.Load(), "the minimum candidate must win regardless of arrival order")
}
