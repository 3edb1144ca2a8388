package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepClock_Advances(t *testing.T) {
	clock := NewStepClock(1000, 10)

	assert.Equal(t, int64(1000), clock.NowMillis())
	assert.Equal(t, int64(1010), clock.NowMillis())
	assert.Equal(t, int64(1020), clock.Peek())
	assert.Equal(t, int64(1020), clock.NowMillis())
}

func TestStepClock_NonPositiveStep(t *testing.T) {
	clock := NewStepClock(5, 0)
	assert.Equal(t, int64(5), clock.NowMillis())
	assert.Equal(t, int64(6), clock.NowMillis())
}

func TestStepClock_Reset(t *testing.T) {
	clock := NewStepClock(1, 1)
	clock.NowMillis()
	clock.NowMillis()

	clock.Reset()
	assert.Equal(t, int64(1), clock.NowMillis())
}

func TestStepClock_ThreadSafe(t *testing.T) {
	clock := NewStepClock(1, 1)
	const numGoroutines = 50
	const callsPerGoroutine = 100

	var mu sync.Mutex
	seen := make(map[int64]bool)

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				v := clock.NowMillis()
				mu.Lock()
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, numGoroutines*callsPerGoroutine)
	for i := int64(1); i <= numGoroutines*callsPerGoroutine; i++ {
		assert.True(t, seen[i], "missing value %d", i)
	}
}

func TestSequenceGenerator(t *testing.T) {
	gen := NewSequenceGenerator("u")
	assert.Equal(t, "u-1", gen.Generate())
	assert.Equal(t, "u-2", gen.Generate())

	gen.Reset()
	assert.Equal(t, "u-1", gen.Generate())

	assert.Equal(t, "id-1", NewSequenceGenerator("").Generate())
}
