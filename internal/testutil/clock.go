package testutil

import "sync"

// StepClock is a deterministic millisecond clock for tests.
//
// Every call to NowMillis returns the current value and then advances it by
// step, so consecutive records get strictly increasing timestamps.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu    sync.Mutex
	start int64
	now   int64
	step  int64
}

// NewStepClock creates a clock whose first reading is start.
// A step below 1 is treated as 1.
func NewStepClock(start, step int64) *StepClock {
	if step < 1 {
		step = 1
	}
	return &StepClock{start: start, now: start, step: step}
}

// NowMillis returns the current reading and advances the clock.
func (c *StepClock) NowMillis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.now
	c.now += c.step
	return v
}

// Peek returns the next reading without advancing.
func (c *StepClock) Peek() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Reset rewinds the clock to its start value.
//
// Used for test reuse. After Reset(), NowMillis returns start again.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
}
