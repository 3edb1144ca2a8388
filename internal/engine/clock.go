package engine

import "time"

// Clock supplies record timestamps in Unix milliseconds.
//
// Implemented by SystemClock (production) and testutil.StepClock (tests).
type Clock interface {
	NowMillis() int64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// NowMillis returns the current Unix time in milliseconds.
func (SystemClock) NowMillis() int64 {
	return time.Now().UnixMilli()
}
