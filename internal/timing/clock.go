package timing

import "time"

// Timer represents a scheduled callback that can be stopped.
type Timer interface {
	Stop() bool
}

// Clock provides time-related operations.
// This interface allows the deadline strategy to be driven by a fake in tests.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

// SystemClock is the default Clock implementation using the standard library.
// Its callbacks run on their own goroutine; wrap it in a LoopClock before
// handing it to an engine.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Poster queues a function to run on the goroutine that owns the engines
type Poster interface {
	Post(fn func())
}

// LoopClock delivers timer callbacks through a Poster so they run serialized
// with input events.
type LoopClock struct {
	clock  Clock
	poster Poster
}

// NewLoopClock wraps clock so that its callbacks are posted to p
func NewLoopClock(clock Clock, p Poster) *LoopClock {
	return &LoopClock{clock: clock, poster: p}
}

func (c *LoopClock) AfterFunc(d time.Duration, f func()) Timer {
	return c.clock.AfterFunc(d, func() {
		c.poster.Post(f)
	})
}

func (c *LoopClock) Now() time.Time {
	return c.clock.Now()
}
