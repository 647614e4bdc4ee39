package timing

import (
	"sort"
	"time"
)

// ManualClock is a Clock that only moves when advanced. Callbacks run
// synchronously inside Advance. Not safe for concurrent use.
type ManualClock struct {
	now    time.Time
	timers []*manualTimer
	seq    int
}

type manualTimer struct {
	when    time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// NewManualClock creates a clock starting at start
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	return c.now
}

func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.seq++
	t := &manualTimer{when: c.now.Add(d), seq: c.seq, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due timers in deadline order.
// Timers scheduled by callbacks fire too if they fall due within d.
func (c *ManualClock) Advance(d time.Duration) {
	target := c.now.Add(d)
	for {
		next := c.nextDue(target)
		if next == nil {
			break
		}
		c.now = next.when
		next.fired = true
		next.fn()
	}
	c.now = target
	c.compact()
}

// Pending returns the number of timers neither stopped nor fired
func (c *ManualClock) Pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (c *ManualClock) nextDue(target time.Time) *manualTimer {
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.when.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].when.Equal(due[j].when) {
			return due[i].seq < due[j].seq
		}
		return due[i].when.Before(due[j].when)
	})
	return due[0]
}

func (c *ManualClock) compact() {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	c.timers = live
}

// ManualFrames is a FrameScheduler whose frames are produced explicitly with
// Frame. Not safe for concurrent use.
type ManualFrames struct {
	pending   map[FrameID]FrameCallback
	order     []FrameID
	nextID    FrameID
	requested int
}

// NewManualFrames creates an empty manual frame scheduler
func NewManualFrames() *ManualFrames {
	return &ManualFrames{pending: make(map[FrameID]FrameCallback)}
}

func (f *ManualFrames) RequestFrame(cb FrameCallback) FrameID {
	f.nextID++
	f.requested++
	f.pending[f.nextID] = cb
	f.order = append(f.order, f.nextID)
	return f.nextID
}

func (f *ManualFrames) CancelFrame(id FrameID) {
	delete(f.pending, id)
}

// Frame runs the callbacks pending at call time with timestamp ts
func (f *ManualFrames) Frame(ts time.Duration) {
	order := f.order
	f.order = nil
	for _, id := range order {
		cb, ok := f.pending[id]
		if !ok {
			continue
		}
		delete(f.pending, id)
		cb(ts)
	}
}

// Pending returns the number of callbacks waiting for a frame
func (f *ManualFrames) Pending() int {
	return len(f.pending)
}

// Requested returns the total number of RequestFrame calls
func (f *ManualFrames) Requested() int {
	return f.requested
}
