package timing

import "time"

// Deadline completes a hold with a single timer
type Deadline struct {
	clock      Clock
	duration   time.Duration
	onComplete func()

	timer     Timer
	startedAt time.Time
	started   bool
	resolved  bool
	completed bool
}

// NewDeadline creates a deadline engine. d must be positive.
func NewDeadline(clock Clock, d time.Duration, onComplete func()) *Deadline {
	return &Deadline{
		clock:      clock,
		duration:   d,
		onComplete: onComplete,
	}
}

func (d *Deadline) Start() {
	if d.started {
		return
	}
	d.started = true
	d.startedAt = d.clock.Now()
	d.timer = d.clock.AfterFunc(d.duration, d.fire)
}

// fire may be delivered after Cancel when the timer already expired and its
// callback was queued; resolved makes that a no-op.
func (d *Deadline) fire() {
	if d.resolved {
		return
	}
	d.resolved = true
	d.completed = true
	d.timer = nil
	if d.onComplete != nil {
		d.onComplete()
	}
}

func (d *Deadline) Cancel() bool {
	if d.resolved {
		return false
	}
	d.resolved = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return true
}

func (d *Deadline) Completed() bool {
	return d.completed
}

// Elapsed returns the time since Start, or zero if not started
func (d *Deadline) Elapsed() time.Duration {
	if !d.started {
		return 0
	}
	return d.clock.Now().Sub(d.startedAt)
}
