package timing

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestDeadlineCompletes(t *testing.T) {
	clock := NewManualClock(epoch)
	completed := 0
	d := NewDeadline(clock, 500*time.Millisecond, func() { completed++ })

	d.Start()
	clock.Advance(499 * time.Millisecond)
	if completed != 0 {
		t.Fatalf("completed after 499ms")
	}
	if got := d.Elapsed(); got != 499*time.Millisecond {
		t.Errorf("Elapsed() = %v, want 499ms", got)
	}

	clock.Advance(time.Millisecond)
	if completed != 1 {
		t.Fatalf("completed = %d at 500ms, want 1", completed)
	}
	if !d.Completed() {
		t.Error("Completed() = false after firing")
	}
	if d.Cancel() {
		t.Error("Cancel() after completion returned true")
	}

	clock.Advance(time.Second)
	if completed != 1 {
		t.Errorf("completed = %d, want exactly 1", completed)
	}
}

func TestDeadlineCancel(t *testing.T) {
	clock := NewManualClock(epoch)
	completed := 0
	d := NewDeadline(clock, 500*time.Millisecond, func() { completed++ })

	d.Start()
	clock.Advance(100 * time.Millisecond)
	if !d.Cancel() {
		t.Fatal("Cancel() = false for a running deadline")
	}
	if d.Cancel() {
		t.Error("second Cancel() = true")
	}
	if clock.Pending() != 0 {
		t.Errorf("Pending() = %d after cancel, want 0", clock.Pending())
	}

	clock.Advance(time.Second)
	if completed != 0 {
		t.Errorf("completed = %d after cancel, want 0", completed)
	}
	if d.Completed() {
		t.Error("Completed() = true after cancel")
	}
}

func TestDeadlineStaleFire(t *testing.T) {
	// A timer callback that was already queued when Cancel ran must not
	// complete the cycle.
	clock := NewManualClock(epoch)
	completed := 0
	d := NewDeadline(clock, 100*time.Millisecond, func() { completed++ })
	d.Start()

	d.Cancel()
	d.fire()

	if completed != 0 {
		t.Errorf("stale fire completed the cycle")
	}
}

func TestDeadlineStartOnce(t *testing.T) {
	clock := NewManualClock(epoch)
	completed := 0
	d := NewDeadline(clock, 100*time.Millisecond, func() { completed++ })

	d.Start()
	d.Start()
	if clock.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", clock.Pending())
	}
	clock.Advance(200 * time.Millisecond)
	if completed != 1 {
		t.Errorf("completed = %d, want 1", completed)
	}
}

func TestDeadlineElapsedBeforeStart(t *testing.T) {
	d := NewDeadline(NewManualClock(epoch), time.Second, nil)
	if d.Elapsed() != 0 {
		t.Errorf("Elapsed() = %v before Start, want 0", d.Elapsed())
	}
}

type recordingPoster struct {
	queued []func()
}

func (p *recordingPoster) Post(fn func()) {
	p.queued = append(p.queued, fn)
}

func (p *recordingPoster) drain() {
	q := p.queued
	p.queued = nil
	for _, fn := range q {
		fn()
	}
}

func TestLoopClockPostsCallbacks(t *testing.T) {
	clock := NewManualClock(epoch)
	poster := &recordingPoster{}
	lc := NewLoopClock(clock, poster)

	fired := false
	lc.AfterFunc(10*time.Millisecond, func() { fired = true })
	clock.Advance(10 * time.Millisecond)

	if fired {
		t.Fatal("callback ran on the timer instead of being posted")
	}
	if len(poster.queued) != 1 {
		t.Fatalf("queued = %d, want 1", len(poster.queued))
	}
	poster.drain()
	if !fired {
		t.Error("posted callback did not run")
	}
	if !lc.Now().Equal(epoch.Add(10 * time.Millisecond)) {
		t.Errorf("Now() = %v", lc.Now())
	}
}

func TestDeadlineThroughLoopCancelledWhileQueued(t *testing.T) {
	clock := NewManualClock(epoch)
	poster := &recordingPoster{}
	completed := 0
	d := NewDeadline(NewLoopClock(clock, poster), 100*time.Millisecond, func() { completed++ })

	d.Start()
	clock.Advance(100 * time.Millisecond) // fire queued, not yet run
	d.Cancel()
	poster.drain()

	if completed != 0 {
		t.Errorf("completed = %d, want 0", completed)
	}
}
