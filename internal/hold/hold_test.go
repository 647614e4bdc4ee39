package hold

import (
	"errors"
	"testing"
	"time"

	"github.com/pleimann/holdpad/internal/element"
	"github.com/pleimann/holdpad/internal/gesture"
	"github.com/pleimann/holdpad/internal/timing"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type spy struct {
	starts    []gesture.Modality
	percents  []float64
	completed int
	cancelled int
	ends      []bool
}

func (s *spy) callbacks() Callbacks {
	return Callbacks{
		OnHoldStart:    func(m gesture.Modality) { s.starts = append(s.starts, m) },
		OnHoldProgress: func(p float64) { s.percents = append(s.percents, p) },
		OnHoldComplete: func() { s.completed++ },
		OnHoldCancel:   func() { s.cancelled++ },
		OnHoldEnd:      func(ok bool) { s.ends = append(s.ends, ok) },
	}
}

type fixture struct {
	el     *element.Element
	clock  *timing.ManualClock
	frames *timing.ManualFrames
	spy    *spy
	h      *Handle
}

func newFixture(t *testing.T, d time.Duration, s timing.Strategy) *fixture {
	t.Helper()
	f := &fixture{
		el:     element.New("btn"),
		clock:  timing.NewManualClock(epoch),
		frames: timing.NewManualFrames(),
		spy:    &spy{},
	}
	h, err := Attach(f.el, d, f.spy.callbacks(),
		WithStrategy(s), WithClock(f.clock), WithFrames(f.frames))
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	f.h = h
	return f
}

func TestAttachSetsHints(t *testing.T) {
	f := newFixture(t, 1500*time.Millisecond, timing.StrategyDeadline)

	if !f.el.HasAttribute(gesture.AttrAttached) {
		t.Error("attached marker missing")
	}
	if got := f.el.StyleProperty(PropDuration); got != "1500ms" {
		t.Errorf("%s = %q, want 1500ms", PropDuration, got)
	}
	if got := f.el.StyleProperty(PropProgress); got != "0" {
		t.Errorf("%s = %q, want 0", PropProgress, got)
	}
	if f.h.Duration() != 1500*time.Millisecond || f.h.Strategy() != timing.StrategyDeadline {
		t.Errorf("Duration() = %v, Strategy() = %v", f.h.Duration(), f.h.Strategy())
	}
	if f.h.Element() != f.el {
		t.Error("Element() returned a different element")
	}
}

func TestAttachErrors(t *testing.T) {
	tests := []struct {
		name    string
		d       time.Duration
		opts    []Option
		wantErr error
	}{
		{"zero duration", 0, nil, ErrInvalidDuration},
		{"negative duration", -time.Second, nil, ErrInvalidDuration},
		{"frame without scheduler", time.Second, []Option{WithStrategy(timing.StrategyFrame)}, nil},
		{"hybrid without scheduler", time.Second, []Option{WithStrategy(timing.StrategyHybrid)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := element.New("btn")
			_, err := Attach(el, tt.d, Callbacks{}, tt.opts...)
			if err == nil {
				t.Fatal("Attach() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Attach() error = %v, want %v", err, tt.wantErr)
			}
			if el.HasAttribute(gesture.AttrAttached) {
				t.Error("failed Attach left the attached marker")
			}
		})
	}
}

func TestDoubleAttachRejected(t *testing.T) {
	f := newFixture(t, time.Second, timing.StrategyDeadline)

	_, err := Attach(f.el, time.Second, Callbacks{}, WithClock(f.clock))
	if !errors.Is(err, ErrAlreadyAttached) {
		t.Fatalf("second Attach() error = %v, want ErrAlreadyAttached", err)
	}
}

func TestReattachAfterDetach(t *testing.T) {
	f := newFixture(t, time.Second, timing.StrategyDeadline)
	f.h.Detach()

	if f.el.HasAttribute(gesture.AttrAttached) {
		t.Fatal("attached marker remains after Detach")
	}
	h2, err := Attach(f.el, 2*time.Second, Callbacks{}, WithClock(f.clock))
	if err != nil {
		t.Fatalf("Attach() after Detach error = %v", err)
	}
	if got := f.el.StyleProperty(PropDuration); got != "2000ms" {
		t.Errorf("%s = %q, want 2000ms", PropDuration, got)
	}
	h2.Detach()
}

func TestDeadlineCompletion(t *testing.T) {
	f := newFixture(t, 500*time.Millisecond, timing.StrategyDeadline)

	f.el.Dispatch(element.NewMouseEvent(element.MouseDown, 0))
	if !f.el.HasAttribute(gesture.AttrActiveHold) {
		t.Fatal("active marker missing after start")
	}
	if len(f.spy.starts) != 1 || f.spy.starts[0] != gesture.ModalityPointer {
		t.Fatalf("starts = %v, want [pointer]", f.spy.starts)
	}

	f.clock.Advance(500 * time.Millisecond)
	if f.spy.completed != 1 || f.spy.cancelled != 0 {
		t.Fatalf("completed = %d, cancelled = %d, want 1, 0", f.spy.completed, f.spy.cancelled)
	}
	if f.el.HasAttribute(gesture.AttrActiveHold) {
		t.Error("active marker still present after completion")
	}
	if !f.h.Active() {
		t.Error("session ended before the release event")
	}

	// The release after completion must not cancel
	f.el.Dispatch(element.NewMouseEvent(element.MouseUp, 0))
	if f.spy.cancelled != 0 {
		t.Error("release after completion fired cancel")
	}
	if f.h.Active() {
		t.Error("session still active after release")
	}
	if len(f.spy.ends) != 1 || !f.spy.ends[0] {
		t.Errorf("ends = %v, want [true]", f.spy.ends)
	}
}

func TestDeadlineCancelledEarly(t *testing.T) {
	f := newFixture(t, 500*time.Millisecond, timing.StrategyDeadline)

	f.el.Dispatch(element.NewEvent(element.TouchStart))
	f.clock.Advance(100 * time.Millisecond)
	f.el.Dispatch(element.NewEvent(element.TouchEnd))

	f.clock.Advance(time.Second)

	if f.spy.completed != 0 {
		t.Errorf("completed = %d, want 0", f.spy.completed)
	}
	if f.spy.cancelled != 1 {
		t.Errorf("cancelled = %d, want 1", f.spy.cancelled)
	}
	if len(f.spy.ends) != 1 || f.spy.ends[0] {
		t.Errorf("ends = %v, want [false]", f.spy.ends)
	}
	if f.clock.Pending() != 0 {
		t.Errorf("timers pending = %d after cancel", f.clock.Pending())
	}
}

func TestKeyboardScenario(t *testing.T) {
	f := newFixture(t, time.Second, timing.StrategyDeadline)

	f.el.Dispatch(element.NewKeyEvent(element.KeyDown, " "))
	if !f.el.HasAttribute(gesture.AttrActiveHold) {
		t.Fatal("active marker missing after keydown")
	}

	f.clock.Advance(100 * time.Millisecond)
	f.el.Dispatch(element.NewKeyEvent(element.KeyUp, " "))

	if f.spy.cancelled != 1 {
		t.Errorf("cancelled = %d, want 1", f.spy.cancelled)
	}
	if f.el.HasAttribute(gesture.AttrActiveHold) {
		t.Error("active marker present after keyup")
	}

	f.el.Dispatch(element.NewMouseEvent(element.MouseDown, 0))
	if len(f.spy.starts) != 2 || f.spy.starts[1] != gesture.ModalityPointer {
		t.Errorf("starts = %v, element not re-armed for mousedown", f.spy.starts)
	}
}

func TestModalityConsistency(t *testing.T) {
	f := newFixture(t, time.Second, timing.StrategyDeadline)

	f.el.Dispatch(element.NewEvent(element.TouchStart))
	f.el.Dispatch(element.NewMouseEvent(element.MouseUp, 0))
	f.el.Dispatch(element.NewEvent(element.MouseLeave))

	if f.spy.cancelled != 0 {
		t.Fatal("pointer events cancelled a touch hold")
	}
	f.clock.Advance(time.Second)
	if f.spy.completed != 1 {
		t.Errorf("completed = %d, want 1", f.spy.completed)
	}
}

func TestButtonFilter(t *testing.T) {
	f := newFixture(t, time.Second, timing.StrategyDeadline)

	f.el.Dispatch(element.NewMouseEvent(element.MouseDown, element.ButtonAuxiliary))
	if f.h.Active() || len(f.spy.starts) != 0 {
		t.Fatal("middle button started a hold")
	}

	f.el.Dispatch(element.NewMouseEvent(element.MouseDown, element.ButtonPrimary))
	f.el.Dispatch(element.NewMouseEvent(element.MouseUp, element.ButtonAuxiliary))
	if f.spy.cancelled != 0 || !f.h.Active() {
		t.Fatal("middle button release ended the hold")
	}
}

func TestFrameStrategyProgress(t *testing.T) {
	f := newFixture(t, 100*time.Millisecond, timing.StrategyFrame)

	f.el.Dispatch(element.NewKeyEvent(element.KeyDown, " "))
	f.frames.Frame(0)
	f.frames.Frame(50 * time.Millisecond)

	if got := f.el.StyleProperty(PropProgress); got != "50.00" {
		t.Errorf("%s = %q mid-hold, want 50.00", PropProgress, got)
	}

	f.frames.Frame(110 * time.Millisecond)

	if f.spy.completed != 1 {
		t.Fatalf("completed = %d, want 1", f.spy.completed)
	}
	want := []float64{0, 50, 110}
	if len(f.spy.percents) != len(want) {
		t.Fatalf("percents = %v, want %v", f.spy.percents, want)
	}
	for i := range want {
		if f.spy.percents[i] != want[i] {
			t.Errorf("percents[%d] = %v, want %v", i, f.spy.percents[i], want[i])
		}
	}
	// The last sample overshoots and is reported unclamped
	if f.spy.percents[2] <= 100 {
		t.Errorf("final percent = %v, expected legacy overshoot above 100", f.spy.percents[2])
	}
	if got := f.el.StyleProperty(PropProgress); got != "0" {
		t.Errorf("%s = %q after completion, want 0", PropProgress, got)
	}
	if f.frames.Pending() != 0 {
		t.Errorf("frames pending = %d after completion", f.frames.Pending())
	}

	f.el.Dispatch(element.NewKeyEvent(element.KeyUp, " "))
	if f.spy.cancelled != 0 {
		t.Error("keyup after completion fired cancel")
	}
}

func TestFrameStrategyCancelResetsProgress(t *testing.T) {
	f := newFixture(t, time.Second, timing.StrategyFrame)

	f.el.Dispatch(element.NewMouseEvent(element.PointerDown, 0))
	f.frames.Frame(0)
	f.frames.Frame(250 * time.Millisecond)
	f.el.Dispatch(element.NewEvent(element.MouseLeave))

	if f.spy.cancelled != 1 || f.spy.completed != 0 {
		t.Fatalf("cancelled = %d, completed = %d", f.spy.cancelled, f.spy.completed)
	}
	if got := f.el.StyleProperty(PropProgress); got != "0" {
		t.Errorf("%s = %q after cancel, want 0", PropProgress, got)
	}
	if f.frames.Pending() != 0 {
		t.Errorf("frames pending = %d after cancel", f.frames.Pending())
	}
}

func TestHybridStrategy(t *testing.T) {
	f := newFixture(t, 100*time.Millisecond, timing.StrategyHybrid)

	f.el.Dispatch(element.NewEvent(element.TouchStart))
	f.frames.Frame(0)
	f.frames.Frame(60 * time.Millisecond)
	f.clock.Advance(100 * time.Millisecond)

	if f.spy.completed != 1 || f.spy.cancelled != 0 {
		t.Fatalf("completed = %d, cancelled = %d", f.spy.completed, f.spy.cancelled)
	}
	if len(f.spy.percents) != 2 {
		t.Errorf("percents = %v, want 2 samples", f.spy.percents)
	}
	if f.frames.Pending() != 0 {
		t.Error("frame still pending after hybrid completion")
	}
}

func TestCycleReset(t *testing.T) {
	f := newFixture(t, 500*time.Millisecond, timing.StrategyDeadline)

	f.el.Dispatch(element.NewKeyEvent(element.KeyDown, " "))
	f.clock.Advance(400 * time.Millisecond)
	f.el.Dispatch(element.NewEvent(element.Blur))

	// New cycle by touch must take the full duration from its own start
	f.el.Dispatch(element.NewEvent(element.TouchStart))
	if f.h.Modality() != gesture.ModalityTouch {
		t.Fatalf("Modality() = %v, want touch", f.h.Modality())
	}
	f.clock.Advance(400 * time.Millisecond)
	if f.spy.completed != 0 {
		t.Fatal("second cycle completed early with residual time from the first")
	}
	// Keyboard end events from the previous modality are ignored
	f.el.Dispatch(element.NewKeyEvent(element.KeyUp, " "))
	f.clock.Advance(100 * time.Millisecond)

	if f.spy.completed != 1 || f.spy.cancelled != 1 {
		t.Errorf("completed = %d, cancelled = %d, want 1, 1", f.spy.completed, f.spy.cancelled)
	}
}

func TestMutualExclusivity(t *testing.T) {
	strategies := []timing.Strategy{timing.StrategyDeadline, timing.StrategyFrame, timing.StrategyHybrid}
	releases := []time.Duration{0, 50 * time.Millisecond, 99 * time.Millisecond, 100 * time.Millisecond, 150 * time.Millisecond}

	for _, s := range strategies {
		for _, at := range releases {
			t.Run(s.String()+"/"+at.String(), func(t *testing.T) {
				f := newFixture(t, 100*time.Millisecond, s)

				f.el.Dispatch(element.NewMouseEvent(element.MouseDown, 0))
				for ts := time.Duration(0); ts < at; ts += 10 * time.Millisecond {
					f.frames.Frame(ts)
					f.clock.Advance(10 * time.Millisecond)
				}
				f.el.Dispatch(element.NewMouseEvent(element.MouseUp, 0))

				// Drain anything left over
				f.frames.Frame(time.Hour)
				f.clock.Advance(time.Hour)

				if got := f.spy.completed + f.spy.cancelled; got != 1 {
					t.Errorf("completed = %d, cancelled = %d, want exactly one terminal callback",
						f.spy.completed, f.spy.cancelled)
				}
				if len(f.spy.ends) != 1 {
					t.Errorf("ends = %v, want one", f.spy.ends)
				}
			})
		}
	}
}

func TestDetachMidHold(t *testing.T) {
	for _, s := range []timing.Strategy{timing.StrategyDeadline, timing.StrategyFrame, timing.StrategyHybrid} {
		t.Run(s.String(), func(t *testing.T) {
			f := newFixture(t, 100*time.Millisecond, s)

			f.el.Dispatch(element.NewKeyEvent(element.KeyDown, " "))
			f.frames.Frame(0)
			f.frames.Frame(30 * time.Millisecond)

			f.h.Detach()
			f.h.Detach()

			f.frames.Frame(time.Second)
			f.clock.Advance(time.Second)
			f.el.Dispatch(element.NewKeyEvent(element.KeyUp, " "))

			if f.spy.completed != 0 || f.spy.cancelled != 0 {
				t.Errorf("callbacks after Detach: completed = %d, cancelled = %d",
					f.spy.completed, f.spy.cancelled)
			}
			if f.el.HasAttribute(gesture.AttrAttached) || f.el.HasAttribute(gesture.AttrActiveHold) {
				t.Errorf("markers remain after Detach: %s", f.el)
			}
			if f.frames.Pending() != 0 || f.clock.Pending() != 0 {
				t.Errorf("frames pending = %d, timers pending = %d", f.frames.Pending(), f.clock.Pending())
			}
			if got := f.el.StyleProperty(PropProgress); got != "0" {
				t.Errorf("%s = %q after Detach, want 0", PropProgress, got)
			}
			if !f.h.Detached() {
				t.Error("Detached() = false")
			}
		})
	}
}

func TestDetachFromCompleteCallback(t *testing.T) {
	el := element.New("btn")
	clock := timing.NewManualClock(epoch)
	var h *Handle
	var err error
	h, err = Attach(el, 100*time.Millisecond, Callbacks{
		OnHoldComplete: func() { h.Detach() },
	}, WithClock(clock))
	if err != nil {
		t.Fatal(err)
	}

	el.Dispatch(element.NewEvent(element.TouchStart))
	clock.Advance(100 * time.Millisecond)

	if el.HasAttribute(gesture.AttrAttached) {
		t.Error("attached marker remains after detaching from the callback")
	}
	if _, err := Attach(el, time.Second, Callbacks{}, WithClock(clock)); err != nil {
		t.Errorf("re-Attach() error = %v", err)
	}
}

func TestSetters(t *testing.T) {
	f := newFixture(t, time.Second, timing.StrategyDeadline)

	f.h.SetText("Hold to delete")
	f.h.SetAriaLabel("Delete item")

	if f.el.Text() != "Hold to delete" {
		t.Errorf("Text() = %q", f.el.Text())
	}
	if v, _ := f.el.Attribute(AttrAriaLabel); v != "Delete item" {
		t.Errorf("aria-label = %q", v)
	}
}

func TestNilCallbacks(t *testing.T) {
	el := element.New("btn")
	clock := timing.NewManualClock(epoch)
	frames := timing.NewManualFrames()
	h, err := Attach(el, 50*time.Millisecond, Callbacks{},
		WithStrategy(timing.StrategyHybrid), WithClock(clock), WithFrames(frames))
	if err != nil {
		t.Fatal(err)
	}

	el.Dispatch(element.NewEvent(element.TouchStart))
	frames.Frame(0)
	el.Dispatch(element.NewEvent(element.TouchCancel))
	el.Dispatch(element.NewEvent(element.TouchStart))
	frames.Frame(10 * time.Millisecond)
	clock.Advance(time.Second)

	if !h.Active() {
		t.Error("second hold should still wait for its end event")
	}
}
