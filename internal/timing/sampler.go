package timing

import "time"

type samplerState int

const (
	samplerIdle samplerState = iota
	samplerAwaitingFirstFrame
	samplerSampling
	samplerCompleted
	samplerCancelled
)

// FrameSampler reports hold progress once per frame and completes when the
// reported percentage reaches 100.
type FrameSampler struct {
	frames   FrameScheduler
	duration time.Duration
	hooks    Hooks

	state        samplerState
	start        time.Duration
	last         time.Duration
	hasLast      bool
	frame        FrameID
	framePending bool
}

// NewFrameSampler creates a frame sampling engine. d must be positive; use
// New to have it checked.
func NewFrameSampler(frames FrameScheduler, d time.Duration, hooks Hooks) *FrameSampler {
	return &FrameSampler{
		frames:   frames,
		duration: d,
		hooks:    hooks,
	}
}

func (s *FrameSampler) Start() {
	if s.state != samplerIdle {
		return
	}
	s.state = samplerAwaitingFirstFrame
	s.request()
}

func (s *FrameSampler) request() {
	s.frame = s.frames.RequestFrame(s.step)
	s.framePending = true
}

func (s *FrameSampler) step(ts time.Duration) {
	s.framePending = false

	switch s.state {
	case samplerAwaitingFirstFrame:
		s.start = ts
		s.state = samplerSampling
	case samplerSampling:
	default:
		return
	}

	elapsed := ts - s.start
	done := false

	if !s.hasLast || ts != s.last {
		percent := Percent(elapsed, s.duration)
		if s.hooks.OnProgress != nil {
			s.hooks.OnProgress(percent)
		}
		// The progress hook may cancel the cycle
		if s.state != samplerSampling {
			return
		}
		done = percent >= 100
	}

	if done {
		s.state = samplerCompleted
		if s.hooks.OnComplete != nil {
			s.hooks.OnComplete()
		}
		return
	}

	s.last = ts
	s.hasLast = true
	s.request()
}

func (s *FrameSampler) Cancel() bool {
	switch s.state {
	case samplerCompleted, samplerCancelled:
		return false
	}
	s.state = samplerCancelled
	if s.framePending {
		s.frames.CancelFrame(s.frame)
		s.framePending = false
	}
	return true
}

func (s *FrameSampler) Completed() bool {
	return s.state == samplerCompleted
}

// Pending reports whether a frame callback is scheduled
func (s *FrameSampler) Pending() bool {
	return s.framePending
}
