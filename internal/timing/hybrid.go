package timing

import "time"

// Hybrid completes a hold with a deadline while a frame sampler drives
// progress. The sampler stops at 100% without completing the cycle.
type Hybrid struct {
	deadline *Deadline
	sampler  *FrameSampler
}

// NewHybrid creates a hybrid engine. d must be positive.
func NewHybrid(clock Clock, frames FrameScheduler, d time.Duration, hooks Hooks) *Hybrid {
	h := &Hybrid{}
	h.sampler = NewFrameSampler(frames, d, Hooks{OnProgress: hooks.OnProgress})
	h.deadline = NewDeadline(clock, d, func() {
		h.sampler.Cancel()
		if hooks.OnComplete != nil {
			hooks.OnComplete()
		}
	})
	return h
}

func (h *Hybrid) Start() {
	h.deadline.Start()
	h.sampler.Start()
}

func (h *Hybrid) Cancel() bool {
	h.sampler.Cancel()
	return h.deadline.Cancel()
}

func (h *Hybrid) Completed() bool {
	return h.deadline.Completed()
}
