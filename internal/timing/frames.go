package timing

import (
	"context"
	"sync"
	"time"
)

// FrameID identifies a requested frame callback
type FrameID uint64

// FrameCallback receives the frame timestamp, measured from the scheduler's
// origin. Every callback run for the same frame sees the same timestamp.
type FrameCallback func(ts time.Duration)

// FrameScheduler runs callbacks once per display refresh. A requested
// callback runs at most once; request again from inside the callback to keep
// sampling.
type FrameScheduler interface {
	RequestFrame(cb FrameCallback) FrameID
	CancelFrame(id FrameID)
}

// TickerFrames is a FrameScheduler driven by a ticker at a fixed frame rate.
// Frames are delivered through a Poster.
type TickerFrames struct {
	poster   Poster
	interval time.Duration
	origin   time.Time

	mu      sync.Mutex
	pending map[FrameID]FrameCallback
	order   []FrameID
	nextID  FrameID
}

// NewTickerFrames creates a scheduler ticking fps times per second
func NewTickerFrames(p Poster, fps int) *TickerFrames {
	if fps <= 0 {
		fps = 60
	}
	return &TickerFrames{
		poster:   p,
		interval: time.Second / time.Duration(fps),
		origin:   time.Now(),
		pending:  make(map[FrameID]FrameCallback),
	}
}

// Interval returns the time between frames
func (f *TickerFrames) Interval() time.Duration {
	return f.interval
}

// Run ticks until ctx is done. Nothing is posted while no frame is pending.
func (f *TickerFrames) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if !f.hasPending() {
				continue
			}
			ts := now.Sub(f.origin)
			f.poster.Post(func() {
				f.Flush(ts)
			})
		}
	}
}

func (f *TickerFrames) RequestFrame(cb FrameCallback) FrameID {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	f.pending[f.nextID] = cb
	f.order = append(f.order, f.nextID)
	return f.nextID
}

func (f *TickerFrames) CancelFrame(id FrameID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.pending, id)
	for i, queued := range f.order {
		if queued == id {
			f.order = append(f.order[:i:i], f.order[i+1:]...)
			break
		}
	}
}

// Flush runs every callback pending at call time with timestamp ts.
// Callbacks requested while flushing wait for the next frame.
func (f *TickerFrames) Flush(ts time.Duration) {
	f.mu.Lock()
	order := f.order
	f.order = nil
	f.mu.Unlock()

	for _, id := range order {
		f.mu.Lock()
		cb, ok := f.pending[id]
		delete(f.pending, id)
		f.mu.Unlock()

		if ok {
			cb(ts)
		}
	}
}

func (f *TickerFrames) hasPending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending) > 0
}
