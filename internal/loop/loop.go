// Package loop provides a single goroutine that runs queued functions in
// order. Hold widgets are not safe for concurrent use, so every input event,
// timer and frame callback that touches them is posted here.
package loop

import (
	"context"
	"sync"
)

// Loop runs posted functions one at a time
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool
}

// New creates an idle loop. Call Run to start processing.
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
	}
}

// Post queues fn. It never blocks; functions posted after Run returns are
// dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run processes posted functions until ctx is done
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()
	}()

	for {
		for {
			fn := l.next()
			if fn == nil {
				break
			}
			fn()
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Call posts fn and waits for it to run. It returns false if ctx ended
// first.
func (l *Loop) Call(ctx context.Context, fn func()) bool {
	done := make(chan struct{})
	l.Post(func() {
		fn()
		close(done)
	})
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}
