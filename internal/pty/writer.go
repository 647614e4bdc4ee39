package pty

import (
	"sync/atomic"
	"time"

	"github.com/pleimann/holdpad/internal/action"
)

// Writer types keys into a Manager with a pause after each key, for TUIs
// that drop input arriving in one burst. It runs on the action executor
// goroutine, never on the event loop.
type Writer struct {
	manager  *Manager
	keyDelay atomic.Int64
	sleep    func(time.Duration)
}

// NewWriter creates a new PTY writer
func NewWriter(manager *Manager, keyDelay time.Duration) *Writer {
	w := &Writer{
		manager: manager,
		sleep:   time.Sleep,
	}
	w.SetKeyDelay(keyDelay)
	return w
}

// WriteKey writes a single key press to the PTY
func (w *Writer) WriteKey(key action.KeyPress) error {
	if err := w.manager.WriteKey(key); err != nil {
		return err
	}
	if d := time.Duration(w.keyDelay.Load()); d > 0 {
		w.sleep(d)
	}
	return nil
}

// SetKeyDelay changes the pause after each key. Safe to call while keys
// are being written.
func (w *Writer) SetKeyDelay(d time.Duration) {
	w.keyDelay.Store(int64(d))
}
