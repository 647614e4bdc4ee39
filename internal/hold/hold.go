// Package hold adds click-and-hold behavior to an element.
//
// A hold starts on a primary-button press, a touch or the space key, and
// completes once it has been sustained for the configured duration.
// Releasing early (with an event matching the input that started the hold)
// cancels it. Exactly one of OnHoldComplete and OnHoldCancel runs per hold.
//
// Handles are not safe for concurrent use. Events, timers and frames must be
// delivered from a single goroutine, see package loop.
package hold

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pleimann/holdpad/internal/element"
	"github.com/pleimann/holdpad/internal/gesture"
	"github.com/pleimann/holdpad/internal/timing"
)

// Style properties and attributes maintained on the element
const (
	PropDuration  = "--hold-duration"
	PropProgress  = "--hold-progress"
	AttrAriaLabel = "aria-label"
)

var (
	// ErrAlreadyAttached is returned by Attach for an element that already
	// has click-and-hold behavior
	ErrAlreadyAttached = gesture.ErrAlreadyAttached
	// ErrInvalidDuration is returned by Attach for a non-positive duration
	ErrInvalidDuration = timing.ErrInvalidDuration
)

// Callbacks receive hold outcomes. All are optional.
type Callbacks struct {
	OnHoldStart func(m gesture.Modality)
	// OnHoldProgress runs once per sampled frame with the elapsed
	// percentage. The value is not clamped and may exceed 100 on the last
	// sample. Only the frame and hybrid strategies report progress.
	OnHoldProgress func(percent float64)
	OnHoldComplete func()
	OnHoldCancel   func()
	// OnHoldEnd runs after OnHoldComplete or OnHoldCancel with the outcome
	OnHoldEnd func(completed bool)
}

type options struct {
	strategy timing.Strategy
	env      timing.Env
}

// Option configures Attach
type Option func(*options)

// WithStrategy selects the timing strategy (default deadline)
func WithStrategy(s timing.Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithClock sets the clock used by the deadline and hybrid strategies
func WithClock(c timing.Clock) Option {
	return func(o *options) {
		o.env.Clock = c
	}
}

// WithFrames sets the frame scheduler used by the frame and hybrid strategies
func WithFrames(f timing.FrameScheduler) Option {
	return func(o *options) {
		o.env.Frames = f
	}
}

// cycle is the state of one hold, from accepted start to accepted end
type cycle struct {
	modality  gesture.Modality
	engine    timing.Engine
	completed bool
}

// Handle is an element with click-and-hold behavior attached
type Handle struct {
	el       *element.Element
	duration time.Duration
	cb       Callbacks
	opts     options
	detector *gesture.Detector
	current  *cycle
	detached bool
}

// Attach adds click-and-hold behavior to el
func Attach(el *element.Element, d time.Duration, cb Callbacks, opts ...Option) (*Handle, error) {
	if d <= 0 {
		return nil, fmt.Errorf("attach %s: %w", el.Name(), ErrInvalidDuration)
	}

	o := options{
		strategy: timing.StrategyDeadline,
		env:      timing.Env{Clock: timing.SystemClock},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if _, err := timing.New(o.strategy, o.env, d, timing.Hooks{}); err != nil {
		return nil, fmt.Errorf("attach %s: %w", el.Name(), err)
	}

	h := &Handle{
		el:       el,
		duration: d,
		cb:       cb,
		opts:     o,
	}
	h.detector = gesture.NewDetector(el, gesture.Hooks{
		OnStart: h.start,
		OnEnd:   h.end,
	})
	if err := h.detector.Attach(); err != nil {
		return nil, err
	}

	el.SetStyleProperty(PropDuration, strconv.FormatInt(d.Milliseconds(), 10)+"ms")
	el.SetStyleProperty(PropProgress, "0")
	return h, nil
}

// Detach removes click-and-hold behavior. A hold in progress is abandoned
// without running any callback. After Detach the element may be attached
// again. Safe to call more than once.
func (h *Handle) Detach() {
	if h.detached {
		return
	}
	h.detached = true

	if c := h.current; c != nil {
		h.current = nil
		c.engine.Cancel()
	}
	h.detector.Detach()
	h.el.SetStyleProperty(PropProgress, "0")
}

// Element returns the target element
func (h *Handle) Element() *element.Element {
	return h.el
}

// Duration returns the hold duration
func (h *Handle) Duration() time.Duration {
	return h.duration
}

// Strategy returns the timing strategy
func (h *Handle) Strategy() timing.Strategy {
	return h.opts.strategy
}

// Active reports whether a hold is in progress. A completed hold stays active
// until its end event arrives.
func (h *Handle) Active() bool {
	return h.current != nil
}

// Modality returns the modality of the hold in progress
func (h *Handle) Modality() gesture.Modality {
	if h.current == nil {
		return gesture.ModalityNone
	}
	return h.current.modality
}

// Detached reports whether Detach has been called
func (h *Handle) Detached() bool {
	return h.detached
}

// SetText sets the element text
func (h *Handle) SetText(text string) {
	h.el.SetText(text)
}

// SetAriaLabel sets the element accessible label
func (h *Handle) SetAriaLabel(label string) {
	h.el.SetAttribute(AttrAriaLabel, label)
}

func (h *Handle) start(m gesture.Modality) {
	c := &cycle{modality: m}
	engine, err := timing.New(h.opts.strategy, h.opts.env, h.duration, timing.Hooks{
		OnProgress: func(p float64) { h.progress(c, p) },
		OnComplete: func() { h.complete(c) },
	})
	if err != nil {
		// The environment was validated in Attach
		panic(err)
	}
	c.engine = engine
	h.current = c

	if h.cb.OnHoldStart != nil {
		h.cb.OnHoldStart(m)
	}
	if h.current != c {
		return
	}
	engine.Start()
}

func (h *Handle) progress(c *cycle, p float64) {
	if h.current != c {
		return
	}
	h.el.SetStyleProperty(PropProgress, strconv.FormatFloat(p, 'f', 2, 64))
	if h.cb.OnHoldProgress != nil {
		h.cb.OnHoldProgress(p)
	}
}

func (h *Handle) complete(c *cycle) {
	if h.current != c || c.completed {
		return
	}
	c.completed = true
	h.el.RemoveAttribute(gesture.AttrActiveHold)
	h.el.SetStyleProperty(PropProgress, "0")

	if h.cb.OnHoldComplete != nil {
		h.cb.OnHoldComplete()
	}
	if h.cb.OnHoldEnd != nil {
		h.cb.OnHoldEnd(true)
	}
}

func (h *Handle) end() {
	c := h.current
	if c == nil {
		return
	}
	h.current = nil

	if !c.engine.Cancel() {
		return
	}
	h.el.SetStyleProperty(PropProgress, "0")

	if h.cb.OnHoldCancel != nil {
		h.cb.OnHoldCancel()
	}
	if h.cb.OnHoldEnd != nil {
		h.cb.OnHoldEnd(false)
	}
}
