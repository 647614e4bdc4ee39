// Package pad binds macropad buttons to click-and-hold widgets.
//
// Each configured button gets its own element. A press arrives as a space
// keydown and a release as a space keyup, so a physical button behaves like
// a focused widget held with the keyboard. Board is not safe for concurrent
// use; run it on the event loop.
package pad

import (
	"fmt"
	"sort"

	"github.com/pleimann/holdpad/internal/config"
	"github.com/pleimann/holdpad/internal/element"
	"github.com/pleimann/holdpad/internal/gesture"
	"github.com/pleimann/holdpad/internal/hid"
	"github.com/pleimann/holdpad/internal/hold"
	"github.com/pleimann/holdpad/internal/timing"
)

// Sink receives hold outcomes for named buttons
type Sink interface {
	HoldStarted(button string, m gesture.Modality)
	HoldProgress(button string, percent float64)
	HoldCompleted(button string)
	HoldCancelled(button string)
}

type binding struct {
	button config.Button
	el     *element.Element
	handle *hold.Handle
}

// Board owns one hold widget per configured button
type Board struct {
	env      timing.Env
	sink     Sink
	bindings map[int]*binding
	mask     uint16
}

// NewBoard creates an empty board. Call Bind before feeding reports.
func NewBoard(env timing.Env, sink Sink) *Board {
	return &Board{
		env:      env,
		sink:     sink,
		bindings: make(map[int]*binding),
	}
}

// Bind attaches a widget for every button in cfg, replacing the current
// ones. Holds in progress are abandoned without callbacks. On error the
// current bindings are kept.
func (b *Board) Bind(cfg *config.Config) error {
	next := make(map[int]*binding, len(cfg.Buttons))
	for _, btn := range cfg.Buttons {
		if btn.Index < 0 || btn.Index >= hid.MaxButtons {
			detachAll(next)
			return fmt.Errorf("button %s: index %d out of range", btn.Name, btn.Index)
		}
		bd, err := b.attach(cfg, btn)
		if err != nil {
			detachAll(next)
			return err
		}
		next[btn.Index] = bd
	}

	detachAll(b.bindings)
	b.bindings = next
	return nil
}

func (b *Board) attach(cfg *config.Config, btn config.Button) (*binding, error) {
	name := btn.Name
	el := element.New(name)
	h, err := hold.Attach(el, cfg.ButtonDuration(btn), hold.Callbacks{
		OnHoldStart:    func(m gesture.Modality) { b.sink.HoldStarted(name, m) },
		OnHoldProgress: func(p float64) { b.sink.HoldProgress(name, p) },
		OnHoldComplete: func() { b.sink.HoldCompleted(name) },
		OnHoldCancel:   func() { b.sink.HoldCancelled(name) },
	},
		hold.WithStrategy(cfg.ButtonStrategy(btn)),
		hold.WithClock(b.env.Clock),
		hold.WithFrames(b.env.Frames),
	)
	if err != nil {
		return nil, fmt.Errorf("button %s: %w", name, err)
	}

	h.SetAriaLabel(name)
	if btn.Label != "" {
		h.SetText(btn.Label)
	}
	return &binding{button: btn, el: el, handle: h}, nil
}

func detachAll(bindings map[int]*binding) {
	for _, bd := range bindings {
		bd.handle.Detach()
	}
}

// HandleReport applies a button report from the device
func (b *Board) HandleReport(r hid.ButtonReport) {
	b.Apply(r.Mask)
}

// Apply moves the board to a new button mask. Releases are dispatched
// before presses; buttons without a binding are ignored.
func (b *Board) Apply(mask uint16) {
	pressed, released := hid.Transitions(b.mask, mask)
	b.mask = mask

	for _, idx := range released {
		b.dispatch(idx, element.NewKeyEvent(element.KeyUp, " "))
	}
	for _, idx := range pressed {
		b.dispatch(idx, element.NewKeyEvent(element.KeyDown, " "))
	}
}

// Blur ends every hold in progress as a cancel, e.g. when the device goes
// away mid-press
func (b *Board) Blur() {
	b.mask = 0
	for _, idx := range b.indices() {
		b.dispatch(idx, element.NewEvent(element.Blur))
	}
}

// Close detaches every widget
func (b *Board) Close() {
	detachAll(b.bindings)
	b.bindings = make(map[int]*binding)
	b.mask = 0
}

// Handle returns the widget bound to a button name
func (b *Board) Handle(name string) (*hold.Handle, bool) {
	for _, bd := range b.bindings {
		if bd.button.Name == name {
			return bd.handle, true
		}
	}
	return nil, false
}

// Buttons returns the bound button names ordered by index
func (b *Board) Buttons() []string {
	idx := b.indices()
	names := make([]string, len(idx))
	for i, n := range idx {
		names[i] = b.bindings[n].button.Name
	}
	return names
}

func (b *Board) indices() []int {
	idx := make([]int, 0, len(b.bindings))
	for n := range b.bindings {
		idx = append(idx, n)
	}
	sort.Ints(idx)
	return idx
}

func (b *Board) dispatch(idx int, e *element.Event) {
	bd, ok := b.bindings[idx]
	if !ok {
		return
	}
	bd.el.Dispatch(e)
}
