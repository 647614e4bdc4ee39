package gesture

import (
	"fmt"

	"github.com/pleimann/holdpad/internal/element"
)

// Hooks receives the transitions accepted by a Detector
type Hooks struct {
	// OnStart runs after a start event has been accepted
	OnStart func(m Modality)
	// OnEnd runs after a modality-consistent end event has been accepted,
	// before start listeners are re-armed
	OnEnd func()
}

// session tracks the hold in progress. A new one is created for every cycle.
type session struct {
	modality Modality
}

// Detector maps raw element events to hold start and end transitions
type Detector struct {
	el       *element.Element
	hooks    Hooks
	attached bool
	session  *session

	startIDs []element.ListenerID
	endIDs   []element.ListenerID
}

// NewDetector creates a detector for an element. Call Attach to start
// listening.
func NewDetector(el *element.Element, hooks Hooks) *Detector {
	return &Detector{
		el:    el,
		hooks: hooks,
	}
}

// Attach installs the listeners and marks the element
func (d *Detector) Attach() error {
	if d.el.HasAttribute(AttrAttached) {
		return fmt.Errorf("attach %s: %w", d.el.Name(), ErrAlreadyAttached)
	}

	d.addStartListeners()
	d.addEndListeners()
	d.el.SetAttribute(AttrAttached, "")
	d.attached = true
	return nil
}

// Detach removes every listener and marker. The end hook is not called for a
// hold that is still in progress. Safe to call more than once.
func (d *Detector) Detach() {
	if !d.attached {
		return
	}
	d.removeStartListeners()
	d.removeEndListeners()
	d.session = nil
	d.el.RemoveAttribute(AttrActiveHold)
	d.el.RemoveAttribute(AttrAttached)
	d.attached = false
}

// Active reports whether a hold is in progress
func (d *Detector) Active() bool {
	return d.session != nil
}

// Modality returns the modality of the hold in progress, or ModalityNone
func (d *Detector) Modality() Modality {
	if d.session == nil {
		return ModalityNone
	}
	return d.session.modality
}

// Attached reports whether the detector is listening
func (d *Detector) Attached() bool {
	return d.attached
}

func (d *Detector) addStartListeners() {
	for _, t := range startEvents {
		d.startIDs = append(d.startIDs, d.el.AddEventListener(t, d.handleStart))
	}
}

func (d *Detector) removeStartListeners() {
	for _, id := range d.startIDs {
		d.el.RemoveEventListener(id)
	}
	d.startIDs = nil
}

func (d *Detector) addEndListeners() {
	for _, t := range endEvents {
		d.endIDs = append(d.endIDs, d.el.AddEventListener(t, d.handleEnd))
	}
}

func (d *Detector) removeEndListeners() {
	for _, id := range d.endIDs {
		d.el.RemoveEventListener(id)
	}
	d.endIDs = nil
}

func (d *Detector) handleStart(e *element.Event) {
	if d.session != nil {
		return
	}
	m := startModality(e)
	if m == ModalityNone {
		return
	}

	e.PreventDefault()
	d.session = &session{modality: m}
	d.el.SetAttribute(AttrActiveHold, "")
	d.removeStartListeners()

	if d.hooks.OnStart != nil {
		d.hooks.OnStart(m)
	}
}

func (d *Detector) handleEnd(e *element.Event) {
	s := d.session
	if s == nil || !endsHold(s.modality, e) {
		return
	}

	e.PreventDefault()
	d.el.RemoveAttribute(AttrActiveHold)

	if d.hooks.OnEnd != nil {
		d.hooks.OnEnd()
	}

	// The hook may have detached us
	if !d.attached || d.session != s {
		return
	}
	d.session = nil
	d.addStartListeners()
}
