package element

import (
	"sort"
	"strings"
)

// Listener handles an event dispatched to an element
type Listener func(e *Event)

// ListenerID identifies a registered listener for removal
type ListenerID uint64

type registration struct {
	id       ListenerID
	listener Listener
}

// Element is the target of a click-and-hold gesture. It carries attributes,
// style properties and text for presentation, and a listener registry that
// input sources dispatch events into.
//
// Element is not safe for concurrent use; all calls must come from the
// goroutine that owns the event loop.
type Element struct {
	name       string
	attributes map[string]string
	style      map[string]string
	text       string
	listeners  map[EventType][]registration
	nextID     ListenerID
}

// New creates an empty element
func New(name string) *Element {
	return &Element{
		name:       name,
		attributes: make(map[string]string),
		style:      make(map[string]string),
		listeners:  make(map[EventType][]registration),
	}
}

// Name returns the element name
func (el *Element) Name() string {
	return el.name
}

// SetAttribute sets an attribute value
func (el *Element) SetAttribute(name, value string) {
	el.attributes[name] = value
}

// RemoveAttribute removes an attribute if present
func (el *Element) RemoveAttribute(name string) {
	delete(el.attributes, name)
}

// HasAttribute reports whether the attribute is present
func (el *Element) HasAttribute(name string) bool {
	_, ok := el.attributes[name]
	return ok
}

// Attribute returns an attribute value and whether it is present
func (el *Element) Attribute(name string) (string, bool) {
	v, ok := el.attributes[name]
	return v, ok
}

// SetStyleProperty sets a style (custom) property
func (el *Element) SetStyleProperty(name, value string) {
	el.style[name] = value
}

// StyleProperty returns a style property value, or "" if unset
func (el *Element) StyleProperty(name string) string {
	return el.style[name]
}

// SetText replaces the element text content
func (el *Element) SetText(text string) {
	el.text = text
}

// Text returns the element text content
func (el *Element) Text() string {
	return el.text
}

// AddEventListener registers a listener for an event type
func (el *Element) AddEventListener(t EventType, l Listener) ListenerID {
	el.nextID++
	id := el.nextID
	el.listeners[t] = append(el.listeners[t], registration{id: id, listener: l})
	return id
}

// RemoveEventListener removes a listener by id. Unknown ids are ignored.
func (el *Element) RemoveEventListener(id ListenerID) {
	for t, regs := range el.listeners {
		for i, r := range regs {
			if r.id != id {
				continue
			}
			regs = append(regs[:i:i], regs[i+1:]...)
			if len(regs) == 0 {
				delete(el.listeners, t)
			} else {
				el.listeners[t] = regs
			}
			return
		}
	}
}

// ListenerCount returns the number of listeners registered for t
func (el *Element) ListenerCount(t EventType) int {
	return len(el.listeners[t])
}

// Dispatch delivers e to the listeners registered for its type, in
// registration order. Listeners removed during dispatch are not called;
// listeners added during dispatch wait for the next event.
func (el *Element) Dispatch(e *Event) {
	snapshot := append([]registration(nil), el.listeners[e.Type]...)
	for _, r := range snapshot {
		if !el.registered(e.Type, r.id) {
			continue
		}
		r.listener(e)
	}
}

func (el *Element) registered(t EventType, id ListenerID) bool {
	for _, r := range el.listeners[t] {
		if r.id == id {
			return true
		}
	}
	return false
}

func (el *Element) String() string {
	names := make([]string, 0, len(el.attributes))
	for name := range el.attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return el.name + "[" + strings.Join(names, " ") + "]"
}
