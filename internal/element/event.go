package element

import "fmt"

// EventType names an input event delivered to an element
type EventType string

const (
	PointerDown EventType = "pointerdown"
	PointerUp   EventType = "pointerup"
	MouseDown   EventType = "mousedown"
	MouseUp     EventType = "mouseup"
	MouseLeave  EventType = "mouseleave"
	MouseOut    EventType = "mouseout"
	TouchStart  EventType = "touchstart"
	TouchEnd    EventType = "touchend"
	TouchCancel EventType = "touchcancel"
	KeyDown     EventType = "keydown"
	KeyUp       EventType = "keyup"
	Blur        EventType = "blur"
)

// Mouse buttons as reported in Event.Button
const (
	ButtonPrimary   = 0
	ButtonAuxiliary = 1
	ButtonSecondary = 2
)

// Event is a single input event. Only the fields relevant to Type are set.
type Event struct {
	Type EventType

	// Button is the mouse/pointer button index (0 = primary)
	Button int

	// Key is the key value (e.g. " ", "Enter"); KeyCode is the legacy
	// numeric code used when Key is empty.
	Key     string
	KeyCode int

	defaultPrevented bool
}

// PreventDefault marks the event as handled
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

func (e *Event) String() string {
	switch e.Type {
	case KeyDown, KeyUp:
		return fmt.Sprintf("%s(%q)", e.Type, KeyName(e))
	case PointerDown, PointerUp, MouseDown, MouseUp:
		return fmt.Sprintf("%s(button=%d)", e.Type, e.Button)
	default:
		return string(e.Type)
	}
}

// KeyName resolves the key of a keyboard event, preferring Key and falling
// back to the character for KeyCode.
func KeyName(e *Event) string {
	if e.Key != "" {
		return e.Key
	}
	if e.KeyCode != 0 {
		return string(rune(e.KeyCode))
	}
	return ""
}

// IsSpace reports whether the event was produced by the space key
func IsSpace(e *Event) bool {
	name := KeyName(e)
	return name == " " || name == "Spacebar"
}

// NewMouseEvent creates a mouse or pointer event for the given button
func NewMouseEvent(t EventType, button int) *Event {
	return &Event{Type: t, Button: button}
}

// NewKeyEvent creates a keyboard event for the given key
func NewKeyEvent(t EventType, key string) *Event {
	return &Event{Type: t, Key: key}
}

// NewEvent creates an event carrying only its type
func NewEvent(t EventType) *Event {
	return &Event{Type: t}
}
