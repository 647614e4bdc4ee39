package gesture

import (
	"errors"
	"fmt"

	"github.com/pleimann/holdpad/internal/element"
)

// Marker attributes set on the target element
const (
	AttrAttached   = "data-click-and-hold"
	AttrActiveHold = "data-active-hold"
)

// ErrAlreadyAttached is returned when the element already has a detector
var ErrAlreadyAttached = errors.New("already a click and hold element")

// Modality is the input channel that initiated a hold
type Modality int

const (
	ModalityNone Modality = iota
	ModalityPointer
	ModalityTouch
	ModalityKeyboard
)

func (m Modality) String() string {
	switch m {
	case ModalityNone:
		return "none"
	case ModalityPointer:
		return "pointer"
	case ModalityTouch:
		return "touch"
	case ModalityKeyboard:
		return "keyboard"
	default:
		return fmt.Sprintf("unknown(%d)", m)
	}
}

var startEvents = []element.EventType{
	element.PointerDown,
	element.MouseDown,
	element.TouchStart,
	element.KeyDown,
}

var endEvents = []element.EventType{
	element.KeyUp,
	element.Blur,
	element.PointerUp,
	element.MouseUp,
	element.MouseLeave,
	element.MouseOut,
	element.TouchEnd,
	element.TouchCancel,
}

// startModality returns the modality an event would start, or ModalityNone
// if the event cannot start a hold.
func startModality(e *element.Event) Modality {
	switch e.Type {
	case element.PointerDown, element.MouseDown:
		if e.Button != element.ButtonPrimary {
			return ModalityNone
		}
		return ModalityPointer
	case element.TouchStart:
		return ModalityTouch
	case element.KeyDown:
		if !element.IsSpace(e) {
			return ModalityNone
		}
		return ModalityKeyboard
	default:
		return ModalityNone
	}
}

// endsHold reports whether e is a valid end event for a hold started by m
func endsHold(m Modality, e *element.Event) bool {
	switch m {
	case ModalityKeyboard:
		return e.Type == element.KeyUp || e.Type == element.Blur
	case ModalityPointer:
		switch e.Type {
		case element.PointerUp, element.MouseUp:
			return e.Button == element.ButtonPrimary
		case element.MouseLeave, element.MouseOut:
			return true
		}
		return false
	case ModalityTouch:
		return e.Type == element.TouchEnd || e.Type == element.TouchCancel
	default:
		return false
	}
}
