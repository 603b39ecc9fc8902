package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/hotkeyd/internal/input/key"
)

// KeyCombo is the key code plus raw modifier flags carried by an event.
type KeyCombo struct {
	Key   key.Code
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
}

// Target describes the UI element an event originated from, as far as
// shortcut handling cares: whether it is an editable text surface.
type Target struct {
	// Editable is true for content-editable regions.
	Editable bool

	// Control is the control kind: "input", "textarea", "select",
	// "button", or empty for non-control targets.
	Control string

	// Type is the input type attribute ("text", "password", "submit",
	// ...). Only meaningful when Control is "input".
	Type string
}

// Event is a single keyboard event delivered through the bus.
// One Event value is shared by every delivery stage of the same physical
// keypress, so the Handled marker set at one stage is visible at the next.
type Event struct {
	// ID uniquely identifies this physical event instance.
	ID string

	// Type is the event type, e.g. "keydown" or "keyup".
	Type string

	// Key is the virtual-key code.
	Key key.Code

	// Raw modifier flags as reported by the input source.
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool

	// Target is the element the event originated from, if known.
	Target *Target

	// Time is when the event was created.
	Time time.Time

	// Synthetic is true for events created by Emit rather than by a
	// physical keypress.
	Synthetic bool

	// Tag is the name tag of the subscription currently being delivered
	// to. The bus sets it immediately before each handler invocation.
	Tag string

	// Handled is the handled-by-shortcut marker. Its scope is exactly
	// this physical event; it never carries over to later events.
	Handled bool
}

// NewKeyEvent creates an event of the given type from a key combo.
func NewKeyEvent(eventType string, combo KeyCombo) *Event {
	return &Event{
		ID:    uuid.NewString(),
		Type:  eventType,
		Key:   combo.Key,
		Ctrl:  combo.Ctrl,
		Alt:   combo.Alt,
		Shift: combo.Shift,
		Meta:  combo.Meta,
		Time:  time.Now(),
	}
}

// Combo returns the event's key code and raw modifier flags.
func (e *Event) Combo() KeyCombo {
	return KeyCombo{
		Key:   e.Key,
		Ctrl:  e.Ctrl,
		Alt:   e.Alt,
		Shift: e.Shift,
		Meta:  e.Meta,
	}
}
