package shortcut

import "github.com/dshills/hotkeyd/internal/event"

// IsInputEvent reports whether the event's target is a text-entry
// surface: a content-editable region, a textarea or select, or an input
// control other than the plain button kinds (button, submit, reset,
// image).
//
// This is a pure predicate. The dispatcher never consults it; callers
// that want shortcuts suppressed while focus is in a text field check it
// themselves.
func IsInputEvent(ev *event.Event) bool {
	if ev == nil || ev.Target == nil {
		return false
	}
	t := ev.Target
	if t.Editable {
		return true
	}
	switch t.Control {
	case "textarea", "select":
		return true
	case "input":
		switch t.Type {
		case "button", "submit", "reset", "image":
			return false
		default:
			return true
		}
	default:
		return false
	}
}
