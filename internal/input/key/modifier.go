package key

import "strings"

// Class is the coarse modifier category a raw modifier name normalizes to.
type Class uint8

const (
	// ClassNone indicates no modifier.
	ClassNone Class = iota

	// ClassCtrl is the primary modifier class. Both "ctrl" and the
	// platform meta key ("meta", Command, Win) normalize here.
	ClassCtrl

	// ClassAlt is the Alt (Option on macOS) modifier class.
	ClassAlt

	// ClassUnrecognized marks a modifier name that matched nothing.
	// It behaves as ClassNone for namespace and flag purposes but
	// remains distinguishable so callers can surface the drop.
	ClassUnrecognized
)

// classNameMap maps modifier names (lowercase) to classes.
var classNameMap = map[string]Class{
	"ctrl":    ClassCtrl,
	"control": ClassCtrl,
	"meta":    ClassCtrl,
	"cmd":     ClassCtrl,
	"command": ClassCtrl,
	"alt":     ClassAlt,
	"option":  ClassAlt,
	"opt":     ClassAlt,
}

// Canonicalize normalizes a raw modifier name to its Class.
// The empty string means no modifier. Unknown names return
// ClassUnrecognized rather than an error; registration treats them as
// unmodified.
func Canonicalize(name string) Class {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ClassNone
	}
	if c, ok := classNameMap[name]; ok {
		return c
	}
	return ClassUnrecognized
}

// ClassFromFlags derives the Class from a live event's raw modifier
// flags. Ctrl and meta both map to ClassCtrl; alt applies only when
// neither is set.
func ClassFromFlags(ctrl, alt, meta bool) Class {
	switch {
	case ctrl || meta:
		return ClassCtrl
	case alt:
		return ClassAlt
	default:
		return ClassNone
	}
}

// Label returns the canonical namespace label for the class.
// ClassNone and ClassUnrecognized both fold to the empty label.
func (c Class) Label() string {
	switch c {
	case ClassCtrl:
		return "ctrl"
	case ClassAlt:
		return "alt"
	default:
		return ""
	}
}

// Recognized returns false only for ClassUnrecognized.
func (c Class) Recognized() bool {
	return c != ClassUnrecognized
}

// String returns a human-readable class name.
func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassCtrl:
		return "ctrl"
	case ClassAlt:
		return "alt"
	case ClassUnrecognized:
		return "unrecognized"
	default:
		return "unknown"
	}
}
