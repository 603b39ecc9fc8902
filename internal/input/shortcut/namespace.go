package shortcut

import (
	"strconv"

	"github.com/dshills/hotkeyd/internal/event"
	"github.com/dshills/hotkeyd/internal/input/key"
)

// Namespace derives the canonical namespace string for a binding.
// Without a modifier the parts are type, key, name; with one the
// modifier label sits between type and key. The dispatcher rebuilds this
// string from a live event's own fields, so the rule must depend on
// nothing else.
func Namespace(eventType string, code key.Code, class key.Class, name string) string {
	keyStr := strconv.Itoa(int(code))
	if label := class.Label(); label != "" {
		return eventType + "_" + label + "_" + keyStr + "_" + name
	}
	return eventType + "_" + keyStr + "_" + name
}

// comboFlags builds the synthetic-event payload for a binding: the key
// code plus the boolean flag for its modifier class.
func comboFlags(code key.Code, class key.Class) event.KeyCombo {
	combo := event.KeyCombo{Key: code}
	switch class {
	case key.ClassCtrl:
		combo.Ctrl = true
	case key.ClassAlt:
		combo.Alt = true
	}
	return combo
}
