package key

import (
	"fmt"
	"strings"
)

// Code is a numeric virtual-key code.
// Letter keys use their uppercase character value (A=65), digits their
// character value (0=48), and special keys the conventional codes below.
type Code int

// CodeNone represents no key.
const CodeNone Code = 0

// Special key codes.
const (
	CodeBackspace Code = 8
	CodeTab       Code = 9
	CodeEnter     Code = 13
	CodePause     Code = 19
	CodeCapsLock  Code = 20
	CodeEscape    Code = 27
	CodeSpace     Code = 32
	CodePageUp    Code = 33
	CodePageDown  Code = 34
	CodeEnd       Code = 35
	CodeHome      Code = 36
	CodeLeft      Code = 37
	CodeUp        Code = 38
	CodeRight     Code = 39
	CodeDown      Code = 40
	CodeInsert    Code = 45
	CodeDelete    Code = 46
	CodeF1        Code = 112
	CodeF2        Code = 113
	CodeF3        Code = 114
	CodeF4        Code = 115
	CodeF5        Code = 116
	CodeF6        Code = 117
	CodeF7        Code = 118
	CodeF8        Code = 119
	CodeF9        Code = 120
	CodeF10       Code = 121
	CodeF11       Code = 122
	CodeF12       Code = 123
)

// codeNameMap maps key names (lowercase) to Code values.
var codeNameMap = map[string]Code{
	"backspace": CodeBackspace,
	"bs":        CodeBackspace,
	"tab":       CodeTab,
	"enter":     CodeEnter,
	"return":    CodeEnter,
	"pause":     CodePause,
	"capslock":  CodeCapsLock,
	"escape":    CodeEscape,
	"esc":       CodeEscape,
	"space":     CodeSpace,
	"pageup":    CodePageUp,
	"pgup":      CodePageUp,
	"pagedown":  CodePageDown,
	"pgdn":      CodePageDown,
	"end":       CodeEnd,
	"home":      CodeHome,
	"left":      CodeLeft,
	"up":        CodeUp,
	"right":     CodeRight,
	"down":      CodeDown,
	"insert":    CodeInsert,
	"ins":       CodeInsert,
	"delete":    CodeDelete,
	"del":       CodeDelete,
	"f1":        CodeF1,
	"f2":        CodeF2,
	"f3":        CodeF3,
	"f4":        CodeF4,
	"f5":        CodeF5,
	"f6":        CodeF6,
	"f7":        CodeF7,
	"f8":        CodeF8,
	"f9":        CodeF9,
	"f10":       CodeF10,
	"f11":       CodeF11,
	"f12":       CodeF12,
}

// codeNames is the reverse of codeNameMap for String, preferring the
// long form of aliased names.
var codeNames = map[Code]string{
	CodeBackspace: "Backspace",
	CodeTab:       "Tab",
	CodeEnter:     "Enter",
	CodePause:     "Pause",
	CodeCapsLock:  "CapsLock",
	CodeEscape:    "Escape",
	CodeSpace:     "Space",
	CodePageUp:    "PageUp",
	CodePageDown:  "PageDown",
	CodeEnd:       "End",
	CodeHome:      "Home",
	CodeLeft:      "Left",
	CodeUp:        "Up",
	CodeRight:     "Right",
	CodeDown:      "Down",
	CodeInsert:    "Insert",
	CodeDelete:    "Delete",
}

// CodeFromName returns the Code for a key name (case-insensitive).
// Single letters and digits resolve to their character codes; everything
// else is looked up by name. Returns CodeNone and false if unrecognized.
func CodeFromName(name string) (Code, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return Code(c - 'a' + 'A'), true
		case c >= '0' && c <= '9':
			return Code(c), true
		}
	}
	if code, ok := codeNameMap[name]; ok {
		return code, true
	}
	return CodeNone, false
}

// String returns a human-readable name for the code.
func (c Code) String() string {
	switch {
	case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return string(rune(c))
	case c >= CodeF1 && c <= CodeF12:
		return fmt.Sprintf("F%d", c-CodeF1+1)
	}
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (c Code) IsFunctionKey() bool {
	return c >= CodeF1 && c <= CodeF12
}

// IsPrintable returns true if the code maps to a printable character.
func (c Code) IsPrintable() bool {
	return c == CodeSpace || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z')
}
