package app

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/hotkeyd/internal/event"
	"github.com/dshills/hotkeyd/internal/input/key"
)

// KeySource captures physical key events from a terminal and publishes
// them on the bus as keydown events.
type KeySource struct {
	screen tcell.Screen
	bus    *event.Bus
	scope  *event.Scope
	logger *Logger
	quit   chan struct{}
}

// NewKeySource creates a terminal key source publishing to bus at scope.
func NewKeySource(bus *event.Bus, scope *event.Scope, logger *Logger) (*KeySource, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NullLogger
	}
	return &KeySource{
		screen: screen,
		bus:    bus,
		scope:  scope,
		logger: logger.WithComponent("terminal"),
		quit:   make(chan struct{}),
	}, nil
}

// Init takes over the terminal.
func (s *KeySource) Init() error {
	return s.screen.Init()
}

// Run polls terminal events until Stop, translating each keypress into
// a bus event. Blocks the calling goroutine.
func (s *KeySource) Run() {
	for {
		select {
		case <-s.quit:
			return
		default:
		}

		tev := s.screen.PollEvent()
		switch tev := tev.(type) {
		case *tcell.EventKey:
			ev := TranslateKey(tev)
			if ev == nil {
				continue
			}
			s.logger.Debug("key %s", ev.Key)
			if err := s.bus.Publish(s.scope, ev); err != nil {
				s.logger.Error("publishing key event: %v", err)
			}
		case *tcell.EventResize:
			s.screen.Sync()
		case nil:
			// Screen finalized.
			return
		}
	}
}

// Stop ends the poll loop and releases the terminal.
func (s *KeySource) Stop() {
	select {
	case <-s.quit:
	default:
		close(s.quit)
	}
	s.screen.Fini()
}

// specialKeyCodes maps tcell's named keys onto virtual-key codes.
var specialKeyCodes = map[tcell.Key]key.Code{
	tcell.KeyUp:     key.CodeUp,
	tcell.KeyDown:   key.CodeDown,
	tcell.KeyLeft:   key.CodeLeft,
	tcell.KeyRight:  key.CodeRight,
	tcell.KeyHome:   key.CodeHome,
	tcell.KeyEnd:    key.CodeEnd,
	tcell.KeyPgUp:   key.CodePageUp,
	tcell.KeyPgDn:   key.CodePageDown,
	tcell.KeyInsert: key.CodeInsert,
	tcell.KeyDelete: key.CodeDelete,
	tcell.KeyPause:  key.CodePause,
}

// TranslateKey converts a tcell key event into a bus event. Returns nil
// for keys with no virtual-key representation.
func TranslateKey(tev *tcell.EventKey) *event.Event {
	mods := tev.Modifiers()
	combo := event.KeyCombo{
		Ctrl:  mods&tcell.ModCtrl != 0,
		Alt:   mods&tcell.ModAlt != 0,
		Shift: mods&tcell.ModShift != 0,
		Meta:  mods&tcell.ModMeta != 0,
	}

	k := tev.Key()
	switch {
	case k == tcell.KeyRune:
		combo.Key = codeForRune(tev.Rune())
	case k == tcell.KeyEnter:
		combo.Key = key.CodeEnter
	case k == tcell.KeyTab:
		combo.Key = key.CodeTab
	case k == tcell.KeyEscape:
		combo.Key = key.CodeEscape
	case k == tcell.KeyBackspace || k == tcell.KeyBackspace2:
		combo.Key = key.CodeBackspace
	case k >= tcell.KeyF1 && k <= tcell.KeyF12:
		combo.Key = key.CodeF1 + key.Code(k-tcell.KeyF1)
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		// The terminal folds ctrl+letter into a control character.
		combo.Key = key.Code('A') + key.Code(k-tcell.KeyCtrlA)
		combo.Ctrl = true
	default:
		code, ok := specialKeyCodes[k]
		if !ok {
			return nil
		}
		combo.Key = code
	}

	if combo.Key == key.CodeNone {
		return nil
	}
	return event.NewKeyEvent("keydown", combo)
}

// codeForRune maps a printable rune onto its virtual-key code.
func codeForRune(r rune) key.Code {
	switch {
	case r == ' ':
		return key.CodeSpace
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return key.Code(unicode.ToUpper(r))
	case r >= '0' && r <= '9':
		return key.Code(r)
	default:
		return key.CodeNone
	}
}
