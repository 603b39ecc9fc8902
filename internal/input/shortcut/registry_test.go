package shortcut

import (
	"errors"
	"testing"

	"github.com/dshills/hotkeyd/internal/event"
	"github.com/dshills/hotkeyd/internal/input/key"
)

func newTestRegistry(t *testing.T) (*Registry, *event.Bus, *event.Scope) {
	t.Helper()
	bus := event.NewBus()
	scope := event.NewScope("document", nil)
	return New(bus, scope), bus, scope
}

func pressEvent(eventType string, code key.Code, combo event.KeyCombo) *event.Event {
	combo.Key = code
	return event.NewKeyEvent(eventType, combo)
}

func TestRegisterAssignsSequentialHandles(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	h1, err := r.Register(Combo{Key: key.Code('A'), Modifier: "ctrl"}, func(*event.Event) {}, "save")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	h2, err := r.Register(Combo{Key: key.Code('O'), Modifier: "ctrl"}, func(*event.Event) {}, "open")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if h1 != 0 || h2 != 1 {
		t.Errorf("expected handles 0 and 1, got %d and %d", h1, h2)
	}
}

func TestRegisterValidation(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	cb := func(*event.Event) {}

	tests := []struct {
		label string
		combo Combo
		cb    Callback
		name  string
		want  error
	}{
		{"missing combo", Combo{}, cb, "save", ErrMissingCombo},
		{"nil callback", Combo{Key: key.Code('A')}, nil, "save", ErrNilCallback},
		{"empty name", Combo{Key: key.Code('A')}, cb, "", ErrInvalidName},
		{"whitespace name", Combo{Key: key.Code('A')}, cb, "save file", ErrInvalidName},
		{"underscore name", Combo{Key: key.Code('A')}, cb, "_save", ErrInvalidName},
	}

	for _, tt := range tests {
		if _, err := r.Register(tt.combo, tt.cb, tt.name); !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.label, err, tt.want)
		}
	}
}

func TestRegisterDuplicateRejected(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	cb := func(*event.Event) {}

	if _, err := r.Register(Combo{Key: key.Code('A'), Modifier: "ctrl"}, cb, "save"); err != nil {
		t.Fatalf("register: %v", err)
	}
	// Identical (eventType, key, modifier, name) tuple.
	_, err := r.Register(Combo{Key: key.Code('A'), Modifier: "ctrl"}, cb, "save")
	if !errors.Is(err, ErrDuplicateBinding) {
		t.Errorf("duplicate registration: got %v, want ErrDuplicateBinding", err)
	}
	if r.Active() != 1 {
		t.Errorf("expected 1 active shortcut after rejected duplicate, got %d", r.Active())
	}
}

func TestRegisterMetaAndCtrlCollide(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	cb := func(*event.Event) {}

	if _, err := r.Register(Combo{Key: key.Code('A'), Modifier: "ctrl"}, cb, "save"); err != nil {
		t.Fatalf("register: %v", err)
	}
	// meta folds onto ctrl, so this is the same canonical namespace.
	_, err := r.Register(Combo{Key: key.Code('A'), Modifier: "meta"}, cb, "save")
	if !errors.Is(err, ErrDuplicateBinding) {
		t.Errorf("meta duplicate of ctrl binding: got %v, want ErrDuplicateBinding", err)
	}
}

func TestRegisterUnrecognizedModifierTreatedAsNone(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	h, err := r.Register(Combo{Key: key.Code('A'), Modifier: "hyper"}, func(*event.Event) {}, "save")
	if err != nil {
		t.Fatalf("register with unrecognized modifier should succeed: %v", err)
	}

	info, err := r.Info(h)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.Class != key.ClassUnrecognized {
		t.Errorf("Class = %v, want ClassUnrecognized", info.Class)
	}
	// Folds to unmodified in the namespace.
	if want := Namespace("keydown", key.Code('A'), key.ClassNone, "save"); info.Namespace != want {
		t.Errorf("Namespace = %q, want %q", info.Namespace, want)
	}
}

func TestRegisterSubscribesBus(t *testing.T) {
	r, bus, scope := newTestRegistry(t)

	if _, err := r.Register(Combo{Key: key.Code('A')}, func(*event.Event) {}, "save"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !bus.HasSubscription("keydown", scope, "save") {
		t.Error("register must subscribe (eventType, scope, name) on the bus")
	}
}

func TestRegisterOptions(t *testing.T) {
	r, bus, _ := newTestRegistry(t)
	panel := event.NewScope("panel", nil)

	h, err := r.Register(Combo{Key: key.Code('A')}, func(*event.Event) {}, "save",
		WithEventType("keyup"), WithScope(panel))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	info, err := r.Info(h)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.EventType != "keyup" {
		t.Errorf("EventType = %q, want keyup", info.EventType)
	}
	if !bus.HasSubscription("keyup", panel, "save") {
		t.Error("binding must attach to the given scope and event type")
	}
}

func TestDeregister(t *testing.T) {
	r, bus, scope := newTestRegistry(t)

	invoked := 0
	h, err := r.Register(Combo{Key: key.Code('A'), Modifier: "ctrl"}, func(*event.Event) { invoked++ }, "save")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := r.Deregister(h); err != nil {
		t.Fatalf("deregister: %v", err)
	}
	if bus.HasSubscription("keydown", scope, "save") {
		t.Error("deregister must remove the bus subscription")
	}
	if r.Active() != 0 {
		t.Errorf("Active() = %d after deregister, want 0", r.Active())
	}

	// A matching event must no longer reach the callback.
	_ = bus.Publish(scope, pressEvent("keydown", key.Code('A'), event.KeyCombo{Ctrl: true}))
	if invoked != 0 {
		t.Errorf("callback invoked %d times after deregister", invoked)
	}

	// The handle is now a tombstone for every operation.
	for _, op := range []func(Handle) error{r.Deregister, r.Enable, r.Disable, r.Trigger} {
		if err := op(h); !errors.Is(err, ErrUnknownHandle) {
			t.Errorf("operation on stale handle: got %v, want ErrUnknownHandle", err)
		}
	}
}

func TestHandlesNeverReused(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	cb := func(*event.Event) {}

	h1, _ := r.Register(Combo{Key: key.Code('A')}, cb, "first")
	if err := r.Deregister(h1); err != nil {
		t.Fatalf("deregister: %v", err)
	}

	h2, err := r.Register(Combo{Key: key.Code('B')}, cb, "second")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if h2 != 1 {
		t.Errorf("tombstoned slot must not be reused: got handle %d, want 1", h2)
	}
}

func TestUnknownHandleOutOfRange(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	for _, h := range []Handle{-1, 0, 99} {
		if err := r.Enable(h); !errors.Is(err, ErrUnknownHandle) {
			t.Errorf("Enable(%d): got %v, want ErrUnknownHandle", h, err)
		}
	}
	if _, err := r.Info(42); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("Info on never-issued handle: got %v, want ErrUnknownHandle", err)
	}
}

func TestDisableEnable(t *testing.T) {
	r, bus, scope := newTestRegistry(t)

	invoked := 0
	h, err := r.Register(Combo{Key: key.Code('A'), Modifier: "ctrl"}, func(*event.Event) { invoked++ }, "save")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := r.Disable(h); err != nil {
		t.Fatalf("disable: %v", err)
	}
	// Disabled records stay subscribed; only invocation is suppressed.
	if !bus.HasSubscription("keydown", scope, "save") {
		t.Error("disable must not unsubscribe from the bus")
	}

	_ = bus.Publish(scope, pressEvent("keydown", key.Code('A'), event.KeyCombo{Ctrl: true}))
	if invoked != 0 {
		t.Errorf("disabled shortcut invoked %d times", invoked)
	}

	if err := r.Enable(h); err != nil {
		t.Fatalf("enable: %v", err)
	}
	_ = bus.Publish(scope, pressEvent("keydown", key.Code('A'), event.KeyCombo{Ctrl: true}))
	if invoked != 1 {
		t.Errorf("re-enabled shortcut invoked %d times, want 1", invoked)
	}
}

func TestTrigger(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	var got *event.Event
	invoked := 0
	h, err := r.Register(Combo{Key: key.Code('A'), Modifier: "ctrl"}, func(ev *event.Event) {
		got = ev
		invoked++
	}, "save")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if h != 0 {
		t.Fatalf("expected handle 0, got %d", h)
	}

	if err := r.Trigger(h); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if invoked != 1 {
		t.Fatalf("trigger invoked callback %d times, want 1", invoked)
	}
	if !got.Synthetic {
		t.Error("triggered event must be synthetic")
	}
	if got.Key != key.Code('A') || !got.Ctrl {
		t.Errorf("triggered event carries wrong combo: %+v", got.Combo())
	}

	// Deregister, then trigger again: explicit failure, no invocation.
	if err := r.Deregister(h); err != nil {
		t.Fatalf("deregister: %v", err)
	}
	if err := r.Trigger(h); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("trigger after deregister: got %v, want ErrUnknownHandle", err)
	}
	if invoked != 1 {
		t.Errorf("callback invoked %d times after deregister, want 1", invoked)
	}
}

func TestTriggerDisabledShortcut(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	invoked := 0
	h, _ := r.Register(Combo{Key: key.Code('A')}, func(*event.Event) { invoked++ }, "save")
	_ = r.Disable(h)

	// The synthetic event is delivered but the disabled record swallows it.
	if err := r.Trigger(h); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if invoked != 0 {
		t.Errorf("disabled shortcut invoked %d times via trigger", invoked)
	}
}

func TestTearDown(t *testing.T) {
	r, bus, _ := newTestRegistry(t)
	cb := func(*event.Event) {}

	h1, _ := r.Register(Combo{Key: key.Code('A')}, cb, "first")
	_, _ = r.Register(Combo{Key: key.Code('B')}, cb, "second")
	_, _ = r.Register(Combo{Key: key.Code('C')}, cb, "third")

	// Leave a tombstone so TearDown has a hole to skip.
	if err := r.Deregister(h1); err != nil {
		t.Fatalf("deregister: %v", err)
	}

	if err := r.TearDown(); err != nil {
		t.Fatalf("teardown: %v", err)
	}
	if n := bus.SubscriptionCount(); n != 0 {
		t.Errorf("teardown left %d live subscriptions", n)
	}
	if r.Active() != 0 {
		t.Errorf("Active() = %d after teardown, want 0", r.Active())
	}

	// Equivalent to a freshly constructed registry: next handle is 0.
	h, err := r.Register(Combo{Key: key.Code('D')}, cb, "fresh")
	if err != nil {
		t.Fatalf("register after teardown: %v", err)
	}
	if h != 0 {
		t.Errorf("first handle after teardown = %d, want 0", h)
	}
}

func TestCallbackDeregistersItself(t *testing.T) {
	r, bus, scope := newTestRegistry(t)

	invoked := 0
	var h Handle
	h, err := r.Register(Combo{Key: key.Code('A')}, func(*event.Event) {
		invoked++
		if err := r.Deregister(h); err != nil {
			t.Errorf("deregister from own callback: %v", err)
		}
	}, "oneshot")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_ = bus.Publish(scope, pressEvent("keydown", key.Code('A'), event.KeyCombo{}))
	_ = bus.Publish(scope, pressEvent("keydown", key.Code('A'), event.KeyCombo{}))

	if invoked != 1 {
		t.Errorf("self-deregistering callback invoked %d times, want 1", invoked)
	}
}

func TestNamespace(t *testing.T) {
	tests := []struct {
		eventType string
		code      key.Code
		class     key.Class
		name      string
		want      string
	}{
		{"keydown", key.Code('A'), key.ClassNone, "save", "keydown_65_save"},
		{"keydown", key.Code('A'), key.ClassCtrl, "save", "keydown_ctrl_65_save"},
		{"keydown", key.Code('A'), key.ClassAlt, "save", "keydown_alt_65_save"},
		{"keyup", key.CodeF1, key.ClassNone, "help", "keyup_112_help"},
		{"keydown", key.Code('A'), key.ClassUnrecognized, "save", "keydown_65_save"},
	}

	for _, tt := range tests {
		got := Namespace(tt.eventType, tt.code, tt.class, tt.name)
		if got != tt.want {
			t.Errorf("Namespace(%q, %d, %v, %q) = %q, want %q",
				tt.eventType, tt.code, tt.class, tt.name, got, tt.want)
		}
	}
}
