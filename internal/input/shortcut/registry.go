package shortcut

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/dshills/hotkeyd/internal/event"
	"github.com/dshills/hotkeyd/internal/input/key"
)

// DefaultEventType is used when Register is not given an event type.
const DefaultEventType = "keydown"

// Handle is a stable identifier for a registered shortcut.
// Handles are assigned monotonically and never reused, even after the
// shortcut is deregistered.
type Handle int

// Combo is a key code plus an optional raw modifier name.
// The modifier name is canonicalized at registration; see key.Canonicalize.
type Combo struct {
	Key      key.Code
	Modifier string
}

// Callback is invoked with the live event that matched the shortcut.
type Callback func(ev *event.Event)

// Bus is the external event-delivery mechanism the registry attaches
// bindings to. *event.Bus satisfies it.
type Bus interface {
	Subscribe(eventType string, scope *event.Scope, tag string, h event.Handler) error
	Unsubscribe(eventType string, scope *event.Scope, tag string) error
	Emit(scope *event.Scope, eventType, tag string, combo event.KeyCombo) error
}

// Logger is the subset of logging the registry needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// record is one registered shortcut.
type record struct {
	handle    Handle
	name      string
	eventType string
	key       key.Code
	class     key.Class
	namespace string
	scope     *event.Scope
	disabled  bool
	callback  Callback
}

// Info describes a registered shortcut.
type Info struct {
	Handle    Handle
	Name      string
	EventType string
	Key       key.Code
	Class     key.Class
	Namespace string
	Disabled  bool
}

// Registry owns shortcut records and routes matching events to their
// callbacks. Records are indexed twice: by handle (a slice with nil
// tombstones for deregistered slots) and by canonical namespace.
type Registry struct {
	mu           sync.Mutex
	bus          Bus
	defaultScope *event.Scope
	logger       Logger
	dispatcher   *Dispatcher

	records     []*record
	byNamespace map[string]*record
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a registry attached to bus. Registrations without an
// explicit scope use defaultScope.
func New(bus Bus, defaultScope *event.Scope, opts ...Option) *Registry {
	r := &Registry{
		bus:          bus,
		defaultScope: defaultScope,
		logger:       nopLogger{},
		byNamespace:  make(map[string]*record),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.dispatcher = &Dispatcher{registry: r}
	return r
}

// Dispatcher returns the dispatcher the registry subscribes to the bus.
func (r *Registry) Dispatcher() *Dispatcher {
	return r.dispatcher
}

// RegisterOption configures a single registration.
type RegisterOption func(*registerConfig)

type registerConfig struct {
	eventType string
	scope     *event.Scope
}

// WithEventType sets the event type for the binding (default "keydown").
func WithEventType(eventType string) RegisterOption {
	return func(c *registerConfig) {
		if eventType != "" {
			c.eventType = eventType
		}
	}
}

// WithScope attaches the binding to a specific scope instead of the
// registry default.
func WithScope(scope *event.Scope) RegisterOption {
	return func(c *registerConfig) {
		if scope != nil {
			c.scope = scope
		}
	}
}

// Register binds combo to cb under the given name and returns the new
// handle. The name joins the binding to live events and must be
// non-empty, free of whitespace, and must not start with an underscore.
// Registering a tuple whose canonical namespace is already bound returns
// ErrDuplicateBinding.
func (r *Registry) Register(combo Combo, cb Callback, name string, opts ...RegisterOption) (Handle, error) {
	if combo.Key == key.CodeNone {
		return 0, ErrMissingCombo
	}
	if cb == nil {
		return 0, ErrNilCallback
	}
	if err := validateName(name); err != nil {
		return 0, err
	}

	cfg := registerConfig{eventType: DefaultEventType, scope: r.defaultScope}
	for _, opt := range opts {
		opt(&cfg)
	}

	class := key.Canonicalize(combo.Modifier)
	if !class.Recognized() {
		// Non-fatal: the binding registers as unmodified.
		r.logger.Warn("unrecognized modifier %q on shortcut %q, treating as none", combo.Modifier, name)
	}

	ns := Namespace(cfg.eventType, combo.Key, class, name)

	r.mu.Lock()
	if _, exists := r.byNamespace[ns]; exists {
		r.mu.Unlock()
		return 0, fmt.Errorf("%w: %s", ErrDuplicateBinding, ns)
	}

	rec := &record{
		handle:    Handle(len(r.records)),
		name:      name,
		eventType: cfg.eventType,
		key:       combo.Key,
		class:     class,
		namespace: ns,
		scope:     cfg.scope,
		callback:  cb,
	}
	r.records = append(r.records, rec)
	r.byNamespace[ns] = rec
	r.mu.Unlock()

	if err := r.bus.Subscribe(cfg.eventType, cfg.scope, name, r.dispatcher.Handle); err != nil {
		r.mu.Lock()
		r.records[rec.handle] = nil
		delete(r.byNamespace, ns)
		r.mu.Unlock()
		return 0, fmt.Errorf("attaching shortcut %q: %w", name, err)
	}

	r.logger.Debug("registered shortcut %q as %s (handle %d)", name, ns, rec.handle)
	return rec.handle, nil
}

// Deregister removes the shortcut, detaching it from the bus and
// tombstoning its handle slot.
func (r *Registry) Deregister(h Handle) error {
	r.mu.Lock()
	rec, err := r.lookupLocked(h)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	r.records[h] = nil
	delete(r.byNamespace, rec.namespace)
	r.mu.Unlock()

	if err := r.bus.Unsubscribe(rec.eventType, rec.scope, rec.name); err != nil {
		return fmt.Errorf("detaching shortcut %q: %w", rec.name, err)
	}
	r.logger.Debug("deregistered shortcut %q (handle %d)", rec.name, h)
	return nil
}

// Disable suppresses callback invocation for the shortcut. The binding
// stays subscribed to the bus.
func (r *Registry) Disable(h Handle) error {
	return r.setDisabled(h, true)
}

// Enable restores callback invocation for a disabled shortcut.
func (r *Registry) Enable(h Handle) error {
	return r.setDisabled(h, false)
}

func (r *Registry) setDisabled(h Handle, disabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.lookupLocked(h)
	if err != nil {
		return err
	}
	rec.disabled = disabled
	return nil
}

// Trigger emits a synthetic event for the shortcut, functionally
// identical to a genuine matching keypress on its scope.
func (r *Registry) Trigger(h Handle) error {
	r.mu.Lock()
	rec, err := r.lookupLocked(h)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	eventType, scope, name := rec.eventType, rec.scope, rec.name
	combo := comboFlags(rec.key, rec.class)
	r.mu.Unlock()

	// Emit delivers synchronously back through the dispatcher, so the
	// lock must not be held here.
	if err := r.bus.Emit(scope, eventType, name, combo); err != nil {
		return fmt.Errorf("triggering shortcut %q: %w", name, err)
	}
	return nil
}

// TearDown deregisters every live shortcut and resets the registry to
// its freshly constructed state: both indices empty and the next handle
// zero. Tombstoned slots are skipped.
func (r *Registry) TearDown() error {
	r.mu.Lock()
	live := make([]*record, 0, len(r.records))
	for _, rec := range r.records {
		if rec != nil {
			live = append(live, rec)
		}
	}
	r.records = nil
	r.byNamespace = make(map[string]*record)
	r.mu.Unlock()

	var firstErr error
	for _, rec := range live {
		if err := r.bus.Unsubscribe(rec.eventType, rec.scope, rec.name); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("detaching shortcut %q: %w", rec.name, err)
		}
	}
	return firstErr
}

// Info returns the metadata for a registered shortcut.
func (r *Registry) Info(h Handle) (Info, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.lookupLocked(h)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Handle:    rec.handle,
		Name:      rec.name,
		EventType: rec.eventType,
		Key:       rec.key,
		Class:     rec.class,
		Namespace: rec.namespace,
		Disabled:  rec.disabled,
	}, nil
}

// Active returns the number of live (non-tombstoned) shortcuts.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byNamespace)
}

// lookupLocked resolves a handle to its live record.
// Caller must hold the lock.
func (r *Registry) lookupLocked(h Handle) (*record, error) {
	if h < 0 || int(h) >= len(r.records) || r.records[h] == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	return r.records[h], nil
}

// validateName enforces the registration name rules.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if strings.HasPrefix(name, "_") {
		return fmt.Errorf("%w: %q starts with underscore", ErrInvalidName, name)
	}
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidName, name)
	}
	return nil
}
