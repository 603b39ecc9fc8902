package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/hotkeyd/internal/config"
	"github.com/dshills/hotkeyd/internal/event"
	"github.com/dshills/hotkeyd/internal/input/shortcut"
	"github.com/dshills/hotkeyd/internal/script"
)

// Options configures an App.
type Options struct {
	// ConfigPath is the shortcut configuration file. Empty means start
	// with no shortcuts registered.
	ConfigPath string

	// Watch enables live reload of the configuration file.
	Watch bool

	// Logger is the application logger. Defaults to a stderr logger at
	// info level.
	Logger *Logger
}

// App owns the engine's moving parts for one host surface: the event
// bus, the root scope, the shortcut registry, the Lua action engine, and
// optionally a config watcher.
type App struct {
	logger   *Logger
	bus      *event.Bus
	scope    *event.Scope
	registry *shortcut.Registry
	engine   *script.Engine
	watcher  *config.Watcher

	mu         sync.Mutex
	configPath string
	handles    []shortcut.Handle
	shutdown   bool
}

// New creates the application, loads the configuration if one is given,
// and registers its shortcuts.
func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(DefaultLoggerConfig())
	}

	bus := event.NewBus()
	scope := event.NewScope("document", nil)

	a := &App{
		logger:     logger,
		bus:        bus,
		scope:      scope,
		configPath: opts.ConfigPath,
	}
	a.registry = shortcut.New(bus, scope,
		shortcut.WithLogger(logger.WithComponent("shortcut")))
	a.engine = script.NewEngine(script.WithErrorHandler(func(action string, err error) {
		logger.WithComponent("script").Error("action %q failed: %v", action, err)
	}))

	if opts.ConfigPath != "" {
		f, err := config.Load(opts.ConfigPath)
		if err != nil {
			a.Shutdown()
			return nil, err
		}
		if err := a.ApplyConfig(f); err != nil {
			a.Shutdown()
			return nil, err
		}

		if opts.Watch {
			w, err := config.NewWatcher(opts.ConfigPath, a.onReload)
			if err != nil {
				a.Shutdown()
				return nil, fmt.Errorf("watching config: %w", err)
			}
			a.watcher = w
		}
	}

	return a, nil
}

// Bus returns the event bus physical events should be published on.
func (a *App) Bus() *event.Bus {
	return a.bus
}

// Scope returns the root scope.
func (a *App) Scope() *event.Scope {
	return a.scope
}

// Registry returns the shortcut registry.
func (a *App) Registry() *shortcut.Registry {
	return a.registry
}

// Engine returns the Lua action engine.
func (a *App) Engine() *script.Engine {
	return a.engine
}

// Logger returns the application logger.
func (a *App) Logger() *Logger {
	return a.logger
}

// ApplyConfig replaces the current config-driven shortcuts with the
// file's. Shortcuts registered directly on the registry by the host are
// untouched. Registration continues past individual failures; the first
// failure is returned.
func (a *App) ApplyConfig(f *config.File) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.shutdown {
		return errors.New("application is shut down")
	}

	if path := f.ScriptPath(a.configPath); path != "" {
		if err := a.engine.LoadFile(path); err != nil {
			return fmt.Errorf("loading action script: %w", err)
		}
	}

	for _, h := range a.handles {
		if err := a.registry.Deregister(h); err != nil && !errors.Is(err, shortcut.ErrUnknownHandle) {
			a.logger.Warn("deregistering handle %d: %v", h, err)
		}
	}
	a.handles = a.handles[:0]

	var firstErr error
	for _, s := range f.Shortcuts {
		h, err := a.registerShortcut(s)
		if err != nil {
			a.logger.Error("registering shortcut %q: %v", s.Name, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("registering shortcut %q: %w", s.Name, err)
			}
			continue
		}
		a.handles = append(a.handles, h)
	}

	a.logger.Info("applied config: %d shortcuts registered", len(a.handles))
	return firstErr
}

// registerShortcut registers one config entry. Caller holds the lock.
func (a *App) registerShortcut(s config.Shortcut) (shortcut.Handle, error) {
	code, err := s.Code()
	if err != nil {
		return 0, err
	}
	cb, err := a.engine.Bind(s.Action)
	if err != nil {
		return 0, err
	}

	var opts []shortcut.RegisterOption
	if s.Event != "" {
		opts = append(opts, shortcut.WithEventType(s.Event))
	}
	return a.registry.Register(shortcut.Combo{Key: code, Modifier: s.Modifier}, cb, s.Name, opts...)
}

// onReload is the watcher callback.
func (a *App) onReload(f *config.File, err error) {
	if err != nil {
		a.logger.Error("config reload failed: %v", err)
		return
	}
	if err := a.ApplyConfig(f); err != nil {
		a.logger.Error("config reload: %v", err)
	}
}

// Handles returns the handles of the config-driven shortcuts.
func (a *App) Handles() []shortcut.Handle {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]shortcut.Handle, len(a.handles))
	copy(out, a.handles)
	return out
}

// Shutdown tears down the registry and releases the watcher and Lua
// state. Safe to call more than once.
func (a *App) Shutdown() {
	a.mu.Lock()
	if a.shutdown {
		a.mu.Unlock()
		return
	}
	a.shutdown = true
	a.handles = nil
	a.mu.Unlock()

	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.logger.Warn("closing config watcher: %v", err)
		}
	}
	if err := a.registry.TearDown(); err != nil {
		a.logger.Warn("registry teardown: %v", err)
	}
	a.engine.Close()
}
