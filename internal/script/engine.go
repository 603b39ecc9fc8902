// Package script runs Lua-defined shortcut actions.
//
// A configuration entry names an action; the engine resolves that name
// to a global Lua function and wraps it as a shortcut callback. Events
// cross into Lua as a plain table.
package script

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/hotkeyd/internal/event"
)

// Sentinel errors for the script engine.
var (
	// ErrEngineClosed is returned after Close.
	ErrEngineClosed = errors.New("script engine is closed")

	// ErrActionNotFound is returned by Bind when no Lua function with
	// the given name exists.
	ErrActionNotFound = errors.New("action not found")
)

// ErrorHandler receives errors raised by an action at dispatch time,
// when there is no caller left to return them to.
type ErrorHandler func(action string, err error)

// Engine wraps a Lua state for action execution.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes all
// access, which also matches the bus's synchronous delivery model.
type Engine struct {
	mu      sync.Mutex
	state   *lua.LState
	closed  bool
	onError ErrorHandler
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithErrorHandler sets the handler for action errors raised during
// dispatch. The default discards them.
func WithErrorHandler(h ErrorHandler) EngineOption {
	return func(e *Engine) {
		if h != nil {
			e.onError = h
		}
	}
}

// NewEngine creates a Lua engine with only the safe standard libraries
// open: base, table, string, and math. io, os, debug, and package stay
// closed.
func NewEngine(opts ...EngineOption) *Engine {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	e := &Engine{
		state:   L,
		onError: func(string, error) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LoadFile executes a Lua file, typically to define action functions.
func (e *Engine) LoadFile(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	return e.protect(func() error {
		return e.state.DoFile(path)
	})
}

// LoadString executes Lua source.
func (e *Engine) LoadString(code string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	return e.protect(func() error {
		return e.state.DoString(code)
	})
}

// Bind resolves an action name to a callback that invokes the Lua
// function of that name with the event as a table. The function must
// already be defined when Bind is called.
func (e *Engine) Bind(action string) (func(ev *event.Event), error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}
	fn := e.state.GetGlobal(action)
	if fn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("%w: %q", ErrActionNotFound, action)
	}

	return func(ev *event.Event) {
		if err := e.invoke(action, ev); err != nil {
			e.onError(action, err)
		}
	}, nil
}

// invoke calls the named Lua function with the event table.
func (e *Engine) invoke(action string, ev *event.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	fn := e.state.GetGlobal(action)
	if fn.Type() != lua.LTFunction {
		return fmt.Errorf("%w: %q", ErrActionNotFound, action)
	}

	return e.protect(func() error {
		return e.state.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		}, e.eventTable(ev))
	})
}

// eventTable converts an event into a Lua table.
func (e *Engine) eventTable(ev *event.Event) *lua.LTable {
	t := e.state.NewTable()
	if ev == nil {
		return t
	}
	t.RawSetString("id", lua.LString(ev.ID))
	t.RawSetString("type", lua.LString(ev.Type))
	t.RawSetString("tag", lua.LString(ev.Tag))
	t.RawSetString("key", lua.LNumber(ev.Key))
	t.RawSetString("ctrl", lua.LBool(ev.Ctrl))
	t.RawSetString("alt", lua.LBool(ev.Alt))
	t.RawSetString("shift", lua.LBool(ev.Shift))
	t.RawSetString("meta", lua.LBool(ev.Meta))
	t.RawSetString("synthetic", lua.LBool(ev.Synthetic))
	return t
}

// Global returns a global Lua value, LNil when absent or closed.
func (e *Engine) Global(name string) lua.LValue {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return lua.LNil
	}
	return e.state.GetGlobal(name)
}

// protect runs fn with panic recovery; gopher-lua panics on some
// internal failures even under Protect.
func (e *Engine) protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Close releases the Lua state. Further calls report ErrEngineClosed and
// already-bound callbacks become no-ops that report through the error
// handler.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.state.Close()
	e.closed = true
}
