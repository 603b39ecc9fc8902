// Package shortcut implements keyboard-shortcut registration and
// dispatch.
//
// A Registry binds a (event type, key code, modifier class, name) tuple
// to a callback. Each binding gets a stable integer Handle and a
// canonical namespace string; the namespace is the only join key between
// registration time and dispatch time. The Dispatcher, subscribed to the
// event bus on the registry's behalf, rebuilds the namespace from each
// live event and invokes the matching callback at most once per physical
// event.
//
// Handles are assigned monotonically and never reused. Deregistering
// leaves a tombstone slot behind; any later use of that handle reports
// ErrUnknownHandle. All failures are error returns; nothing panics.
package shortcut
