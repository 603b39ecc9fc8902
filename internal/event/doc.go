// Package event provides the synchronous, scope-aware event bus that
// carries keyboard events between the host input source and the shortcut
// dispatcher.
//
// Scopes model propagation: a scope may have a parent, and an event
// published to a scope is delivered to that scope's subscribers and then
// to each ancestor's in turn, all sharing one *Event value. A handler that
// marks the event handled is therefore visible to every later delivery
// stage of the same physical event.
//
// Subscriptions are keyed by (event type, scope, tag). The tag travels
// with every delivery so a handler shared across many subscriptions can
// tell which one it is being invoked for.
//
// Delivery is synchronous on the publisher's goroutine. Handlers may
// subscribe or unsubscribe from within a delivery; the change applies to
// subsequent events, never to the event in flight.
package event
