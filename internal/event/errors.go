package event

import "errors"

// Sentinel errors for the event bus.
var (
	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrInvalidEventType is returned when an event type is empty.
	ErrInvalidEventType = errors.New("invalid event type")

	// ErrNilScope is returned when a nil scope is provided.
	ErrNilScope = errors.New("scope cannot be nil")

	// ErrDuplicateSubscription is returned when the (event type, scope,
	// tag) triple is already subscribed.
	ErrDuplicateSubscription = errors.New("subscription already exists")

	// ErrSubscriptionNotFound is returned when unsubscribing a triple
	// that was never subscribed or already removed.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrNilEvent is returned when publishing a nil event.
	ErrNilEvent = errors.New("event cannot be nil")
)
