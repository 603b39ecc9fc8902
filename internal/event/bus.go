package event

import (
	"sync"
	"sync/atomic"
)

// Handler processes a delivered event.
type Handler func(ev *Event)

// Stats contains bus delivery statistics.
type Stats struct {
	// EventsPublished is the total number of events published.
	EventsPublished uint64

	// EventsEmitted is the number of synthetic events created by Emit.
	EventsEmitted uint64

	// HandlersInvoked is the total number of handler invocations.
	HandlersInvoked uint64

	// ActiveSubscriptions is the current number of subscriptions.
	ActiveSubscriptions int
}

// subscription is one (event type, scope, tag) attachment.
type subscription struct {
	eventType string
	scope     *Scope
	tag       string
	handler   Handler
}

// deliveryKey indexes subscriptions by event type and scope.
type deliveryKey struct {
	eventType string
	scope     *Scope
}

// Bus is a synchronous, scope-aware event bus.
// Handlers run on the publisher's goroutine in subscription order. A
// handler may subscribe or unsubscribe during delivery; the mutation
// applies starting with the next published event.
type Bus struct {
	mu   sync.RWMutex
	subs map[deliveryKey][]*subscription

	published atomic.Uint64
	emitted   atomic.Uint64
	invoked   atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[deliveryKey][]*subscription),
	}
}

// Subscribe attaches a handler for events of eventType delivered to
// scope, under the given tag. The tag is set on every event immediately
// before the handler runs. The (eventType, scope, tag) triple must be
// unique.
func (b *Bus) Subscribe(eventType string, scope *Scope, tag string, h Handler) error {
	if h == nil {
		return ErrNilHandler
	}
	if eventType == "" {
		return ErrInvalidEventType
	}
	if scope == nil {
		return ErrNilScope
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	k := deliveryKey{eventType: eventType, scope: scope}
	for _, sub := range b.subs[k] {
		if sub.tag == tag {
			return ErrDuplicateSubscription
		}
	}

	b.subs[k] = append(b.subs[k], &subscription{
		eventType: eventType,
		scope:     scope,
		tag:       tag,
		handler:   h,
	})
	return nil
}

// Unsubscribe detaches exactly the subscription matching the triple.
func (b *Bus) Unsubscribe(eventType string, scope *Scope, tag string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	k := deliveryKey{eventType: eventType, scope: scope}
	subs := b.subs[k]
	for i, sub := range subs {
		if sub.tag != tag {
			continue
		}
		subs = append(subs[:i:i], subs[i+1:]...)
		if len(subs) == 0 {
			delete(b.subs, k)
		} else {
			b.subs[k] = subs
		}
		return nil
	}
	return ErrSubscriptionNotFound
}

// HasSubscription reports whether the triple is currently subscribed.
func (b *Bus) HasSubscription(eventType string, scope *Scope, tag string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs[deliveryKey{eventType: eventType, scope: scope}] {
		if sub.tag == tag {
			return true
		}
	}
	return false
}

// SubscriptionCount returns the current number of subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, subs := range b.subs {
		n += len(subs)
	}
	return n
}

// Publish delivers ev to subscribers of ev.Type at scope and then at each
// ancestor scope, sharing the same *Event value throughout.
func (b *Bus) Publish(scope *Scope, ev *Event) error {
	if ev == nil {
		return ErrNilEvent
	}
	if ev.Type == "" {
		return ErrInvalidEventType
	}
	if scope == nil {
		return ErrNilScope
	}

	b.published.Add(1)
	b.deliver(scope, ev, "")
	return nil
}

// Emit synthesizes an event of eventType from combo and delivers it along
// scope's propagation chain as if it physically occurred. A non-empty tag
// restricts delivery to subscriptions carrying that tag; an empty tag
// delivers to all.
func (b *Bus) Emit(scope *Scope, eventType, tag string, combo KeyCombo) error {
	if eventType == "" {
		return ErrInvalidEventType
	}
	if scope == nil {
		return ErrNilScope
	}

	ev := NewKeyEvent(eventType, combo)
	ev.Synthetic = true

	b.emitted.Add(1)
	b.published.Add(1)
	b.deliver(scope, ev, tag)
	return nil
}

// deliver snapshots the subscriptions along the scope chain and invokes
// them without holding the lock, so handlers can mutate the bus. The
// snapshot fixes the receiver set for the event in flight.
func (b *Bus) deliver(scope *Scope, ev *Event, onlyTag string) {
	b.mu.RLock()
	var targets []*subscription
	for _, s := range scope.chain() {
		for _, sub := range b.subs[deliveryKey{eventType: ev.Type, scope: s}] {
			if onlyTag != "" && sub.tag != onlyTag {
				continue
			}
			targets = append(targets, sub)
		}
	}
	b.mu.RUnlock()

	for _, sub := range targets {
		ev.Tag = sub.tag
		sub.handler(ev)
		b.invoked.Add(1)
	}
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	return Stats{
		EventsPublished:     b.published.Load(),
		EventsEmitted:       b.emitted.Load(),
		HandlersInvoked:     b.invoked.Load(),
		ActiveSubscriptions: b.SubscriptionCount(),
	}
}
