package shortcut

import (
	"github.com/dshills/hotkeyd/internal/event"
	"github.com/dshills/hotkeyd/internal/input/key"
)

// Dispatcher is the single handler the event bus invokes for the
// registry's subscriptions. It reconstructs the canonical namespace from
// the live event and routes it to the matching callback.
type Dispatcher struct {
	registry *Registry
}

// Handle processes one delivered event.
//
// Events without a tag did not originate from a registry subscription
// and are ignored. The Handled marker guards against one physical
// keypress firing the same callback twice when the event propagates
// through multiple subscribed scopes. Disabled records swallow the match
// without setting the marker, leaving propagation untouched.
func (d *Dispatcher) Handle(ev *event.Event) {
	if ev == nil || ev.Tag == "" || ev.Handled {
		return
	}

	class := key.ClassFromFlags(ev.Ctrl, ev.Alt, ev.Meta)
	ns := Namespace(ev.Type, ev.Key, class, ev.Tag)

	r := d.registry
	r.mu.Lock()
	rec := r.byNamespace[ns]
	var cb Callback
	if rec != nil && !rec.disabled {
		cb = rec.callback
	}
	r.mu.Unlock()

	if cb == nil {
		return
	}

	// The callback may legally mutate the registry, so it runs outside
	// the lock. Marking first keeps later propagation stages quiet.
	ev.Handled = true
	cb(ev)
}
