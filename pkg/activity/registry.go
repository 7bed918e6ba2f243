package activity

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Subscription is the handle returned by Registry.Subscribe. Holders use it
// only for unregistration; it carries no ownership of the registry.
type Subscription struct {
	ID   string
	hook Hook
}

// Registry is an ordered observer list. Notification iterates subscriptions
// in registration order; unregistration removes by handle. The list itself is
// mutex-guarded because registries are shared embedding surfaces, but event
// delivery stays on the caller's goroutine.
type Registry struct {
	mu   sync.Mutex
	subs []*Subscription
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Subscribe appends hook to the delivery order and returns its handle.
// A nil hook returns a valid handle that never receives events.
func (r *Registry) Subscribe(hook Hook) *Subscription {
	sub := &Subscription{
		ID:   uuid.NewString(),
		hook: hook,
	}
	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()
	return sub
}

// Unsubscribe removes sub from the delivery order, reporting whether it was
// registered.
func (r *Registry) Unsubscribe(sub *Subscription) bool {
	if sub == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, candidate := range r.subs {
		if candidate == sub {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Len reports the number of active subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Notify delivers event to every subscription in registration order,
// returning a joined error if any hook fails. Every hook runs to completion
// regardless of earlier failures.
func (r *Registry) Notify(ctx context.Context, event Event) error {
	r.mu.Lock()
	ordered := make([]*Subscription, len(r.subs))
	copy(ordered, r.subs)
	r.mu.Unlock()

	if len(ordered) == 0 {
		return nil
	}
	hooks := make(Hooks, 0, len(ordered))
	for _, sub := range ordered {
		if sub.hook == nil {
			continue
		}
		hooks = append(hooks, sub.hook)
	}
	return hooks.Notify(ctx, event)
}
