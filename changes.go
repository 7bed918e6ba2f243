package appstate

import (
	"context"
	"errors"

	"github.com/goliatone/go-appstate/pkg/activity"
)

// ChangeKind identifies a dynamic-variable mutation.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeUpdated ChangeKind = "updated"
	ChangeRemoved ChangeKind = "removed"
)

// Change describes one committed variable mutation. Old is zero for Added,
// New is zero for Removed; Updated carries both and fires even when the two
// are value-equal.
type Change struct {
	Kind ChangeKind
	Name string
	Old  Value
	New  Value
}

// WithChangeHooks attaches change hooks to the container configuration.
// Hooks are cloned and nil entries dropped to preserve immutability.
func WithChangeHooks(hooks activity.Hooks) Option {
	normalized := cloneChangeHooks(hooks)
	return func(cfg *config) {
		cfg.changeHooks = normalized
	}
}

// WithChangeChannel overrides the default channel stamped on change events.
func WithChangeChannel(channel string) Option {
	return func(cfg *config) {
		cfg.changeChannel = channel
	}
}

// ChangeHooks returns a cloned slice of the hooks configured on the
// container. The returned slice can be safely mutated by the caller.
func (s *AppState) ChangeHooks() activity.Hooks {
	if s == nil {
		return nil
	}
	return cloneChangeHooks(s.cfg.changeHooks)
}

// Subscribe registers hook for change events and returns its handle.
// Delivery is synchronous and follows registration order.
func (s *AppState) Subscribe(hook activity.Hook) *activity.Subscription {
	return s.subscribers.Subscribe(hook)
}

// Unsubscribe removes a previously registered handle.
func (s *AppState) Unsubscribe(sub *activity.Subscription) bool {
	return s.subscribers.Unsubscribe(sub)
}

// notifyChange runs after the store mutation has committed. Handlers execute
// on the caller's goroutine, configured hooks first, then subscriptions in
// registration order. Handler failures are logged and never propagated to the
// Set caller, so committed state stays observable.
func (s *AppState) notifyChange(change Change) {
	input := activity.ChangeInput{
		ContainerID: s.id,
		Variable:    change.Name,
	}
	if !change.Old.IsZero() {
		input.OldValue = change.Old.Native()
	}
	if !change.New.IsZero() {
		input.NewValue = change.New.Native()
	}

	var event activity.Event
	switch change.Kind {
	case ChangeAdded:
		event = activity.BuildVariableAddedEvent(input)
	case ChangeUpdated:
		event = activity.BuildVariableUpdatedEvent(input)
	case ChangeRemoved:
		event = activity.BuildVariableRemovedEvent(input)
	default:
		return
	}

	ctx := context.Background()
	var errs []error
	if err := s.emitter.Emit(ctx, event); err != nil {
		errs = append(errs, err)
	}
	if err := s.subscribers.Notify(ctx, event); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		s.logger().Log(LogEntry{
			Op:        "change",
			Name:      change.Name,
			Container: s.id,
			Err:       err,
		})
	}
}

func cloneChangeHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.Hook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
