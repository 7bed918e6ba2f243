package activity

import (
	"context"
	"errors"
	"testing"
)

func TestRegistryDeliversInRegistrationOrder(t *testing.T) {
	registry := NewRegistry()

	var order []string
	registry.Subscribe(HookFunc(func(context.Context, Event) error {
		order = append(order, "first")
		return nil
	}))
	registry.Subscribe(HookFunc(func(context.Context, Event) error {
		order = append(order, "second")
		return nil
	}))

	if err := registry.Notify(context.Background(), Event{
		Verb:     VerbVariableAdded,
		Variable: "score",
	}); err != nil {
		t.Fatalf("unexpected error from Notify: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("expected registration order, got %v", order)
	}
}

func TestRegistryUnsubscribeByHandle(t *testing.T) {
	registry := NewRegistry()

	var calls int
	sub := registry.Subscribe(HookFunc(func(context.Context, Event) error {
		calls++
		return nil
	}))

	if !registry.Unsubscribe(sub) {
		t.Fatalf("expected handle to be registered")
	}
	if registry.Unsubscribe(sub) {
		t.Fatalf("expected second unsubscription to report absence")
	}
	if registry.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", registry.Len())
	}

	if err := registry.Notify(context.Background(), Event{
		Verb:     VerbVariableAdded,
		Variable: "score",
	}); err != nil {
		t.Fatalf("unexpected error from Notify: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no delivery after unsubscription, got %d", calls)
	}
}

func TestRegistrySubscriptionHandlesAreDistinct(t *testing.T) {
	registry := NewRegistry()
	first := registry.Subscribe(nil)
	second := registry.Subscribe(nil)
	if first.ID == "" || second.ID == "" || first.ID == second.ID {
		t.Fatalf("expected unique non-empty handle ids")
	}
}

func TestRegistryNotifyJoinsHookErrors(t *testing.T) {
	registry := NewRegistry()
	failure := errors.New("handler failed")
	registry.Subscribe(HookFunc(func(context.Context, Event) error { return failure }))

	err := registry.Notify(context.Background(), Event{
		Verb:     VerbVariableRemoved,
		Variable: "score",
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected hook error to surface, got %v", err)
	}
}
