package appstate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/goliatone/go-appstate/pkg/activity"
)

type testSettings struct {
	title    string
	active   bool
	intValue int64
	ratio    float64
	price    float64
}

func testSchema(s *testSettings) []TypedProperty {
	return []TypedProperty{
		StringProperty("Title", func() string { return s.title }, func(v string) { s.title = v }),
		BoolProperty("Active", func() bool { return s.active }, func(v bool) { s.active = v }),
		IntProperty("IntValue", func() int64 { return s.intValue }, func(v int64) { s.intValue = v }),
		FloatProperty("Ratio", func() float64 { return s.ratio }, func(v float64) { s.ratio = v }),
		DecimalProperty("Price", func() float64 { return s.price }, func(v float64) { s.price = v }),
	}
}

func TestTypedPropertySetGet(t *testing.T) {
	settings := &testSettings{intValue: 1}
	state := New(testSchema(settings))

	if err := state.Set("intvalue", Int(42)); err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}
	value, err := state.Get("IntValue")
	if err != nil {
		t.Fatalf("unexpected error from Get: %v", err)
	}
	got, err := value.AsInt()
	if err != nil {
		t.Fatalf("unexpected coercion error: %v", err)
	}
	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if settings.intValue != 42 {
		t.Fatalf("expected native field to observe the write, got %d", settings.intValue)
	}
}

func TestTypedPrecedenceOverVariables(t *testing.T) {
	settings := &testSettings{}
	state := New(testSchema(settings))

	if err := state.Set("TITLE", String("ledger")); err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}
	if names := state.VariableNames(); len(names) != 0 {
		t.Fatalf("expected no dynamic variables, got %v", names)
	}
	if settings.title != "ledger" {
		t.Fatalf("expected typed property write, got %q", settings.title)
	}
}

func TestDynamicVariableLifecycle(t *testing.T) {
	state := New(nil)

	if _, err := state.Get("score"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first Set, got %v", err)
	}

	if err := state.Set("score", Int(10)); err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}
	value, err := state.Get("score")
	if err != nil {
		t.Fatalf("unexpected error from Get: %v", err)
	}
	if got, _ := value.AsInt(); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}

	if err := state.Remove("score"); err != nil {
		t.Fatalf("unexpected error from Remove: %v", err)
	}
	if _, err := state.Get("score"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after removal, got %v", err)
	}

	// Deleting an absent variable is a no-op.
	if err := state.Set("score", Value{}); err != nil {
		t.Fatalf("unexpected error deleting absent variable: %v", err)
	}
}

func TestBadCoercionLeavesStateUnchanged(t *testing.T) {
	settings := &testSettings{intValue: 1}
	state := New(testSchema(settings))

	err := state.Set("intvalue", String("notanumber"))
	if !errors.Is(err, ErrCoercion) {
		t.Fatalf("expected coercion error, got %v", err)
	}
	value, err := state.Get("intvalue")
	if err != nil {
		t.Fatalf("unexpected error from Get: %v", err)
	}
	if got, _ := value.AsInt(); got != 1 {
		t.Fatalf("expected previous value 1, got %d", got)
	}
	if names := state.VariableNames(); len(names) != 0 {
		t.Fatalf("expected failed Set to create no variable, got %v", names)
	}
}

func TestInvalidNames(t *testing.T) {
	state := New(nil)
	for _, name := range []string{"", "   ", "\t"} {
		if _, err := state.Get(name); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("expected ErrInvalidName from Get(%q), got %v", name, err)
		}
		if err := state.Set(name, Int(1)); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("expected ErrInvalidName from Set(%q), got %v", name, err)
		}
		if err := state.Remove(name); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("expected ErrInvalidName from Remove(%q), got %v", name, err)
		}
	}
}

func TestTypedPropertyCannotBeRemoved(t *testing.T) {
	settings := &testSettings{title: "keep"}
	state := New(testSchema(settings))

	if err := state.Remove("title"); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
	if settings.title != "keep" {
		t.Fatalf("expected property untouched, got %q", settings.title)
	}
}

func TestGetOrFallback(t *testing.T) {
	state := New(nil)

	value, err := state.GetOr("missing", Int(7))
	if err != nil {
		t.Fatalf("unexpected error from GetOr: %v", err)
	}
	if got, _ := value.AsInt(); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}

	if _, err := state.GetOr("  ", Int(7)); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName to survive GetOr, got %v", err)
	}
}

func TestNameNormalizationIsCaseInsensitive(t *testing.T) {
	state := New(nil)
	if err := state.Set("FOO", String("bar")); err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}
	value, err := state.Get("foo")
	if err != nil {
		t.Fatalf("expected case-folded lookup to hit, got %v", err)
	}
	if value.String() != "bar" {
		t.Fatalf("expected %q, got %q", "bar", value.String())
	}
	if names := state.VariableNames(); len(names) != 1 || names[0] != "foo" {
		t.Fatalf("expected single normalized name, got %v", names)
	}
}

func TestRoundTripCoercionPerKind(t *testing.T) {
	settings := &testSettings{}
	state := New(testSchema(settings))

	cases := []struct {
		name  string
		input Value
		check func(Value) error
	}{
		{"Title", String("hello"), func(v Value) error {
			if v.String() != "hello" {
				return fmt.Errorf("got %q", v.String())
			}
			return nil
		}},
		{"Active", Bool(true), func(v Value) error {
			b, err := v.AsBool()
			if err != nil || !b {
				return fmt.Errorf("got %v err=%v", b, err)
			}
			return nil
		}},
		{"IntValue", Int(99), func(v Value) error {
			i, err := v.AsInt()
			if err != nil || i != 99 {
				return fmt.Errorf("got %d err=%v", i, err)
			}
			return nil
		}},
		{"Ratio", Float(0.25), func(v Value) error {
			f, err := v.AsFloat()
			if err != nil || f != 0.25 {
				return fmt.Errorf("got %v err=%v", f, err)
			}
			return nil
		}},
		{"Price", Float(19.99), func(v Value) error {
			f, err := v.AsFloat()
			if err != nil || f != 19.99 {
				return fmt.Errorf("got %v err=%v", f, err)
			}
			return nil
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := state.Set(tc.name, tc.input); err != nil {
				t.Fatalf("unexpected error from Set: %v", err)
			}
			value, err := state.Get(tc.name)
			if err != nil {
				t.Fatalf("unexpected error from Get: %v", err)
			}
			if err := tc.check(value); err != nil {
				t.Fatalf("round trip mismatch: %v", err)
			}
		})
	}
}

func TestStringPropertyAcceptsAnyKind(t *testing.T) {
	settings := &testSettings{}
	state := New(testSchema(settings))

	if err := state.Set("title", Int(42)); err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}
	if settings.title != "42" {
		t.Fatalf("expected canonical string form, got %q", settings.title)
	}
}

func TestChangeEventTriad(t *testing.T) {
	var events []activity.Event
	state := New(nil, WithChangeHooks(activity.Hooks{
		activity.HookFunc(func(_ context.Context, event activity.Event) error {
			events = append(events, event)
			return nil
		}),
	}))

	if err := state.Set("v", Int(1)); err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}
	if err := state.Set("v", Int(2)); err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}
	// Equal values still produce an update event.
	if err := state.Set("v", Int(2)); err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}
	if err := state.Remove("v"); err != nil {
		t.Fatalf("unexpected error from Remove: %v", err)
	}
	// Removing an absent variable fires nothing.
	if err := state.Remove("v"); err != nil {
		t.Fatalf("unexpected error from Remove: %v", err)
	}

	wantVerbs := []string{
		activity.VerbVariableAdded,
		activity.VerbVariableUpdated,
		activity.VerbVariableUpdated,
		activity.VerbVariableRemoved,
	}
	if len(events) != len(wantVerbs) {
		t.Fatalf("expected %d events, got %d", len(wantVerbs), len(events))
	}
	for i, verb := range wantVerbs {
		if events[i].Verb != verb {
			t.Fatalf("event %d: expected verb %q, got %q", i, verb, events[i].Verb)
		}
		if events[i].Variable != "v" {
			t.Fatalf("event %d: expected variable v, got %q", i, events[i].Variable)
		}
	}

	added := events[0]
	if added.OldValue != nil {
		t.Fatalf("added event must not carry an old value, got %v", added.OldValue)
	}
	if added.NewValue != int64(1) {
		t.Fatalf("added event: expected new value 1, got %v", added.NewValue)
	}

	updated := events[1]
	if updated.OldValue != int64(1) || updated.NewValue != int64(2) {
		t.Fatalf("updated event: expected 1 -> 2, got %v -> %v", updated.OldValue, updated.NewValue)
	}

	removed := events[3]
	if removed.OldValue != int64(2) {
		t.Fatalf("removed event: expected old value 2, got %v", removed.OldValue)
	}
	if removed.NewValue != nil {
		t.Fatalf("removed event must not carry a new value, got %v", removed.NewValue)
	}
}

func TestTypedMutationFiresNoEvents(t *testing.T) {
	settings := &testSettings{}
	var events []activity.Event
	state := New(testSchema(settings), WithChangeHooks(activity.Hooks{
		activity.HookFunc(func(_ context.Context, event activity.Event) error {
			events = append(events, event)
			return nil
		}),
	}))

	if err := state.Set("intvalue", Int(5)); err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected typed mutation to fire no change events, got %d", len(events))
	}
}

func TestHookFailureIsLoggedNotPropagated(t *testing.T) {
	var entries []LogEntry
	var secondRan bool
	state := New(nil,
		WithLogger(LoggerFunc(func(entry LogEntry) {
			entries = append(entries, entry)
		})),
		WithChangeHooks(activity.Hooks{
			activity.HookFunc(func(context.Context, activity.Event) error {
				return errors.New("boom")
			}),
			activity.HookFunc(func(context.Context, activity.Event) error {
				secondRan = true
				return nil
			}),
		}),
	)

	if err := state.Set("v", Int(1)); err != nil {
		t.Fatalf("hook failure must not propagate to Set, got %v", err)
	}
	if !secondRan {
		t.Fatalf("expected later hooks to run after an earlier failure")
	}
	if _, err := state.Get("v"); err != nil {
		t.Fatalf("expected committed mutation to survive hook failure, got %v", err)
	}
	if len(entries) != 1 || entries[0].Op != "change" || entries[0].Err == nil {
		t.Fatalf("expected one change log entry carrying the hook error, got %+v", entries)
	}
}

func TestSubscribeOrderAndUnsubscribe(t *testing.T) {
	state := New(nil)

	var order []string
	first := state.Subscribe(activity.HookFunc(func(_ context.Context, event activity.Event) error {
		order = append(order, "first:"+event.Verb)
		return nil
	}))
	state.Subscribe(activity.HookFunc(func(_ context.Context, event activity.Event) error {
		order = append(order, "second:"+event.Verb)
		return nil
	}))

	if err := state.Set("v", Int(1)); err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}
	if len(order) != 2 || order[0] != "first:variable.added" || order[1] != "second:variable.added" {
		t.Fatalf("expected registration-ordered delivery, got %v", order)
	}

	if !state.Unsubscribe(first) {
		t.Fatalf("expected Unsubscribe to find the handle")
	}
	order = nil
	if err := state.Set("v", Int(2)); err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}
	if len(order) != 1 || order[0] != "second:variable.updated" {
		t.Fatalf("expected only the remaining subscriber, got %v", order)
	}
}

func TestDuplicatePropertyNamesRejected(t *testing.T) {
	value := int64(0)
	schema := []TypedProperty{
		IntProperty("Count", func() int64 { return value }, func(v int64) { value = v }),
		IntProperty("count", func() int64 { return value }, func(v int64) { value = v }),
	}

	if _, err := Load(schema); !errors.Is(err, ErrDuplicateProperty) {
		t.Fatalf("expected ErrDuplicateProperty from Load, got %v", err)
	}

	// Lazy construction surfaces the same failure on first use.
	state := New(schema)
	if _, err := state.Get("count"); !errors.Is(err, ErrDuplicateProperty) {
		t.Fatalf("expected ErrDuplicateProperty from Get, got %v", err)
	}
}

func TestPropertyWithoutAccessorsIsExcluded(t *testing.T) {
	schema := []TypedProperty{
		Property("Hidden", PropertyString, func() Value { return String("x") }, nil),
	}
	state := New(schema)

	if _, err := state.Get("hidden"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected excluded property to miss the registry, got %v", err)
	}
	// The name falls through to the dynamic namespace.
	if err := state.Set("hidden", Int(1)); err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}
	if names := state.VariableNames(); len(names) != 1 || names[0] != "hidden" {
		t.Fatalf("expected dynamic variable, got %v", names)
	}
}

func TestUnsupportedPropertyKind(t *testing.T) {
	var raw Value
	schema := []TypedProperty{
		Property("Weird", PropertyKind(99),
			func() Value { return raw },
			func(v Value) error { raw = v; return nil },
		),
	}
	state := New(schema)

	if err := state.Set("weird", Int(1)); !errors.Is(err, ErrUnsupportedKind) {
		t.Fatalf("expected ErrUnsupportedKind, got %v", err)
	}
}

func TestVariableInsertionOrder(t *testing.T) {
	state := New(nil)
	for _, name := range []string{"c", "a", "b"} {
		if err := state.Set(name, Int(1)); err != nil {
			t.Fatalf("unexpected error from Set: %v", err)
		}
	}
	if err := state.Remove("a"); err != nil {
		t.Fatalf("unexpected error from Remove: %v", err)
	}
	if err := state.Set("a", Int(2)); err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}

	names := state.VariableNames()
	want := []string{"c", "b", "a"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected insertion order %v, got %v", want, names)
		}
	}
}

func TestBindingsExportState(t *testing.T) {
	settings := &testSettings{intValue: 1, title: "doc"}
	state := New(testSchema(settings))
	if err := state.Set("score", Int(10)); err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}

	bindings := state.Bindings()
	if bindings["intvalue"] != int64(1) {
		t.Fatalf("expected typed property in bindings, got %v", bindings["intvalue"])
	}
	if bindings["title"] != "doc" {
		t.Fatalf("expected typed property in bindings, got %v", bindings["title"])
	}
	if bindings["score"] != int64(10) {
		t.Fatalf("expected variable in bindings, got %v", bindings["score"])
	}
}
