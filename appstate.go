package appstate

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-appstate/pkg/activity"
)

// AppState unifies two kinds of named state behind one name-based protocol:
// a fixed set of typed properties declared at construction, and an open set
// of dynamic variables created at runtime by the scripting host. Typed
// resolution always wins, so a variable can never shadow a declared name.
//
// The container is designed for exclusive access from one control goroutine;
// embedders that share a container across goroutines must serialize calls
// themselves (see pkg/host).
type AppState struct {
	id     string
	schema []TypedProperty
	vars   *variableStore
	cfg    config

	registryOnce sync.Once
	registry     *propertyRegistry
	registryErr  error

	emitter     *activity.Emitter
	subscribers *activity.Registry
}

// New constructs a container over the declared property schema. The schema is
// fixed for the container's lifetime; the registry is built lazily on first
// name resolution and cached.
func New(schema []TypedProperty, opts ...Option) *AppState {
	cfg := applyOptions(opts)
	s := &AppState{
		id:          uuid.NewString(),
		schema:      append([]TypedProperty(nil), schema...),
		vars:        newVariableStore(),
		cfg:         cfg,
		subscribers: activity.NewRegistry(),
	}
	s.emitter = activity.NewEmitter(cfg.changeHooks, activity.Config{
		Enabled: true,
		Channel: cfg.changeChannel,
	})
	return s
}

// Load constructs a container and eagerly validates the declared schema,
// surfacing duplicate property names at construction instead of first use.
func Load(schema []TypedProperty, opts ...Option) (*AppState, error) {
	s := New(schema, opts...)
	if _, err := s.properties(); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the container identifier carried on change events.
func (s *AppState) ID() string {
	return s.id
}

// WithEvaluator configures an evaluator on the container.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *config) {
		cfg.evaluator = e
	}
}

func (s *AppState) properties() (*propertyRegistry, error) {
	s.registryOnce.Do(func() {
		s.registry, s.registryErr = buildRegistry(s.schema)
	})
	return s.registry, s.registryErr
}

// normalizeName case-folds raw into the lookup key shared by typed properties
// and variables. Folding is the only transformation; a name that is empty
// after trimming is rejected before any lookup.
func normalizeName(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrInvalidName
	}
	return strings.ToLower(raw), nil
}

// Get resolves name against the typed registry first, then the variable
// store. A miss returns ErrNotFound.
func (s *AppState) Get(name string) (Value, error) {
	key, err := normalizeName(name)
	if err != nil {
		return Value{}, err
	}
	registry, err := s.properties()
	if err != nil {
		return Value{}, err
	}
	if property, ok := registry.resolve(key); ok {
		return property.get(), nil
	}
	if value, ok := s.vars.get(key); ok {
		return value, nil
	}
	return Value{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// GetOr resolves name, returning fallback instead of ErrNotFound. Invalid
// names still fail.
func (s *AppState) GetOr(name string, fallback Value) (Value, error) {
	value, err := s.Get(name)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	return value, err
}

// Has reports whether name resolves to a typed property or a known variable.
func (s *AppState) Has(name string) bool {
	_, err := s.Get(name)
	return err == nil
}

// Set commits value under name. A typed hit coerces value into the declared
// kind and writes the property; otherwise the variable store is mutated and a
// change event fires. Passing the zero Value deletes a dynamic variable and is
// rejected for typed properties. A failed Set leaves all state unchanged.
func (s *AppState) Set(name string, value Value) error {
	key, err := normalizeName(name)
	if err != nil {
		return err
	}
	registry, err := s.properties()
	if err != nil {
		return err
	}
	if property, ok := registry.resolve(key); ok {
		return s.setProperty(property, value)
	}
	return s.setVariable(key, value)
}

// Remove deletes the dynamic variable stored under name. It is a no-op when
// the variable is absent and fails with ErrInvalidOperation on a typed name.
func (s *AppState) Remove(name string) error {
	return s.Set(name, Value{})
}

func (s *AppState) setProperty(property TypedProperty, value Value) error {
	if value.IsZero() {
		return fmt.Errorf("%w: %s", ErrInvalidOperation, property.Name)
	}
	coerced, err := coerceToKind(value, property.Kind)
	if err != nil {
		return err
	}
	return property.set(coerced)
}

func (s *AppState) setVariable(key string, value Value) error {
	if value.IsZero() {
		previous, existed := s.vars.delete(key)
		if existed {
			s.notifyChange(Change{Kind: ChangeRemoved, Name: key, Old: previous})
		}
		return nil
	}
	previous, existed := s.vars.set(key, value)
	if existed {
		s.notifyChange(Change{Kind: ChangeUpdated, Name: key, Old: previous, New: value})
	} else {
		s.notifyChange(Change{Kind: ChangeAdded, Name: key, New: value})
	}
	return nil
}

// coerceToKind re-tags value as the declared property kind, parsing string
// payloads where needed. Updated events and property writes always observe a
// value of the property's own kind.
func coerceToKind(value Value, kind PropertyKind) (Value, error) {
	switch kind {
	case PropertyString:
		return String(value.String()), nil
	case PropertyBool:
		b, err := value.AsBool()
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case PropertyInt:
		i, err := value.AsInt()
		if err != nil {
			return Value{}, err
		}
		return Int(i), nil
	case PropertyFloat, PropertyDecimal:
		f, err := value.AsFloat()
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	default:
		return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
}

// VariableNames returns the dynamic variable names in insertion order.
func (s *AppState) VariableNames() []string {
	return s.vars.names()
}

// Bindings exports the container state as native scalars for evaluator
// environments: every typed property and variable keyed by normalized name.
func (s *AppState) Bindings() map[string]any {
	env := map[string]any{}
	if registry, err := s.properties(); err == nil {
		for _, property := range registry.declared() {
			env[strings.ToLower(property.Name)] = property.get().Native()
		}
	}
	for _, name := range s.vars.names() {
		if value, ok := s.vars.get(name); ok {
			env[name] = value.Native()
		}
	}
	return env
}
