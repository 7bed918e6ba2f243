// Package host is the embedding surface for scripting runtimes. A Host owns
// one container per execution session and serializes access to it, honouring
// the container's single-threaded contract. The scripting boundary itself is
// exposed as words (see Words) that a runtime registers against its own
// dispatch loop.
package host

import (
	"fmt"
	"sort"
	"sync"

	appstate "github.com/goliatone/go-appstate"
	"github.com/goliatone/go-appstate/internal/hydrate"
	"github.com/goliatone/go-appstate/layering"
)

var ErrContainerExists = fmt.Errorf("host: container already exists")

var ErrContainerNotFound = fmt.Errorf("host: container not found")

// Ref identifies one container for one scripting session. An empty session
// addresses the shared system container for the domain.
type Ref struct {
	Session string
	Domain  string
}

// Identifier returns the deterministic registry key for r.
func (r Ref) Identifier() (string, error) {
	if r.Domain == "" {
		return "", fmt.Errorf("host: domain is required")
	}
	if r.Session == "" {
		return fmt.Sprintf("system/%s", r.Domain), nil
	}
	return fmt.Sprintf("session/%s/%s", r.Session, r.Domain), nil
}

// Host owns named containers keyed by Ref.Identifier().
type Host struct {
	mu         sync.RWMutex
	containers map[string]*appstate.AppState
}

// New constructs an empty host.
func New() *Host {
	return &Host{containers: map[string]*appstate.AppState{}}
}

// Create builds a container for ref over the declared schema, seeds it from
// the merged seed documents (ordered strongest to weakest), and registers it.
// Seeding goes through Set, so configured change hooks observe the initial
// population. Typed names appearing in seeds write the typed property.
func (h *Host) Create(ref Ref, schema []appstate.TypedProperty, seeds []map[string]any, opts ...appstate.Option) (*appstate.AppState, error) {
	key, err := ref.Identifier()
	if err != nil {
		return nil, err
	}

	state, err := appstate.Load(schema, opts...)
	if err != nil {
		return nil, fmt.Errorf("host: load %q: %w", key, err)
	}

	if merged := layering.Merge(seeds...); merged != nil {
		values, err := hydrate.Values(merged)
		if err != nil {
			return nil, fmt.Errorf("host: seed %q: %w", key, err)
		}
		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := state.Set(name, values[name]); err != nil {
				return nil, fmt.Errorf("host: seed %q variable %q: %w", key, name, err)
			}
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.containers[key]; exists {
		return nil, fmt.Errorf("%w: %s", ErrContainerExists, key)
	}
	h.containers[key] = state
	return state, nil
}

// Lookup resolves the container registered for ref.
func (h *Host) Lookup(ref Ref) (*appstate.AppState, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return nil, false, err
	}
	h.mu.RLock()
	state, ok := h.containers[key]
	h.mu.RUnlock()
	return state, ok, nil
}

// Drop removes the container registered for ref, reporting whether one was
// present.
func (h *Host) Drop(ref Ref) (bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return false, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.containers[key]; !ok {
		return false, nil
	}
	delete(h.containers, key)
	return true, nil
}

// With runs fn against the container for ref while holding the host lock,
// serializing container access across goroutines. Containers themselves are
// not thread-safe; embedders sharing one across goroutines must route every
// call through With.
func (h *Host) With(ref Ref, fn func(*appstate.AppState) error) error {
	if fn == nil {
		return fmt.Errorf("host: fn is required")
	}
	key, err := ref.Identifier()
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	state, ok := h.containers[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrContainerNotFound, key)
	}
	return fn(state)
}

// Len reports the number of registered containers.
func (h *Host) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.containers)
}
