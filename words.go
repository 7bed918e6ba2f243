package appstate

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Word is a host operation callable from an embedded scripting engine.
type Word func(args ...any) (any, error)

// WordRegistry stores host words keyed by case-folded name. The scripting
// boundary is case-insensitive, so GET, Get and get resolve the same word.
type WordRegistry struct {
	mu    sync.RWMutex
	words map[string]Word
}

// NewWordRegistry constructs an empty registry.
func NewWordRegistry() *WordRegistry {
	return &WordRegistry{words: make(map[string]Word)}
}

// Register stores word under name, guarding against duplicates.
func (r *WordRegistry) Register(name string, word Word) error {
	if word == nil {
		return fmt.Errorf("appstate: word %q is nil", name)
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("appstate: word name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.words == nil {
		r.words = make(map[string]Word)
	}
	key := strings.ToLower(name)
	if _, exists := r.words[key]; exists {
		return fmt.Errorf("appstate: word %q already registered", name)
	}
	r.words[key] = word
	return nil
}

// Clone returns a shallow copy of the registry.
func (r *WordRegistry) Clone() *WordRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &WordRegistry{words: make(map[string]Word, len(r.words))}
	for name, word := range r.words {
		clone.words[name] = word
	}
	return clone
}

// Call executes the word registered for name.
func (r *WordRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("appstate: word registry is nil")
	}
	r.mu.RLock()
	word := r.words[strings.ToLower(name)]
	r.mu.RUnlock()
	if word == nil {
		return nil, fmt.Errorf("appstate: word %q not registered", name)
	}
	return word(args...)
}

// Names returns registered word names sorted alphabetically.
func (r *WordRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.words))
	for name := range r.words {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithWords configures the container to expose registry to evaluators. The
// registry is shared, not copied: words registered after construction are
// visible to subsequent evaluations. The registry is safe for concurrent
// registration.
func WithWords(registry *WordRegistry) Option {
	return func(cfg *config) {
		if registry == nil {
			return
		}
		cfg.words = registry
	}
}

// WithWord registers word under name for the container.
func WithWord(name string, word Word) Option {
	return func(cfg *config) {
		if cfg.words == nil {
			cfg.words = NewWordRegistry()
		}
		_ = cfg.words.Register(name, word)
	}
}
