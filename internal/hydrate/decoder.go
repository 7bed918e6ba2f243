// Package hydrate converts decoded JSON seed payloads into container values.
// Nested objects flatten into dotted variable paths; numbers keep their
// integer identity via json.Number instead of collapsing to float64.
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	appstate "github.com/goliatone/go-appstate"
)

// PreHook lets callers mutate or normalise the payload before hydration.
type PreHook func(map[string]any) (map[string]any, error)

// Values converts payload into variable values keyed by normalized dotted
// path. JSON nulls are skipped; arrays are rejected because container values
// are scalars.
func Values(payload map[string]any, hooks ...PreHook) (map[string]appstate.Value, error) {
	if payload == nil {
		return nil, fmt.Errorf("hydrate: payload is nil")
	}

	current, err := clonePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("hydrate: clone payload: %w", err)
	}

	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		next, err := hook(current)
		if err != nil {
			return nil, fmt.Errorf("hydrate: pre-hook failed: %w", err)
		}
		if next != nil {
			current = next
		}
	}

	out := map[string]appstate.Value{}
	if err := flatten("", current, out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(prefix string, node map[string]any, out map[string]appstate.Value) error {
	for key, raw := range node {
		path := joinPath(prefix, key)
		switch typed := raw.(type) {
		case map[string]any:
			if err := flatten(path, typed, out); err != nil {
				return err
			}
		case []any:
			return fmt.Errorf("hydrate: arrays are not supported at %q", path)
		default:
			value, err := appstate.FromNative(typed)
			if err != nil {
				return fmt.Errorf("hydrate: %q: %w", path, err)
			}
			if value.IsZero() {
				continue
			}
			out[strings.ToLower(path)] = value
		}
	}
	return nil
}

// clonePayload round-trips through encoding/json with UseNumber so integer
// seeds stay integers.
func clonePayload(payload map[string]any) (map[string]any, error) {
	buffer, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	decoder.UseNumber()
	var out map[string]any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return strings.Join([]string{prefix, segment}, ".")
}
