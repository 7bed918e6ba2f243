package host

import (
	"fmt"

	appstate "github.com/goliatone/go-appstate"
)

// Words returns the boundary word set a scripting runtime consumes:
//
//	get(name)         -> native scalar; fails when name resolves nowhere
//	set(name, value)  -> commits the mutation; a nil value deletes a variable
//	unset(name)       -> removes a dynamic variable
//	statejson()       -> the typed-property snapshot document
//
// Names are case-folded by the word registry, so GET and get resolve the same
// word.
func Words(state *appstate.AppState) map[string]appstate.Word {
	return map[string]appstate.Word{
		"get": func(args ...any) (any, error) {
			name, err := wordName("get", args, 1)
			if err != nil {
				return nil, err
			}
			value, err := state.Get(name)
			if err != nil {
				return nil, err
			}
			return value.Native(), nil
		},
		"set": func(args ...any) (any, error) {
			name, err := wordName("set", args, 2)
			if err != nil {
				return nil, err
			}
			value, err := appstate.FromNative(args[1])
			if err != nil {
				return nil, err
			}
			return nil, state.Set(name, value)
		},
		"unset": func(args ...any) (any, error) {
			name, err := wordName("unset", args, 1)
			if err != nil {
				return nil, err
			}
			return nil, state.Remove(name)
		},
		"statejson": func(args ...any) (any, error) {
			if len(args) != 0 {
				return nil, fmt.Errorf("host: statejson takes no arguments")
			}
			return state.SnapshotJSON()
		},
	}
}

// Bind registers the boundary words for state on registry.
func Bind(state *appstate.AppState, registry *appstate.WordRegistry) error {
	for name, word := range Words(state) {
		if err := registry.Register(name, word); err != nil {
			return err
		}
	}
	return nil
}

func wordName(word string, args []any, arity int) (string, error) {
	if len(args) != arity {
		return "", fmt.Errorf("host: %s expects %d argument(s), got %d", word, arity, len(args))
	}
	name, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf("host: %s name must be a string, got %T", word, args[0])
	}
	return name, nil
}
