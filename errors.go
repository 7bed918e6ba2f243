package appstate

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName indicates an empty or whitespace-only name reached an
	// entry point. Raised before any lookup.
	ErrInvalidName = errors.New("appstate: name must not be empty")
	// ErrNotFound indicates Get resolved neither a typed property nor a
	// known variable and no fallback was supplied.
	ErrNotFound = errors.New("appstate: name not found")
	// ErrCoercion is the sentinel wrapped by every CoercionError.
	ErrCoercion = errors.New("appstate: value coercion failed")
	// ErrUnsupportedKind indicates a typed property declares a kind outside
	// the supported primitive kinds.
	ErrUnsupportedKind = errors.New("appstate: unsupported property kind")
	// ErrInvalidOperation indicates an attempt to delete a typed property.
	// Typed properties can only be overwritten.
	ErrInvalidOperation = errors.New("appstate: typed properties cannot be removed")
	// ErrNotSupported indicates an attempt to deserialize a snapshot.
	ErrNotSupported = errors.New("appstate: snapshots are a one-way export")
	// ErrDuplicateProperty indicates the declared schema contains two
	// properties with the same normalized name.
	ErrDuplicateProperty = errors.New("appstate: property names must be unique")
)

// CoercionError reports a value whose representation could not be interpreted
// as the requested kind. It unwraps to ErrCoercion so callers can match with
// errors.Is without inspecting the payload.
type CoercionError struct {
	From  Kind
	To    Kind
	Raw   string
	Cause error
}

func (e *CoercionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Raw != "" {
		return fmt.Sprintf("appstate: cannot coerce %s %q to %s", e.From, e.Raw, e.To)
	}
	return fmt.Sprintf("appstate: cannot coerce %s to %s", e.From, e.To)
}

func (e *CoercionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return ErrCoercion
}
