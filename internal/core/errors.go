package core

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates a missing or empty required field. Caller
	// error; not retryable.
	ErrValidation = errors.New("missing or empty required field")

	// ErrUnavailable indicates the key-value store failed to read or
	// write. Surfaced uninterpreted; no retry happens at this layer.
	ErrUnavailable = errors.New("store unavailable")
)

// DecodeError reports malformed data read back from the store.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode stored value at %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// unavailable wraps a store failure so callers can match ErrUnavailable
// while keeping the underlying cause in the message.
func unavailable(op, key string, err error) error {
	return fmt.Errorf("%s %s: %w: %v", op, key, ErrUnavailable, err)
}
