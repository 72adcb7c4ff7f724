package index

import (
	"errors"
	"fmt"
)

// ErrFrozen is returned when a frozen table is asked to assign a new index,
// or when a table is frozen twice.
var ErrFrozen = errors.New("index table is frozen")

// UnknownKeyError reports a key that a frozen table has never seen.
type UnknownKeyError struct {
	Key any
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("index: unknown key %v: %v", e.Key, ErrFrozen)
}

// Unwrap returns ErrFrozen.
func (e *UnknownKeyError) Unwrap() error { return ErrFrozen }
