package bitblock

import (
	"errors"
	"fmt"

	"github.com/hupe1980/bitblock/codec"
	"github.com/hupe1980/bitblock/fixed"
	"github.com/hupe1980/bitblock/hashtable"
	"github.com/hupe1980/bitblock/index"
	"github.com/hupe1980/bitblock/internal/resource"
	"github.com/hupe1980/bitblock/internal/stream"
)

var (
	// ErrFrozen is returned when a frozen index table is asked for a new key.
	ErrFrozen = index.ErrFrozen
	// ErrOutOfMemory is returned when a table entry allocation is refused.
	ErrOutOfMemory = hashtable.ErrOutOfMemory
	// ErrMemoryLimitExceeded is the resource-level cause of ErrOutOfMemory.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
	// ErrMalformed is returned for unparsable set or table literals.
	ErrMalformed = stream.ErrMalformed
	// ErrOutOfRange is returned when an element does not fit a Set64.
	ErrOutOfRange = fixed.ErrOutOfRange
	// ErrCorrupt is returned for binary frames that fail validation.
	ErrCorrupt = codec.ErrCorrupt
	// ErrUnknownKind is returned for a frame of an unsupported set kind.
	ErrUnknownKind = codec.ErrUnknownKind
	// ErrInvalidCapacity is returned for a non-positive cache capacity.
	ErrInvalidCapacity = errors.New("capacity must be positive")
)

// ParseError describes where a literal failed to parse.
type ParseError = stream.ParseError

// UnknownKeyError reports a key a frozen index table has never seen.
type UnknownKeyError = index.UnknownKeyError

// ErrBuild reports a failed BuildIndex.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrBuild struct {
	Keys  int
	cause error
}

func (e *ErrBuild) Error() string {
	return fmt.Sprintf("index build over %d keys failed: %v", e.Keys, e.cause)
}

func (e *ErrBuild) Unwrap() error { return e.cause }
