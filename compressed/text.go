package compressed

import (
	"fmt"

	"github.com/hupe1980/bitblock/internal/stream"
)

// String returns the set in {e1,e2,...} form.
func (s *Set) String() string {
	return string(stream.AppendSet(nil, s.All()))
}

// Parse parses the {e1,e2,...} form.
func Parse(text string) (*Set, error) {
	elems, err := stream.ParseSet(text)
	if err != nil {
		return nil, fmt.Errorf("compressed: %w", err)
	}
	return FromSlice(elems...), nil
}

// MarshalText implements encoding.TextMarshaler.
func (s *Set) MarshalText() ([]byte, error) {
	return stream.AppendSet(nil, s.All()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Set) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}
