package bitset

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/hupe1980/bitblock/internal/stream"
)

// String returns the set in {e1,e2,...} form.
func (s *Set) String() string {
	return string(stream.AppendSet(nil, s.All()))
}

// Parse parses the {e1,e2,...} form. Elements may appear in any order.
func Parse(text string) (*Set, error) {
	elems, err := stream.ParseSet(text)
	if err != nil {
		return nil, fmt.Errorf("bitset: %w", err)
	}
	return FromSlice(elems...), nil
}

// ReadText consumes one {e1,e2,...} literal from r, leaving later input unread.
func ReadText(r io.RuneScanner) (*Set, error) {
	elems, err := stream.ReadSet(r)
	if err != nil {
		return nil, fmt.Errorf("bitset: %w", err)
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

// MarshalJSON encodes the set as an ascending JSON array.
func (s *Set) MarshalJSON() ([]byte, error) {
	out := []byte{'['}
	for e := range s.All() {
		if len(out) > 1 {
			out = append(out, ',')
		}
		out = strconv.AppendUint(out, uint64(e), 10)
	}
	return append(out, ']'), nil
}

// UnmarshalJSON decodes a JSON array of non-negative integers.
func (s *Set) UnmarshalJSON(data []byte) error {
	var elems []uint
	if err := json.Unmarshal(data, &elems); err != nil {
		return fmt.Errorf("bitset: %w", err)
	}
	*s = *FromSlice(elems...)
	return nil
}
