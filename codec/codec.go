// Package codec serializes sets.
//
// Two families are provided. The binary frame (EncodeSet, Decode*) stores the
// non-zero 64-bit blocks of a set with optional LZ4 or ZSTD compression and a
// CRC32C checksum. The Codec interface covers JSON encodings of Document
// values and is meant for debugging dumps and configuration files.
package codec

import (
	"fmt"
	"slices"

	"github.com/hupe1980/bitblock/compressed"
	"github.com/hupe1980/bitblock/intset"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used by MarshalDocument when none is given.
var Default Codec = GoJSON{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Document is the JSON shape of a set.
type Document struct {
	Kind     string `json:"kind"`
	Elements []uint `json:"elements"`
}

// NewDocument describes r.
func NewDocument(r intset.Reader) (Document, error) {
	kind, err := KindOf(r)
	if err != nil {
		return Document{}, err
	}
	elems := slices.Collect(r.All())
	if elems == nil {
		elems = []uint{}
	}
	return Document{Kind: kind.String(), Elements: elems}, nil
}

// Set rebuilds the representation named by Kind.
func (d Document) Set() (intset.Reader, error) {
	c := compressed.FromSlice(d.Elements...)
	switch d.Kind {
	case KindDense.String():
		return intset.ToDense(c), nil
	case KindCompressed.String():
		return c, nil
	case KindFixed.String():
		f, err := intset.ToFixed(c)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind)
	}
}

// MarshalDocument encodes r as a Document with c (Default if nil).
func MarshalDocument(c Codec, r intset.Reader) ([]byte, error) {
	if c == nil {
		c = Default
	}
	doc, err := NewDocument(r)
	if err != nil {
		return nil, err
	}
	b, err := c.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("codec %s marshal failed: %w", c.Name(), err)
	}
	return b, nil
}

// UnmarshalDocument decodes a Document with c (Default if nil) and rebuilds
// the set.
func UnmarshalDocument(c Codec, data []byte) (intset.Reader, error) {
	if c == nil {
		c = Default
	}
	var doc Document
	if err := c.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("codec %s unmarshal failed: %w", c.Name(), err)
	}
	return doc.Set()
}
