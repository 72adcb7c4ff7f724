package codec

import (
	"bytes"

	gojson "github.com/goccy/go-json"

	"github.com/hupe1980/bitblock/intset"
)

// GoJSON encodes documents with github.com/goccy/go-json. Its output is
// interchangeable with JSON.
type GoJSON struct{}

func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

func (GoJSON) Name() string { return "go-json" }

// AppendDocument appends the Document of r, without a trailing newline,
// to dst.
func (GoJSON) AppendDocument(dst []byte, r intset.Reader) ([]byte, error) {
	doc, err := NewDocument(r)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(dst)
	enc := gojson.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
