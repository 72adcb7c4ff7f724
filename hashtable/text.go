package hashtable

import (
	"fmt"
	"strings"

	"github.com/hupe1980/bitblock/internal/stream"
	"github.com/hupe1980/bitblock/keyhash"
)

// String renders the table as [k1->v1,k2->v2,...] in iteration order.
func (t *Table[K, V]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	first := true
	for k, v := range t.All() {
		if !first {
			b.WriteByte(',')
		}
		first = false
		fmt.Fprintf(&b, "%v->%v", k, v)
	}
	b.WriteByte(']')
	return b.String()
}

// ParsePairs builds a table from its [k1->v1,...] form. parseKey and
// parseValue convert the raw text of each side. Pairs are inserted in order,
// so a repeated key keeps its first value.
func ParsePairs[K keyhash.Key[K], V any](
	text string,
	parseKey func(string) (K, error),
	parseValue func(string) (V, error),
	opts ...Option,
) (*Table[K, V], error) {
	pairs, err := stream.ParsePairs(text)
	if err != nil {
		return nil, fmt.Errorf("hashtable: %w", err)
	}

	t := New[K, V](opts...)
	for _, p := range pairs {
		k, err := parseKey(p.Key)
		if err != nil {
			return nil, fmt.Errorf("hashtable: key %q: %w", p.Key, err)
		}
		v, err := parseValue(p.Value)
		if err != nil {
			return nil, fmt.Errorf("hashtable: value %q: %w", p.Value, err)
		}
		if _, _, err := t.Insert(k, v); err != nil {
			return nil, err
		}
	}
	return t, nil
}
