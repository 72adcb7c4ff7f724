package stream

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
	"unicode"
)

// ErrMalformed is the sentinel every parse failure unwraps to.
var ErrMalformed = errors.New("malformed input")

// ParseError describes where and why parsing stopped.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrMalformed }

// Pair is one raw key/value item of the paired-collection format.
type Pair struct {
	Key   string
	Value string
}

type scanner struct {
	r   io.RuneScanner
	off int
}

func (s *scanner) fail(format string, args ...any) error {
	return &ParseError{Offset: s.off, Msg: fmt.Sprintf(format, args...)}
}

func (s *scanner) read() (rune, error) {
	r, size, err := s.r.ReadRune()
	if err != nil {
		return 0, err
	}
	s.off += size
	return r, nil
}

func (s *scanner) unread(r rune) {
	if s.r.UnreadRune() == nil {
		s.off -= len(string(r))
	}
}

// next returns the next non-space rune.
func (s *scanner) next() (rune, error) {
	for {
		r, err := s.read()
		if err != nil {
			return 0, err
		}
		if !unicode.IsSpace(r) {
			return r, nil
		}
	}
}

func (s *scanner) number(first rune) (uint, error) {
	var b strings.Builder
	b.WriteRune(first)
	for {
		r, err := s.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		if r < '0' || r > '9' {
			s.unread(r)
			break
		}
		b.WriteRune(r)
	}
	v, err := strconv.ParseUint(b.String(), 10, strconv.IntSize)
	if err != nil {
		return 0, s.fail("element %q out of range", b.String())
	}
	return uint(v), nil
}

// ReadSet consumes one {e1,...,en} literal from r and returns its elements in
// the order they appear. Input after the closing brace is left unread.
func ReadSet(r io.RuneScanner) ([]uint, error) {
	s := &scanner{r: r}
	return s.set()
}

func (s *scanner) set() ([]uint, error) {
	c, err := s.next()
	if err != nil {
		return nil, s.fail("missing '{'")
	}
	if c != '{' {
		return nil, s.fail("expected '{', got %q", c)
	}

	var elems []uint
	for {
		c, err = s.next()
		if err != nil {
			return nil, s.fail("missing '}'")
		}
		if c == '}' && len(elems) == 0 {
			return elems, nil
		}
		if c < '0' || c > '9' {
			return nil, s.fail("expected digit, got %q", c)
		}
		v, err := s.number(c)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)

		c, err = s.next()
		if err != nil {
			return nil, s.fail("missing '}'")
		}
		switch c {
		case ',':
		case '}':
			return elems, nil
		default:
			return nil, s.fail("expected ',' or '}', got %q", c)
		}
	}
}

// ParseSet parses a complete {e1,...,en} literal. Trailing whitespace is
// accepted, any other trailing input is an error.
func ParseSet(text string) ([]uint, error) {
	s := &scanner{r: strings.NewReader(text)}
	elems, err := s.set()
	if err != nil {
		return nil, err
	}
	if c, err := s.next(); err == nil {
		return nil, s.fail("unexpected %q after '}'", c)
	}
	return elems, nil
}

// ParsePairs splits a [k1->v1,...] literal into raw key and value strings.
// Separators nested inside (), [] or {} belong to the key or value.
func ParsePairs(text string) ([]Pair, error) {
	s := &scanner{r: strings.NewReader(text)}

	c, err := s.next()
	if err != nil || c != '[' {
		return nil, s.fail("expected '['")
	}

	var (
		pairs []Pair
		cur   strings.Builder
		key   string
		inKey = true
		depth = 0
	)

	flush := func() error {
		item := strings.TrimSpace(cur.String())
		cur.Reset()
		if inKey {
			if item == "" && len(pairs) == 0 && key == "" {
				return nil
			}
			return s.fail("missing '->' in pair")
		}
		if key == "" || item == "" {
			return s.fail("empty key or value")
		}
		pairs = append(pairs, Pair{Key: key, Value: item})
		key, inKey = "", true
		return nil
	}

	for {
		r, err := s.read()
		if err != nil {
			return nil, s.fail("missing ']'")
		}
		switch {
		case r == '(' || r == '[' || r == '{':
			depth++
		case (r == ')' || r == '}') && depth > 0:
			depth--
		case r == ']' && depth > 0:
			depth--
		case r == ']':
			if err := flush(); err != nil {
				return nil, err
			}
			if c, err := s.next(); err == nil {
				return nil, s.fail("unexpected %q after ']'", c)
			}
			return pairs, nil
		case r == ',' && depth == 0:
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		case r == '-' && depth == 0 && inKey:
			n, err := s.read()
			if err != nil {
				return nil, s.fail("missing ']'")
			}
			if n != '>' {
				cur.WriteRune(r)
				s.unread(n)
				continue
			}
			key = strings.TrimSpace(cur.String())
			cur.Reset()
			inKey = false
			continue
		}
		cur.WriteRune(r)
	}
}

// AppendSet appends the {e1,...,en} form of seq to dst.
func AppendSet(dst []byte, seq iter.Seq[uint]) []byte {
	dst = append(dst, '{')
	first := true
	for e := range seq {
		if !first {
			dst = append(dst, ',')
		}
		first = false
		dst = strconv.AppendUint(dst, uint64(e), 10)
	}
	return append(dst, '}')
}
