package codec

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/bitblock/bitset"
	"github.com/hupe1980/bitblock/compressed"
	"github.com/hupe1980/bitblock/fixed"
	"github.com/hupe1980/bitblock/internal/hash"
	"github.com/hupe1980/bitblock/internal/resource"
	"github.com/hupe1980/bitblock/intset"
)

// Frame layout, little endian:
//
//	magic        [4]byte "BBS1"
//	kind         uint8
//	compression  uint8
//	reserved     uint16
//	rawSize      uint32  payload size before compression
//	storedSize   uint32  payload size as stored
//	checksum     uint32  CRC32C of the stored payload
//	payload      [storedSize]byte
//
// The raw payload is uvarint(n) followed by n pairs of
// (uvarint block-index delta, uint64 block); the first delta is the absolute
// index and every stored block is non-zero.
const (
	headerSize = 20

	// MaxPayload bounds rawSize and storedSize when decoding.
	MaxPayload = 1 << 30

	maxBlockIndex = math.MaxInt32
)

var magic = [4]byte{'B', 'B', 'S', '1'}

var (
	// ErrCorrupt is returned for frames that fail validation.
	ErrCorrupt = errors.New("codec: corrupt frame")
	// ErrUnknownKind is returned for an unrecognized set kind.
	ErrUnknownKind = errors.New("codec: unknown set kind")
	// ErrUnknownCompression is returned for an unrecognized compression.
	ErrUnknownCompression = errors.New("codec: unknown compression")
)

// Kind records which representation a frame was written from.
type Kind uint8

const (
	KindDense      Kind = 1
	KindCompressed Kind = 2
	KindFixed      Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindCompressed:
		return "compressed"
	case KindFixed:
		return "fixed"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func (k Kind) valid() bool { return k >= KindDense && k <= KindFixed }

// KindOf returns the kind matching r's concrete type.
func KindOf(r intset.Reader) (Kind, error) {
	switch r.(type) {
	case *bitset.Set:
		return KindDense, nil
	case *compressed.Set:
		return KindCompressed, nil
	case fixed.Set64:
		return KindFixed, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnknownKind, r)
	}
}

// Header is the decoded frame header.
type Header struct {
	Kind        Kind
	Compression Compression
	RawSize     uint32
	StoredSize  uint32
	Checksum    uint32
}

type frameOptions struct {
	ctx context.Context
	rc  *resource.Controller
}

// Option configures encoding and decoding.
type Option func(*frameOptions)

// WithRateLimit throttles reads or writes through rc's IO budget; waiting
// stops when ctx is done.
func WithRateLimit(ctx context.Context, rc *resource.Controller) Option {
	return func(o *frameOptions) {
		o.ctx, o.rc = ctx, rc
	}
}

func newFrameOptions(opts []Option) frameOptions {
	o := frameOptions{ctx: context.Background()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// appendPayload encodes the non-zero blocks of r.
func appendPayload(dst []byte, r intset.Reader) []byte {
	var (
		body  []byte
		n     uint64
		prev  = -1
		block [8]byte
	)
	for bi, w := range intset.Blocks(r) {
		delta := bi
		if prev >= 0 {
			delta = bi - prev
		}
		body = binary.AppendUvarint(body, uint64(delta))
		binary.LittleEndian.PutUint64(block[:], w)
		body = append(body, block[:]...)
		prev = bi
		n++
	}
	dst = binary.AppendUvarint(dst, n)
	return append(dst, body...)
}

// EncodeSet writes r as one frame. kind must match r's representation.
func EncodeSet(w io.Writer, r intset.Reader, kind Kind, c Compression, opts ...Option) error {
	if !kind.valid() {
		return fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
	o := newFrameOptions(opts)

	raw := appendPayload(nil, r)
	if len(raw) > MaxPayload {
		return fmt.Errorf("codec: payload of %d bytes exceeds limit", len(raw))
	}
	stored, applied, err := compress(raw, c)
	if err != nil {
		return err
	}

	var hdr [headerSize]byte
	copy(hdr[0:4], magic[:])
	hdr[4] = byte(kind)
	hdr[5] = byte(applied)
	binary.LittleEndian.PutUint32(hdr[8:], uint32(len(raw)))
	binary.LittleEndian.PutUint32(hdr[12:], uint32(len(stored)))
	binary.LittleEndian.PutUint32(hdr[16:], hash.CRC32C(stored))

	if o.rc != nil {
		w = resource.NewRateLimitedWriter(o.ctx, w, o.rc)
	}
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err = w.Write(stored)
	return err
}

// Encode writes r with the kind matching its concrete type.
func Encode(w io.Writer, r intset.Reader, c Compression, opts ...Option) error {
	kind, err := KindOf(r)
	if err != nil {
		return err
	}
	return EncodeSet(w, r, kind, c, opts...)
}

// Marshal returns the frame bytes for r.
func Marshal(r intset.Reader, c Compression) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, r, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadHeader reads and validates a frame header.
func ReadHeader(r io.Reader) (Header, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Header{}, fmt.Errorf("%w: header: %w", ErrCorrupt, err)
	}
	if !bytes.Equal(hdr[0:4], magic[:]) {
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrCorrupt, hdr[0:4])
	}
	h := Header{
		Kind:        Kind(hdr[4]),
		Compression: Compression(hdr[5]),
		RawSize:     binary.LittleEndian.Uint32(hdr[8:]),
		StoredSize:  binary.LittleEndian.Uint32(hdr[12:]),
		Checksum:    binary.LittleEndian.Uint32(hdr[16:]),
	}
	if !h.Kind.valid() {
		return Header{}, fmt.Errorf("%w: %v", ErrUnknownKind, h.Kind)
	}
	if h.Compression > CompressionZSTD {
		return Header{}, fmt.Errorf("%w: %v", ErrUnknownCompression, h.Compression)
	}
	if h.RawSize > MaxPayload || h.StoredSize > MaxPayload {
		return Header{}, fmt.Errorf("%w: payload size out of range", ErrCorrupt)
	}
	return h, nil
}

// readFrame returns the header and the decompressed payload.
func readFrame(r io.Reader, opts []Option) (Header, []byte, error) {
	o := newFrameOptions(opts)
	if o.rc != nil {
		r = resource.NewRateLimitedReader(o.ctx, r, o.rc)
	}

	h, err := ReadHeader(r)
	if err != nil {
		return Header{}, nil, err
	}
	stored := make([]byte, h.StoredSize)
	if _, err := io.ReadFull(r, stored); err != nil {
		return Header{}, nil, fmt.Errorf("%w: payload: %w", ErrCorrupt, err)
	}
	if sum := hash.CRC32C(stored); sum != h.Checksum {
		return Header{}, nil, fmt.Errorf("%w: checksum %08x, want %08x", ErrCorrupt, sum, h.Checksum)
	}
	raw, err := decompress(stored, h.Compression, int(h.RawSize))
	if err != nil {
		return Header{}, nil, err
	}
	return h, raw, nil
}

// walkPayload calls fn for every (block index, block) pair.
func walkPayload(raw []byte, fn func(bi int, w uint64) error) error {
	n, k := binary.Uvarint(raw)
	if k <= 0 {
		return fmt.Errorf("%w: block count", ErrCorrupt)
	}
	raw = raw[k:]
	// each pair takes at least 9 bytes
	if n > uint64(len(raw)/9) {
		return fmt.Errorf("%w: %d blocks in %d bytes", ErrCorrupt, n, len(raw))
	}

	bi := -1
	for i := uint64(0); i < n; i++ {
		delta, k := binary.Uvarint(raw)
		if k <= 0 || len(raw) < k+8 {
			return fmt.Errorf("%w: truncated block %d", ErrCorrupt, i)
		}
		if i > 0 && delta == 0 {
			return fmt.Errorf("%w: block indices not ascending", ErrCorrupt)
		}
		if delta > maxBlockIndex || uint64(bi+1)+delta > maxBlockIndex {
			return fmt.Errorf("%w: block index out of range", ErrCorrupt)
		}
		if i == 0 {
			bi = int(delta)
		} else {
			bi += int(delta)
		}
		w := binary.LittleEndian.Uint64(raw[k:])
		if w == 0 {
			return fmt.Errorf("%w: zero block %d", ErrCorrupt, bi)
		}
		if err := fn(bi, w); err != nil {
			return err
		}
		raw = raw[k+8:]
	}
	if len(raw) != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(raw))
	}
	return nil
}

// DecodeDense reads one frame of any kind into a dense set.
func DecodeDense(r io.Reader, opts ...Option) (*bitset.Set, error) {
	_, raw, err := readFrame(r, opts)
	if err != nil {
		return nil, err
	}
	d := bitset.New()
	err = walkPayload(raw, func(bi int, w uint64) error {
		d.SetBlock(bi, w)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// DecodeCompressed reads one frame of any kind into a compressed set.
func DecodeCompressed(r io.Reader, opts ...Option) (*compressed.Set, error) {
	_, raw, err := readFrame(r, opts)
	if err != nil {
		return nil, err
	}
	c := compressed.New()
	err = walkPayload(raw, func(bi int, w uint64) error {
		c.SetBlock(bi, w)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DecodeFixed reads one frame of any kind into a Set64. It fails with
// fixed.ErrOutOfRange when the set holds an element >= 64.
func DecodeFixed(r io.Reader, opts ...Option) (fixed.Set64, error) {
	_, raw, err := readFrame(r, opts)
	if err != nil {
		return 0, err
	}
	var s fixed.Set64
	err = walkPayload(raw, func(bi int, w uint64) error {
		if bi != 0 {
			return fmt.Errorf("codec: block %d: %w", bi, fixed.ErrOutOfRange)
		}
		s = fixed.Set64(w)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return s, nil
}

// Decode reads one frame into the representation recorded in its header.
func Decode(r io.Reader, opts ...Option) (intset.Reader, error) {
	h, raw, err := readFrame(r, opts)
	if err != nil {
		return nil, err
	}
	c := compressed.New()
	if err := walkPayload(raw, func(bi int, w uint64) error {
		c.SetBlock(bi, w)
		return nil
	}); err != nil {
		return nil, err
	}
	switch h.Kind {
	case KindDense:
		return intset.ToDense(c), nil
	case KindFixed:
		f, err := intset.ToFixed(c)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return c, nil
	}
}
