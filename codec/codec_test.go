package codec

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitblock/bitset"
	"github.com/hupe1980/bitblock/compressed"
	"github.com/hupe1980/bitblock/fixed"
	"github.com/hupe1980/bitblock/internal/resource"
	"github.com/hupe1980/bitblock/intset"
	"github.com/hupe1980/bitblock/testutil"
)

func TestFrame_RoundTrip(t *testing.T) {
	rng := testutil.NewRNG(3)
	sets := []intset.Reader{
		bitset.New(),
		bitset.FromSlice(0, 63, 64, 1000),
		bitset.FromSlice(rng.Elements(2000, 50000)...),
		compressed.FromSlice(0, 1000000),
		compressed.FromSlice(rng.SparseElements(100, 1<<24)...),
		fixed.MustFromSlice(1, 2, 63),
	}

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		for _, s := range sets {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, s, c))
			data := buf.Bytes()

			d, err := DecodeDense(bytes.NewReader(data))
			require.NoError(t, err)
			assert.True(t, intset.Equal(s, d), "%v dense", c)

			cs, err := DecodeCompressed(bytes.NewReader(data))
			require.NoError(t, err)
			assert.True(t, intset.Equal(s, cs), "%v compressed", c)

			got, err := Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.IsType(t, s, got)
			assert.True(t, intset.Equal(s, got))
		}
	}
}

func TestFrame_CompressionApplied(t *testing.T) {
	s := bitset.FromRange(0, 64*4000)
	for _, c := range []Compression{CompressionLZ4, CompressionZSTD} {
		var buf bytes.Buffer
		require.NoError(t, EncodeSet(&buf, s, KindDense, c))

		h, err := ReadHeader(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, c, h.Compression)
		assert.Equal(t, KindDense, h.Kind)
		assert.Less(t, h.StoredSize, h.RawSize)
	}
}

func TestFrame_IncompressibleStoredRaw(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeSet(&buf, fixed.MustFromSlice(5), KindFixed, CompressionZSTD))
	h, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, h.Compression)
	assert.Equal(t, h.RawSize, h.StoredSize)
}

func TestFrame_Layout(t *testing.T) {
	data, err := Marshal(compressed.FromSlice(1, 130), CompressionNone)
	require.NoError(t, err)

	assert.Equal(t, []byte("BBS1"), data[:4])
	assert.Equal(t, byte(KindCompressed), data[4])
	payload := data[headerSize:]
	// two blocks: index 0 then delta 2
	assert.Equal(t, byte(2), payload[0])
	assert.Equal(t, byte(0), payload[1])
	assert.Equal(t, uint64(1<<1), binary.LittleEndian.Uint64(payload[2:]))
	assert.Equal(t, byte(2), payload[10])
	assert.Equal(t, uint64(1<<2), binary.LittleEndian.Uint64(payload[11:]))
	assert.Len(t, payload, 19)
}

func TestDecodeFixed(t *testing.T) {
	data, err := Marshal(bitset.FromSlice(3, 60), CompressionNone)
	require.NoError(t, err)
	s, err := DecodeFixed(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, fixed.MustFromSlice(3, 60), s)

	data, err = Marshal(bitset.FromSlice(3, 64), CompressionNone)
	require.NoError(t, err)
	_, err = DecodeFixed(bytes.NewReader(data))
	assert.ErrorIs(t, err, fixed.ErrOutOfRange)

	_, err = Decode(bytes.NewReader(mustEncodeKind(t, bitset.FromSlice(64), KindFixed)))
	assert.ErrorIs(t, err, fixed.ErrOutOfRange)
}

func mustEncodeKind(t *testing.T, r intset.Reader, k Kind) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, EncodeSet(&buf, r, k, CompressionNone))
	return buf.Bytes()
}

func TestDecode_Corruption(t *testing.T) {
	good, err := Marshal(bitset.FromSlice(1, 2, 3, 500), CompressionNone)
	require.NoError(t, err)

	corrupt := func(fn func([]byte)) []byte {
		b := bytes.Clone(good)
		fn(b)
		return b
	}

	for name, data := range map[string][]byte{
		"empty":     nil,
		"truncated": good[:len(good)-3],
		"magic":     corrupt(func(b []byte) { b[0] = 'X' }),
		"checksum":  corrupt(func(b []byte) { b[len(b)-1] ^= 0xff }),
		"raw size":  corrupt(func(b []byte) { binary.LittleEndian.PutUint32(b[8:], 3) }),
	} {
		_, err := DecodeDense(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrCorrupt, name)
	}

	_, err = DecodeDense(bytes.NewReader(corrupt(func(b []byte) { b[4] = 9 })))
	assert.ErrorIs(t, err, ErrUnknownKind)
	_, err = DecodeDense(bytes.NewReader(corrupt(func(b []byte) { b[5] = 7 })))
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func TestWalkPayload_Rejects(t *testing.T) {
	block := func(dst []byte, delta uint64, w uint64) []byte {
		dst = binary.AppendUvarint(dst, delta)
		return binary.LittleEndian.AppendUint64(dst, w)
	}
	noop := func(int, uint64) error { return nil }

	zero := block([]byte{1}, 0, 0)
	assert.ErrorIs(t, walkPayload(zero, noop), ErrCorrupt)

	repeated := block(block([]byte{2}, 3, 1), 0, 1)
	assert.ErrorIs(t, walkPayload(repeated, noop), ErrCorrupt)

	trailing := append(block([]byte{1}, 0, 1), 0)
	assert.ErrorIs(t, walkPayload(trailing, noop), ErrCorrupt)

	tooMany := block([]byte{5}, 0, 1)
	assert.ErrorIs(t, walkPayload(tooMany, noop), ErrCorrupt)

	assert.NoError(t, walkPayload([]byte{0}, noop))
}

func TestEncode_UnknownKind(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, EncodeSet(&buf, bitset.New(), Kind(0), CompressionNone), ErrUnknownKind)
	assert.ErrorIs(t, EncodeSet(&buf, bitset.New(), KindDense, Compression(9)), ErrUnknownCompression)

	_, err := KindOf(nil)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestFrame_RateLimited(t *testing.T) {
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
	s := bitset.FromSlice(1, 99, 4096)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s, CompressionLZ4, WithRateLimit(context.Background(), rc)))
	d, err := DecodeDense(&buf, WithRateLimit(context.Background(), rc))
	require.NoError(t, err)
	assert.True(t, d.Equal(s))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	slow := resource.NewController(resource.Config{IOLimitBytesPerSec: 1})
	err = Encode(&bytes.Buffer{}, s, CompressionNone, WithRateLimit(ctx, slow))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}
	_, ok := ByName("gob")
	assert.False(t, ok)
}

func TestDocument_RoundTrip(t *testing.T) {
	for _, c := range []Codec{JSON{}, GoJSON{}, nil} {
		for _, s := range []intset.Reader{
			bitset.FromSlice(1, 2, 700),
			compressed.FromSlice(0, 1000000),
			fixed.MustFromSlice(4, 5),
			bitset.New(),
		} {
			data, err := MarshalDocument(c, s)
			require.NoError(t, err)

			got, err := UnmarshalDocument(c, data)
			require.NoError(t, err)
			assert.IsType(t, s, got)
			assert.True(t, intset.Equal(s, got))
		}
	}
}

func TestDocument_Shape(t *testing.T) {
	data, err := MarshalDocument(JSON{}, compressed.FromSlice(5, 1))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"compressed","elements":[1,5]}`, string(data))

	data, err = MarshalDocument(GoJSON{}, bitset.New())
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"dense","elements":[]}`, string(data))

	_, err = UnmarshalDocument(JSON{}, []byte(`{"kind":"tree","elements":[]}`))
	assert.ErrorIs(t, err, ErrUnknownKind)
	_, err = UnmarshalDocument(JSON{}, []byte(`{"kind":"fixed","elements":[64]}`))
	assert.ErrorIs(t, err, fixed.ErrOutOfRange)
	_, err = UnmarshalDocument(GoJSON{}, []byte(`{`))
	assert.Error(t, err)
}

func TestGoJSON_AppendDocument(t *testing.T) {
	out, err := GoJSON{}.AppendDocument([]byte("x="), compressed.FromSlice(1, 2))
	require.NoError(t, err)
	assert.Equal(t, `x={"kind":"compressed","elements":[1,2]}`, string(out))
}
