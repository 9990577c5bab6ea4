package wire_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solarbank/accountsdb/wire"
)

func TestDecoderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := wire.NewEncoder(&buf)
	require.NoError(t, enc.WriteUint8(7))
	require.NoError(t, enc.WriteBool(true))
	require.NoError(t, enc.WriteUint32(0xdeadbeef))
	require.NoError(t, enc.WriteUint64(0x0102030405060708))
	require.NoError(t, enc.WriteString("hello"))

	dec := wire.NewDecoder(&buf)
	u8, err := dec.ReadUint8()
	require.NoError(t, err)
	require.Equal(t, uint8(7), u8)

	b, err := dec.ReadBool()
	require.NoError(t, err)
	require.True(t, b)

	u32, err := dec.ReadUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xdeadbeef), u32)

	u64, err := dec.ReadUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), u64)

	s, err := dec.ReadString()
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}

func TestDecoderTrailingBytesTolerated(t *testing.T) {
	var buf bytes.Buffer
	enc := wire.NewEncoder(&buf)
	require.NoError(t, enc.WriteUint64(42))
	buf.Write([]byte{0xff, 0xff, 0xff})

	dec := wire.NewDecoder(&buf)
	v, err := dec.ReadUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(42), v)
	// Trailing bytes are simply never read; no error for their presence.
}

func TestDecoderUnexpectedEOF(t *testing.T) {
	dec := wire.NewDecoder(bytes.NewReader([]byte{1, 2, 3}))
	_, err := dec.ReadUint64()
	require.Error(t, err)
	var decErr *wire.DecodeError
	require.ErrorAs(t, err, &decErr)
	require.Equal(t, wire.KindUnexpectedEOF, decErr.Kind)
}

func TestDecoderSizeLimitOnDeclaredLength(t *testing.T) {
	var buf bytes.Buffer
	enc := wire.NewEncoder(&buf)
	require.NoError(t, enc.WriteUint64(wire.MaxStreamSize+1))

	dec := wire.NewDecoder(&buf)
	_, err := dec.ReadLen()
	require.Error(t, err)
	var decErr *wire.DecodeError
	require.ErrorAs(t, err, &decErr)
	require.Equal(t, wire.KindSizeLimit, decErr.Kind)
}

func TestDecoderInvalidBool(t *testing.T) {
	dec := wire.NewDecoder(bytes.NewReader([]byte{2}))
	_, err := dec.ReadBool()
	require.Error(t, err)
	var decErr *wire.DecodeError
	require.ErrorAs(t, err, &decErr)
	require.Equal(t, wire.KindMalformed, decErr.Kind)
}
