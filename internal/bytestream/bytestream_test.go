package bytestream_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galagoread/galagoread/internal/bytestream"
)

// TestVByteRoundTripsReferenceSequence exercises the terminator-bit
// convention against the worked sequence from the reference corpus,
// including values that span one, two, three, and four vbyte groups.
func TestVByteRoundTripsReferenceSequence(t *testing.T) {
	values := []uint64{0, 0xf, 0xef, 0xeef, 0xbeef, 0xdbeef, 0xadbeef, 0xeadbeef, 0xdeadbeef}

	var buf []byte
	for _, v := range values {
		buf = bytestream.WriteVByte(v, buf)
	}

	r := bytestream.New(buf)
	for _, want := range values {
		got, err := r.ReadVByte()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	require.True(t, r.EOF())
}

func TestVByteSingleByteValuesStayOneByte(t *testing.T) {
	for v := uint64(0); v < 0x80; v++ {
		buf := bytestream.WriteVByte(v, nil)
		require.Len(t, buf, 1)
		got, err := bytestream.New(buf).ReadVByte()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestReadVByteTruncatedBufferErrors(t *testing.T) {
	// 0x00 never sets the terminator bit, so a lone zero byte never
	// completes a vbyte.
	_, err := bytestream.New([]byte{0x00}).ReadVByte()
	require.Error(t, err)
}

// TestReadVByteContinuationUsesOppositePolarity confirms the lemur/Indri
// continuation convention (set bit means "more follows") decodes a value
// WriteVByte's terminator convention would read back differently, proving
// the two are genuinely distinct encodings rather than aliases.
func TestReadVByteContinuationUsesOppositePolarity(t *testing.T) {
	// 300 = 0b100101100 -> low7=0x2c, high continuation bit set; remaining
	// bits=0x02, terminated by a clear high bit.
	buf := []byte{0x2c | 0x80, 0x02}
	got, err := bytestream.New(buf).ReadVByteContinuation()
	require.NoError(t, err)
	require.Equal(t, uint64(300), got)
}

func TestFixedWidthReadsAreBigEndian(t *testing.T) {
	r := bytestream.New([]byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02})
	u32, err := r.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x100), u32)

	u64, err := r.ReadU64()
	require.NoError(t, err)
	require.Equal(t, uint64(2), u64)
	require.True(t, r.EOF())
}

func TestAdvancePastEndIsTruncated(t *testing.T) {
	r := bytestream.New([]byte{1, 2, 3})
	_, err := r.Advance(4)
	require.Error(t, err)
}

func TestSeekRepositionsCursor(t *testing.T) {
	r := bytestream.NewAt([]byte{10, 20, 30}, 1)
	require.Equal(t, 1, r.Tell())
	b, err := r.U8()
	require.NoError(t, err)
	require.Equal(t, byte(20), b)

	r.Seek(0)
	b, err = r.U8()
	require.NoError(t, err)
	require.Equal(t, byte(10), b)
}
