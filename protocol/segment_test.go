package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSegment(t *testing.T) {
	t.Run("data", func(t *testing.T) {
		require := require.New(t)
		seg := NewDataSegment(3, []byte("hello"))
		require.Equal(int32(5), seg.Length)
		require.Equal(int32(3), seg.Seq)
		require.Equal([]byte("hello"), seg.Data())
		require.False(seg.IsEOF())
		require.True(seg.Verify())
	})

	t.Run("eof", func(t *testing.T) {
		require := require.New(t)
		seg := NewEOFSegment(4)
		require.True(seg.IsEOF())
		require.Nil(seg.Data())
		require.True(seg.Verify())
		require.Equal(SegmentHdrSize, WireSize(seg))
	})

	t.Run("corrupt", func(t *testing.T) {
		require := require.New(t)
		seg := NewDataSegment(1, []byte("x"))
		seg.Length = LengthCorrupt
		require.True(seg.IsCorrupt())
		require.False(seg.Verify())
		require.Nil(seg.Data())
	})
}

func TestWireSize(t *testing.T) {
	require := require.New(t)
	payload := make([]byte, DefaultPayloadSize)
	for n := 0; n <= DefaultPayloadSize; n++ {
		seg := NewDataSegment(1, payload[:n])
		require.Equal(SegmentHdrSize+n, WireSize(seg))
		b, err := seg.Marshal()
		require.Nil(err)
		require.Len(b, WireSize(seg))
	}
	// Capacity beyond length is never sent
	seg := Segment{Length: 2, Payload: payload}
	b, err := seg.Marshal()
	require.Nil(err)
	require.Len(b, SegmentHdrSize+2)
}

func TestMarshal(t *testing.T) {
	t.Run("layout", func(t *testing.T) {
		require := require.New(t)
		seg := NewDataSegment(1, []byte("ab"))
		b, err := seg.Marshal()
		require.Nil(err)
		expected := []byte{0x61, 0x65, 0, 0, 0, 2, 0, 0, 0, 1, 'a', 'b'}
		require.Equal(expected, b)
	})

	t.Run("short buffer", func(t *testing.T) {
		require := require.New(t)
		seg := NewDataSegment(1, []byte("abcdef"))
		_, err := seg.MarshalTo(make([]byte, SegmentHdrSize+5))
		require.Equal(ErrShortBuffer, err)
	})

	t.Run("length beyond payload", func(t *testing.T) {
		require := require.New(t)
		seg := Segment{Length: 4, Payload: []byte("ab")}
		_, err := seg.Marshal()
		require.Equal(ErrTruncated, err)
	})
}

func TestUnmarshal(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		require := require.New(t)
		seg := NewDataSegment(77, []byte("0123456789"))
		b, err := seg.Marshal()
		require.Nil(err)
		decoded, err := Unmarshal(b)
		require.Nil(err)
		require.Equal(seg.Checksum, decoded.Checksum)
		require.Equal(seg.Length, decoded.Length)
		require.Equal(seg.Seq, decoded.Seq)
		require.Equal(seg.Data(), decoded.Data())
	})

	t.Run("trailing bytes ignored", func(t *testing.T) {
		require := require.New(t)
		b, err := NewDataSegment(1, []byte("abc")).Marshal()
		require.Nil(err)
		decoded, err := Unmarshal(append(b, 0xAA, 0xBB))
		require.Nil(err)
		require.Equal([]byte("abc"), decoded.Data())
		require.True(decoded.Verify())
	})

	t.Run("errors", func(t *testing.T) {
		require := require.New(t)
		_, err := Unmarshal(make([]byte, SegmentHdrSize-1))
		require.Equal(ErrShortSegment, err)

		hdr := NewSegmentHdr(0, -5, 1)
		_, err = Unmarshal(hdr[:])
		require.Equal(ErrInvalidLength, err)

		hdr = NewSegmentHdr(0, 4, 1)
		_, err = Unmarshal(append(hdr[:], 'a', 'b'))
		require.Equal(ErrTruncated, err)
	})
}
