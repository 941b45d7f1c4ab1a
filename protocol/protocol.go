package protocol

import "errors"

const (
	// u16 Checksum
	ChecksumSize = 2
	// u16 Checksum + i32 Length + i32 Sequence
	SegmentHdrSize = 10
	// Reference payload capacity of a single segment
	DefaultPayloadSize = 10
	// Largest payload a single UDP datagram can carry after our header
	MaxPayloadSize = 65507 - SegmentHdrSize
	// Largest datagram a receiver should be prepared to read
	MaxSegmentSize = SegmentHdrSize + MaxPayloadSize
)

const (
	// Length of a segment marking end of file
	LengthEOF int32 = 0
	// Receiver-local marker for a segment that failed validation.
	// Never put on the wire.
	LengthCorrupt int32 = -1
)

// Sequence number carried by the receiver's hello segment
const HelloSeq int32 = 0

var (
	ErrShortSegment  = errors.New("segment shorter than header")
	ErrInvalidLength = errors.New("segment length is negative")
	ErrTruncated     = errors.New("segment payload truncated")
	ErrShortBuffer   = errors.New("buffer too small for segment")
)
