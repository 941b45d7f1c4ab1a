package protocol

type Segment struct {
	Checksum uint16
	// Number of valid bytes in Payload. Zero marks end of file.
	Length int32
	// Data segments count up from 1. Acks carry the cumulative number of
	// data segments the receiver has flushed.
	Seq     int32
	Payload []byte
}

func NewDataSegment(seq int32, payload []byte) Segment {
	seg := Segment{
		Length:  int32(len(payload)),
		Seq:     seq,
		Payload: payload,
	}
	seg.Checksum = Checksum(seg)
	return seg
}

func NewEOFSegment(seq int32) Segment {
	return Segment{Length: LengthEOF, Seq: seq}
}

func NewHelloSegment() Segment {
	return Segment{Seq: HelloSeq}
}

func NewAckSegment(count int32) Segment {
	return Segment{Seq: count}
}

func (seg Segment) Header() SegmentHdr {
	length := seg.Length
	if length < 0 {
		length = 0
	}
	return NewSegmentHdr(seg.Checksum, length, seg.Seq)
}

// Data returns the valid part of the payload.
func (seg Segment) Data() []byte {
	n := int(seg.Length)
	if n <= 0 {
		return nil
	}
	if n > len(seg.Payload) {
		n = len(seg.Payload)
	}
	return seg.Payload[:n]
}

func (seg Segment) IsEOF() bool {
	return seg.Length == LengthEOF
}

func (seg Segment) IsCorrupt() bool {
	return seg.Length < 0
}

// Verify reports whether the embedded checksum matches the segment contents.
func (seg Segment) Verify() bool {
	if seg.Length < 0 || int(seg.Length) > len(seg.Payload) {
		return false
	}
	return Checksum(seg) == seg.Checksum
}

// WireSize is the number of bytes the segment occupies in a datagram.
func WireSize(seg Segment) int {
	if seg.Length <= 0 {
		return SegmentHdrSize
	}
	return SegmentHdrSize + int(seg.Length)
}

func (seg Segment) MarshalTo(b []byte) (int, error) {
	if int(seg.Length) > len(seg.Payload) {
		return 0, ErrTruncated
	}
	size := WireSize(seg)
	if len(b) < size {
		return 0, ErrShortBuffer
	}
	hdr := seg.Header()
	n := copy(b, hdr[:])
	n += copy(b[n:], seg.Data())
	return n, nil
}

func (seg Segment) Marshal() ([]byte, error) {
	b := make([]byte, WireSize(seg))
	n, err := seg.MarshalTo(b)
	if err != nil {
		return nil, err
	}
	return b[:n], nil
}

// Unmarshal parses a datagram. The returned payload aliases b.
func Unmarshal(b []byte) (Segment, error) {
	if len(b) < SegmentHdrSize {
		return Segment{}, ErrShortSegment
	}
	var hdr SegmentHdr
	copy(hdr[:], b)
	seg := Segment{
		Checksum: hdr.Checksum(),
		Length:   hdr.Len(),
		Seq:      hdr.Seq(),
	}
	if seg.Length < 0 {
		return seg, ErrInvalidLength
	}
	body := b[SegmentHdrSize:]
	if int64(seg.Length) > int64(len(body)) {
		return seg, ErrTruncated
	}
	seg.Payload = body[:seg.Length]
	return seg, nil
}
