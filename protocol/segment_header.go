package protocol

import "encoding/binary"

type SegmentHdr [SegmentHdrSize]byte

func NewSegmentHdr(checksum uint16, length, seq int32) SegmentHdr {
	var hdr SegmentHdr
	binary.BigEndian.PutUint16(hdr[:], checksum)
	binary.BigEndian.PutUint32(hdr[2:], uint32(length))
	binary.BigEndian.PutUint32(hdr[6:], uint32(seq))
	return hdr
}

func (hdr SegmentHdr) Checksum() uint16 {
	return binary.BigEndian.Uint16(hdr[:])
}

func (hdr SegmentHdr) Len() int32 {
	return int32(binary.BigEndian.Uint32(hdr[2:]))
}

func (hdr SegmentHdr) Seq() int32 {
	return int32(binary.BigEndian.Uint32(hdr[6:]))
}
