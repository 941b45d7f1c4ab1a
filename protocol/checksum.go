package protocol

import "encoding/binary"

// Sum adds b as big-endian 16-bit words using one's-complement arithmetic.
// A trailing odd byte is taken as the high half of a word.
func Sum(b []byte) uint16 {
	sum := uint16(0)
	for len(b) >= 2 {
		sum = addOnes(sum, binary.BigEndian.Uint16(b))
		b = b[2:]
	}
	if len(b) > 0 {
		sum = addOnes(sum, uint16(b[0])<<8)
	}
	return sum
}

// Checksum covers the encoded segment from the end of the checksum field
// through the last payload byte. Segments without payload checksum to zero.
func Checksum(seg Segment) uint16 {
	if seg.Length <= 0 {
		return 0
	}
	hdr := seg.Header()
	// The covered header part is word aligned, so the payload can be summed
	// separately and folded in.
	return addOnes(Sum(hdr[ChecksumSize:]), Sum(seg.Data()))
}

func addOnes(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	if sum > 0xFFFF {
		sum = (sum & 0xFFFF) + 1
	}
	return uint16(sum)
}
