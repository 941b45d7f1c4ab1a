package transfer

import (
	"datagram-transfer/protocol"
	uio "datagram-transfer/util/io"
	"io"
)

// window buffers one window of received segments until it is flushed.
type window struct {
	slots []protocol.Segment
	next  int
}

type flushResult struct {
	segments  int
	bytes     int64
	discarded int
}

func newWindow(size, chunkSize int) *window {
	w := &window{slots: make([]protocol.Segment, size)}
	for i := range w.slots {
		w.slots[i].Payload = make([]byte, chunkSize)
	}
	return w
}

// push copies seg into the next free slot and returns its index.
func (w *window) push(seg protocol.Segment) int {
	slot := &w.slots[w.next]
	slot.Checksum = seg.Checksum
	slot.Seq = seg.Seq
	slot.Length = int32(copy(slot.Payload, seg.Data()))
	w.next++
	return w.next - 1
}

// pushCorrupt takes the next slot for a segment that failed validation.
func (w *window) pushCorrupt(seq int32) int {
	slot := &w.slots[w.next]
	slot.Checksum = 0
	slot.Seq = seq
	slot.Length = protocol.LengthCorrupt
	w.next++
	return w.next - 1
}

func (w *window) full() bool {
	return w.next >= len(w.slots)
}

func (w *window) len() int {
	return w.next
}

// flush writes the buffered payloads to sink in slot order. It stops at the
// first slot without data, which is either the end of file or a corrupt
// segment; nothing after a corrupt segment is written.
func (w *window) flush(sink io.Writer) (flushResult, error) {
	var res flushResult
	for i, seg := range w.slots[:w.next] {
		if seg.Length <= 0 {
			for _, rest := range w.slots[i+1 : w.next] {
				if rest.Length > 0 {
					res.discarded++
				}
			}
			break
		}
		if err := uio.WriteExact(sink, seg.Data()); err != nil {
			return res, err
		}
		res.segments++
		res.bytes += int64(seg.Length)
	}
	return res, nil
}

func (w *window) reset() {
	for i := range w.slots {
		w.slots[i].Length = protocol.LengthEOF
	}
	w.next = 0
}
