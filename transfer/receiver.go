package transfer

import (
	"datagram-transfer/protocol"
	"io"
	"net"
	"os"

	"github.com/sirupsen/logrus"
)

// Receiver fetches a single file from a sender at a known address.
type Receiver struct {
	*endpoint

	raddr  net.Addr
	window *window
	stats  Stats
}

// Dial binds an ephemeral local endpoint for a receiver of the sender at addr.
func Dial(network, addr string, cfg Config) (*Receiver, error) {
	raddr, err := net.ResolveUDPAddr(network, addr)
	if err != nil {
		return nil, opError(ErrTransportSetup, "resolve", err)
	}
	conn, err := net.ListenUDP(network, nil)
	if err != nil {
		return nil, opError(ErrTransportSetup, "bind", err)
	}
	return NewReceiver(conn, raddr, cfg), nil
}

func NewReceiver(conn net.PacketConn, raddr net.Addr, cfg Config) *Receiver {
	r := &Receiver{
		endpoint: newEndpoint(conn, cfg, "receiver"),
		raddr:    raddr,
	}
	r.log = r.log.WithField("peer", raddr)
	r.window = newWindow(r.cfg.WindowSize, r.cfg.ChunkSize)
	return r
}

func (r *Receiver) Stats() Stats {
	return r.stats
}

func (r *Receiver) ReceiveFile(path string) (n int64, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, opError(ErrSinkOpen, "open sink", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = opError(ErrSinkWrite, "close sink", cerr)
		}
	}()
	return r.Receive(f)
}

// Receive says hello to the sender and writes everything it sends to sink,
// returning the number of bytes written. Each full window, and the end of
// file, is flushed and acknowledged once.
func (r *Receiver) Receive(sink io.Writer) (int64, error) {
	if err := r.write("send hello", protocol.NewHelloSegment(), r.raddr); err != nil {
		return 0, err
	}
	r.log.Debug("Hello sent")
	for {
		eof, err := r.receiveSegment()
		if err != nil {
			return r.stats.Bytes, err
		}
		if eof || r.window.full() {
			if err := r.flush(sink); err != nil {
				return r.stats.Bytes, err
			}
			if err := r.sendAck(); err != nil {
				return r.stats.Bytes, err
			}
		}
		if eof {
			r.log.WithFields(r.stats.Fields()).Info("Transfer complete")
			return r.stats.Bytes, nil
		}
	}
}

// receiveSegment reads one datagram into the next window slot and reports
// whether it marks the end of file.
func (r *Receiver) receiveSegment() (bool, error) {
	b, _, err := r.read("receive segment")
	if err != nil {
		return false, err
	}
	seg, err := protocol.Unmarshal(b)
	logger := r.log.WithFields(logrus.Fields{
		"seq":    seg.Seq,
		"length": seg.Length,
		"slot":   r.window.len(),
	})
	switch {
	case err != nil:
		logger.WithError(err).Warn("Dropping malformed segment")
		r.corrupt(seg.Seq)
		return false, nil
	case int(seg.Length) > r.cfg.ChunkSize:
		logger.WithField("capacity", r.cfg.ChunkSize).Warn("Dropping oversized segment")
		r.corrupt(seg.Seq)
		return false, nil
	case !seg.Verify():
		logger.WithFields(logrus.Fields{
			"expected": seg.Checksum,
			"actual":   protocol.Checksum(seg),
		}).WithError(ErrIntegrityMismatch).Warn("Dropping corrupt segment")
		r.corrupt(seg.Seq)
		return seg.IsEOF(), nil
	}
	r.window.push(seg)
	logger.Debug("Received segment")
	return seg.IsEOF(), nil
}

func (r *Receiver) corrupt(seq int32) {
	r.window.pushCorrupt(seq)
	r.stats.Corrupted++
}

func (r *Receiver) flush(sink io.Writer) error {
	res, err := r.window.flush(sink)
	r.stats.Segments += res.segments
	r.stats.Bytes += res.bytes
	r.stats.Discarded += res.discarded
	if err != nil {
		return opError(ErrSinkWrite, "write sink", err)
	}
	if res.discarded > 0 {
		r.log.WithField("discarded", res.discarded).Warn("Discarded segments after corruption")
	}
	r.log.WithFields(logrus.Fields{
		"segments": res.segments,
		"bytes":    res.bytes,
	}).Debug("Flushed window")
	return nil
}

func (r *Receiver) sendAck() error {
	ack := protocol.NewAckSegment(int32(r.stats.Segments))
	if err := r.write("send ack", ack, r.raddr); err != nil {
		return err
	}
	r.stats.Acks++
	r.window.reset()
	r.log.WithField("acked", ack.Seq).Debug("Sent ack")
	return nil
}

// ReceiveFile asks the sender at addr for its file, writes it to path and
// releases everything.
func ReceiveFile(network, addr, path string, cfg Config) (Stats, error) {
	r, err := Dial(network, addr, cfg)
	if err != nil {
		return Stats{}, err
	}
	defer r.Close()
	_, err = r.ReceiveFile(path)
	return r.stats, err
}
