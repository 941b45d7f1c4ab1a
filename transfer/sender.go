package transfer

import (
	"context"
	"datagram-transfer/protocol"
	uio "datagram-transfer/util/io"
	"io"
	"net"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Sender serves a single file to the first receiver that says hello.
type Sender struct {
	*endpoint

	peer    net.Addr
	limiter *rate.Limiter
	stats   Stats
}

// Listen binds a local endpoint for a sender.
func Listen(network, addr string, cfg Config) (*Sender, error) {
	conn, err := net.ListenPacket(network, addr)
	if err != nil {
		return nil, opError(ErrTransportSetup, "bind", err)
	}
	return NewSender(conn, cfg), nil
}

func NewSender(conn net.PacketConn, cfg Config) *Sender {
	s := &Sender{endpoint: newEndpoint(conn, cfg, "sender")}
	if s.cfg.SendRate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(s.cfg.SendRate), 1)
	}
	return s
}

// Peer returns the receiver address learned from its hello.
func (s *Sender) Peer() net.Addr {
	return s.peer
}

func (s *Sender) Stats() Stats {
	return s.stats
}

func (s *Sender) SendFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return opError(ErrSourceOpen, "open source", err)
	}
	defer f.Close()
	return s.Send(f)
}

// Send waits for a receiver's hello, then streams src to it one window at a
// time. Each full window blocks for one acknowledgement. The terminal segment
// is not acknowledged.
func (s *Sender) Send(src io.Reader) error {
	if err := s.awaitHello(); err != nil {
		return err
	}
	chunk := make([]byte, s.cfg.ChunkSize)
	seq := int32(0)
	for {
		for slot := 0; slot < s.cfg.WindowSize; slot++ {
			n, err := uio.ReadChunk(src, chunk)
			if err != nil {
				return opError(ErrSourceRead, "read source", err)
			}
			seq++
			if n == 0 {
				return s.sendEOF(seq)
			}
			if err := s.sendData(seq, slot, chunk[:n]); err != nil {
				return err
			}
		}
		if err := s.awaitAck(); err != nil {
			return err
		}
	}
}

func (s *Sender) awaitHello() error {
	s.log.Debug("Waiting for hello")
	b, addr, err := s.read("receive hello")
	if err != nil {
		return err
	}
	s.peer = addr
	s.log = s.log.WithField("peer", addr)
	s.log.WithField("size", len(b)).Info("Hello received")
	return nil
}

func (s *Sender) awaitAck() error {
	b, _, err := s.read("receive ack")
	if err != nil {
		return err
	}
	s.stats.Acks++
	logger := s.log.WithField("acks", s.stats.Acks)
	ack, err := protocol.Unmarshal(b)
	if err != nil {
		logger.WithError(err).Debug("Received unparseable ack")
		return nil
	}
	logger.WithField("acked", ack.Seq).Debug("Received ack")
	return nil
}

func (s *Sender) sendData(seq int32, slot int, data []byte) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(context.Background()); err != nil {
			return opError(ErrTransport, "pace", err)
		}
	}
	seg := protocol.NewDataSegment(seq, data)
	if err := s.write("send segment", seg, s.peer); err != nil {
		return err
	}
	s.stats.Segments++
	s.stats.Bytes += int64(len(data))
	s.log.WithFields(logrus.Fields{
		"seq":      seq,
		"slot":     slot,
		"length":   seg.Length,
		"checksum": seg.Checksum,
	}).Debug("Sent segment")
	return nil
}

func (s *Sender) sendEOF(seq int32) error {
	if err := s.write("send eof", protocol.NewEOFSegment(seq), s.peer); err != nil {
		return err
	}
	s.log.WithFields(s.stats.Fields()).Info("Transfer complete")
	return nil
}

// SendFile binds addr, serves path to one receiver and releases everything.
func SendFile(network, addr, path string, cfg Config) (Stats, error) {
	s, err := Listen(network, addr, cfg)
	if err != nil {
		return Stats{}, err
	}
	defer s.Close()
	err = s.SendFile(path)
	return s.stats, err
}
