package transfer

import (
	"datagram-transfer/protocol"
	"net"
	"time"

	pool "github.com/libp2p/go-buffer-pool"
	"github.com/sirupsen/logrus"
)

// endpoint owns the datagram socket of one side of a transfer.
type endpoint struct {
	conn net.PacketConn
	cfg  Config
	log  logrus.FieldLogger

	readBuf  []byte
	writeBuf []byte
}

func newEndpoint(conn net.PacketConn, cfg Config, role string) *endpoint {
	cfg = sanitizeConfig(cfg)
	return &endpoint{
		conn: conn,
		cfg:  cfg,
		log: cfg.Logger.WithFields(logrus.Fields{
			"role":  role,
			"local": conn.LocalAddr(),
		}),
		// Peers may send anything, so be ready for the largest datagram
		readBuf:  pool.Get(protocol.MaxSegmentSize),
		writeBuf: pool.Get(protocol.SegmentHdrSize + cfg.ChunkSize),
	}
}

func (e *endpoint) Addr() net.Addr {
	return e.conn.LocalAddr()
}

// read blocks for one datagram. The returned bytes are only valid until the
// next read.
func (e *endpoint) read(op string) ([]byte, net.Addr, error) {
	if e.cfg.Timeout > 0 {
		deadline := time.Now().Add(e.cfg.Timeout)
		if err := e.conn.SetReadDeadline(deadline); err != nil {
			return nil, nil, transportError(op, err)
		}
	}
	n, addr, err := e.conn.ReadFrom(e.readBuf)
	if err != nil {
		return nil, nil, transportError(op, err)
	}
	return e.readBuf[:n], addr, nil
}

func (e *endpoint) write(op string, seg protocol.Segment, raddr net.Addr) error {
	n, err := seg.MarshalTo(e.writeBuf)
	if err != nil {
		return opError(ErrTransport, op, err)
	}
	if _, err := e.conn.WriteTo(e.writeBuf[:n], raddr); err != nil {
		return transportError(op, err)
	}
	return nil
}

func (e *endpoint) Close() error {
	err := e.conn.Close()
	if e.readBuf != nil {
		pool.Put(e.readBuf)
		pool.Put(e.writeBuf)
		e.readBuf, e.writeBuf = nil, nil
	}
	return err
}
