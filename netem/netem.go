package netem

import (
	uatomic "datagram-transfer/util/atomic"
	"errors"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var ErrNetemClosed = errors.New("netem closed")

var log logrus.FieldLogger = &logrus.Logger{
	Out:   os.Stderr,
	Level: logrus.WarnLevel,
	Formatter: &logrus.TextFormatter{
		FullTimestamp: true,
	},
}

// SetLogger replaces the logger used to report emulated faults.
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		log = l
	}
}

type Config struct {
	// Datagram at every nth would be discarded on read to emulate packet loss.
	// Zero value means no emulation of packet loss.
	ReadLossNth int
	// Datagram at every nth would be delivered twice on read.
	// Zero value means no emulation of packet duplication.
	ReadDuplicateNth int
	// Datagram at every nth would have its last bit flipped on read.
	// Zero value means no emulation of corruption.
	ReadCorruptNth int

	// Datagram at every nth would be discarded on write to emulate packet loss.
	// Zero value means no emulation of packet loss.
	WriteLossNth int
	// Datagram at every nth would be sent twice on write.
	// Zero value means no emulation of packet duplication.
	WriteDuplicateNth int
	// Datagram at every nth would be held back and sent after the next one.
	// Zero value means no emulation of packet reordering.
	WriteReorderNth int
	// Datagram at every nth would have its last bit flipped on write.
	// Zero value means no emulation of corruption.
	WriteCorruptNth int
}

type datagram struct {
	data []byte
	addr net.Addr
}

// Netem wraps a datagram endpoint and injects deterministic faults.
type Netem struct {
	net.PacketConn

	readLossNth      uint32
	readDuplicateNth uint32
	readCorruptNth   uint32

	writeLossNth      uint32
	writeDuplicateNth uint32
	writeReorderNth   uint32
	writeCorruptNth   uint32

	readCounter  uint32
	writeCounter uint32

	// Duplicates waiting to be read again
	pending []datagram
	// Datagram held back to emulate reordering
	held *datagram

	readLock  sync.Mutex
	writeLock sync.Mutex

	closed uatomic.Bool
}

func New(conn net.PacketConn, cfg Config) *Netem {
	ne := &Netem{PacketConn: conn}
	ne.Update(cfg)
	return ne
}

func (ne *Netem) ReadFrom(b []byte) (int, net.Addr, error) {
	if ne.closed.Get() {
		return 0, nil, ErrNetemClosed
	}
	ne.readLock.Lock()
	defer ne.readLock.Unlock()
	if len(ne.pending) > 0 {
		dg := ne.pending[0]
		ne.pending = ne.pending[1:]
		return copy(b, dg.data), dg.addr, nil
	}
	for {
		n, addr, err := ne.PacketConn.ReadFrom(b)
		if err != nil {
			return n, addr, err
		}

		rc := atomic.AddUint32(&ne.readCounter, 1)
		logger := log.WithFields(logrus.Fields{
			"op":      "read",
			"counter": rc,
		})

		if nth(rc, &ne.readLossNth) {
			logger.Debug("Simulating packet loss")
			continue
		}
		if nth(rc, &ne.readCorruptNth) && n > 0 {
			logger.Debug("Simulating packet corruption")
			b[n-1] ^= 1
		}
		if nth(rc, &ne.readDuplicateNth) {
			logger.Debug("Simulating packet duplication")
			data := make([]byte, n)
			copy(data, b[:n])
			ne.pending = append(ne.pending, datagram{data, addr})
		}
		logger.Debugf("Read %d bytes", n)
		return n, addr, nil
	}
}

func (ne *Netem) WriteTo(b []byte, addr net.Addr) (int, error) {
	if ne.closed.Get() {
		return 0, ErrNetemClosed
	}
	ne.writeLock.Lock()
	defer ne.writeLock.Unlock()

	wc := atomic.AddUint32(&ne.writeCounter, 1)
	logger := log.WithFields(logrus.Fields{
		"op":      "write",
		"counter": wc,
	})

	if nth(wc, &ne.writeLossNth) {
		logger.Debug("Simulating packet loss")
		return len(b), nil
	}

	data := b
	if nth(wc, &ne.writeCorruptNth) && len(b) > 0 {
		logger.Debug("Simulating packet corruption")
		data = make([]byte, len(b))
		copy(data, b)
		data[len(data)-1] ^= 1
	}

	if nth(wc, &ne.writeReorderNth) && ne.held == nil {
		logger.Debug("Simulating packet reordering")
		held := make([]byte, len(data))
		copy(held, data)
		ne.held = &datagram{held, addr}
		return len(b), nil
	}

	if _, err := ne.PacketConn.WriteTo(data, addr); err != nil {
		return 0, err
	}
	logger.Debugf("Wrote %d bytes", len(data))

	if nth(wc, &ne.writeDuplicateNth) {
		logger.Debug("Simulating packet duplication")
		if _, err := ne.PacketConn.WriteTo(data, addr); err != nil {
			return 0, err
		}
	}

	if held := ne.held; held != nil {
		ne.held = nil
		if _, err := ne.PacketConn.WriteTo(held.data, held.addr); err != nil {
			return 0, err
		}
	}
	return len(b), nil
}

// Update the config for network emulation.
// May take effect on the next read/write operations.
func (ne *Netem) Update(cfg Config) {
	atomic.StoreUint32(&ne.readLossNth, uint32(cfg.ReadLossNth))
	atomic.StoreUint32(&ne.readDuplicateNth, uint32(cfg.ReadDuplicateNth))
	atomic.StoreUint32(&ne.readCorruptNth, uint32(cfg.ReadCorruptNth))
	atomic.StoreUint32(&ne.writeLossNth, uint32(cfg.WriteLossNth))
	atomic.StoreUint32(&ne.writeDuplicateNth, uint32(cfg.WriteDuplicateNth))
	atomic.StoreUint32(&ne.writeReorderNth, uint32(cfg.WriteReorderNth))
	atomic.StoreUint32(&ne.writeCorruptNth, uint32(cfg.WriteCorruptNth))
	atomic.StoreUint32(&ne.readCounter, 0)
	atomic.StoreUint32(&ne.writeCounter, 0)
}

func (ne *Netem) Reset() {
	ne.Update(Config{})
}

func (ne *Netem) Close() error {
	if ne.closed.Swap(true) {
		return ErrNetemClosed
	}
	return ne.PacketConn.Close()
}

func nth(counter uint32, n *uint32) bool {
	v := atomic.LoadUint32(n)
	return v > 0 && counter%v == 0
}
