package mocks

import (
	"datagram-transfer/util"
	uatomic "datagram-transfer/util/atomic"
	"io"
	"net"
	"os"
	"sync/atomic"
	"time"
)

const defaultBacklog = 1024

type Addr string

func (a Addr) Network() string {
	return "mock"
}

func (a Addr) String() string {
	return string(a)
}

type datagram struct {
	data []byte
	from net.Addr
}

type packetConn struct {
	laddr net.Addr
	peer  *packetConn

	readQueue    chan datagram
	readNotify   chan struct{}
	readDeadline atomic.Value

	die    chan struct{}
	closed uatomic.Bool
}

// PacketConn returns two in-memory datagram endpoints wired to each other.
// Like UDP, datagrams addressed elsewhere or overflowing the peer's backlog are
// silently dropped.
func PacketConn() (net.PacketConn, net.PacketConn) {
	c1 := newPacketConn(Addr("mock:1"), defaultBacklog)
	c2 := newPacketConn(Addr("mock:2"), defaultBacklog)
	c1.peer = c2
	c2.peer = c1
	return c1, c2
}

func newPacketConn(laddr net.Addr, backlog int) *packetConn {
	return &packetConn{
		laddr:      laddr,
		readQueue:  make(chan datagram, backlog),
		readNotify: make(chan struct{}),
		die:        make(chan struct{}),
	}
}

func (c *packetConn) ReadFrom(b []byte) (int, net.Addr, error) {
	if len(b) <= 0 {
		return 0, nil, io.ErrShortBuffer
	}
	if c.closed.Get() {
		return 0, nil, io.ErrClosedPipe
	}
	for {
		n, addr, retry, err := c.readOnce(b)
		if !retry {
			return n, addr, err
		}
	}
}

// readOnce waits for a datagram until the current deadline. It asks for a
// retry when the deadline is changed while waiting.
func (c *packetConn) readOnce(b []byte) (int, net.Addr, bool, error) {
	var deadline <-chan time.Time
	if t, ok := c.readDeadline.Load().(time.Time); ok && !t.IsZero() {
		timer := time.NewTimer(time.Until(t))
		defer timer.Stop()
		deadline = timer.C
	}
	select {
	case dg := <-c.readQueue:
		return copy(b, dg.data), dg.from, false, nil
	case <-c.readNotify:
		return 0, nil, true, nil
	case <-deadline:
		return 0, nil, false, os.ErrDeadlineExceeded
	case <-c.die:
		return 0, nil, false, io.ErrClosedPipe
	}
}

func (c *packetConn) WriteTo(b []byte, addr net.Addr) (int, error) {
	if c.closed.Get() {
		return 0, io.ErrClosedPipe
	}
	peer := c.peer
	if addr == nil || addr.String() != peer.laddr.String() || peer.closed.Get() {
		return len(b), nil
	}
	data := make([]byte, len(b))
	copy(data, b)
	select {
	case peer.readQueue <- datagram{data: data, from: c.laddr}:
	default:
	}
	return len(b), nil
}

func (c *packetConn) LocalAddr() net.Addr {
	return c.laddr
}

func (c *packetConn) SetReadDeadline(t time.Time) error {
	c.readDeadline.Store(t)
	util.AsyncNotify(c.readNotify)
	return nil
}

// Writes never block, so there is nothing to bound.
func (c *packetConn) SetWriteDeadline(t time.Time) error {
	return nil
}

func (c *packetConn) SetDeadline(t time.Time) error {
	if err := c.SetReadDeadline(t); err != nil {
		return err
	}
	return c.SetWriteDeadline(t)
}

func (c *packetConn) Close() error {
	if c.closed.Swap(true) {
		return io.ErrClosedPipe
	}
	close(c.die)
	return nil
}
