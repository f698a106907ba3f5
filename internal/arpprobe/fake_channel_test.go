package arpprobe

import (
	"errors"
	"sync"
)

var errFakeChannelClosed = errors.New("fake channel closed")

// fakeWire is the shared state behind a pair of fake write/read Channels: a
// test can inspect frames sent out (Sent) and inject frames as if they had
// arrived on the wire (Deliver).
type fakeWire struct {
	mu     sync.Mutex
	sent   [][]byte
	feed   chan []byte
	closed chan struct{}
	once   sync.Once
}

func newFakeWire() *fakeWire {
	return &fakeWire{
		feed:   make(chan []byte, 64),
		closed: make(chan struct{}),
	}
}

// Deliver injects a frame as if it had just arrived on the read binding.
func (w *fakeWire) Deliver(frame []byte) {
	w.feed <- frame
}

// Sent returns a snapshot of every frame written so far.
func (w *fakeWire) Sent() [][]byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([][]byte, len(w.sent))
	copy(out, w.sent)
	return out
}

func (w *fakeWire) record(frame []byte) {
	cp := make([]byte, len(frame))
	copy(cp, frame)
	w.mu.Lock()
	w.sent = append(w.sent, cp)
	w.mu.Unlock()
}

func (w *fakeWire) close() {
	w.once.Do(func() { close(w.closed) })
}

type fakeWriteChannel struct{ wire *fakeWire }

func (c *fakeWriteChannel) ReadFrame(buf []byte) (int, error) {
	return 0, errors.New("fake write channel is not readable")
}

func (c *fakeWriteChannel) WriteFrame(frame []byte) error {
	c.wire.record(frame)
	return nil
}

func (c *fakeWriteChannel) Close() error { return nil }

type fakeReadChannel struct{ wire *fakeWire }

func (c *fakeReadChannel) ReadFrame(buf []byte) (int, error) {
	select {
	case frame := <-c.wire.feed:
		return copy(buf, frame), nil
	case <-c.wire.closed:
		return 0, errFakeChannelClosed
	}
}

func (c *fakeReadChannel) WriteFrame(frame []byte) error {
	return errors.New("fake read channel is not writable")
}

func (c *fakeReadChannel) Close() error {
	c.wire.close()
	return nil
}

// openFake returns an OpenChannel that binds to a single fakeWire: the
// first call yields the write side, the second the read side, mirroring
// how NewClient opens two bindings on the same interface.
func openFake(wire *fakeWire) OpenChannel {
	calls := 0
	return func(iface string) (Channel, error) {
		calls++
		if calls == 1 {
			return &fakeWriteChannel{wire: wire}, nil
		}
		return &fakeReadChannel{wire: wire}, nil
	}
}
