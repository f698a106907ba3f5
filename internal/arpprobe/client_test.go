package arpprobe

import (
	"context"
	"net"
	"testing"
	"time"
)

func newTestClient(t *testing.T, responseTimeout time.Duration) (*Client, *fakeWire) {
	t.Helper()
	wire := newFakeWire()
	c, err := NewClient("eth0", openFake(wire), responseTimeout, time.Minute, discardLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, wire
}

// TestClientProbeFree covers scenario 3: the simulator never replies, so
// probing reports Free once the response timeout elapses.
func TestClientProbeFree(t *testing.T) {
	c, _ := newTestClient(t, 50*time.Millisecond)

	status, err := c.Probe(context.Background(), mustMAC("aa:bb:cc:dd:ee:ff"), net.IPv4(169, 254, 2, 2))
	if err != nil {
		t.Fatalf("Probe error: %v", err)
	}
	if status != Free {
		t.Errorf("status = %v, want Free", status)
	}
}

// TestClientProbeOccupied covers scenario 4: a reply arrives for the target
// IP, so probing reports Occupied.
func TestClientProbeOccupied(t *testing.T) {
	c, wire := newTestClient(t, time.Second)

	targetIP := net.IPv4(169, 254, 2, 3)
	go func() {
		// Give the request time to register before the reply lands.
		time.Sleep(20 * time.Millisecond)
		wire.Deliver(validReplyFrame(mustMAC("11:22:33:44:55:66"), targetIP))
	}()

	status, err := c.Probe(context.Background(), mustMAC("aa:bb:cc:dd:ee:ff"), targetIP)
	if err != nil {
		t.Fatalf("Probe error: %v", err)
	}
	if status != Occupied {
		t.Errorf("status = %v, want Occupied", status)
	}
}

// TestClientRequestCacheHitSkipsSecondFrame covers scenario 2: a second
// request for the same IP within cache_timeout is answered from the cache
// without emitting a second frame.
func TestClientRequestCacheHitSkipsSecondFrame(t *testing.T) {
	c, wire := newTestClient(t, time.Second)

	targetIP := net.IPv4(169, 254, 10, 5)
	go func() {
		time.Sleep(20 * time.Millisecond)
		wire.Deliver(validReplyFrame(mustMAC("11:22:33:44:55:66"), targetIP))
	}()

	if _, err := c.request(context.Background(), requestInput{
		SenderMAC: mustMAC("aa:bb:cc:dd:ee:ff"),
		TargetMAC: zeroMAC,
		TargetIP:  targetIP,
	}); err != nil {
		t.Fatalf("first request: %v", err)
	}

	framesAfterFirst := len(wire.Sent())

	if _, err := c.request(context.Background(), requestInput{
		SenderMAC: mustMAC("aa:bb:cc:dd:ee:ff"),
		TargetMAC: zeroMAC,
		TargetIP:  targetIP,
	}); err != nil {
		t.Fatalf("second request: %v", err)
	}

	if got := len(wire.Sent()); got != framesAfterFirst {
		t.Errorf("second request sent %d more frame(s), want 0", got-framesAfterFirst)
	}
}

func TestClientRequestNotificationNoLostWakeup(t *testing.T) {
	c, wire := newTestClient(t, time.Second)
	targetIP := net.IPv4(169, 254, 1, 9)

	// Deliver the reply shortly after the probe starts, so it usually lands
	// while the request is already waiting — exercises the wakeup path
	// rather than forcing a race between registration and the wait.
	done := make(chan struct{})
	go func() {
		defer close(done)
		status, err := c.Probe(context.Background(), mustMAC("aa:bb:cc:dd:ee:ff"), targetIP)
		if err != nil {
			t.Errorf("Probe error: %v", err)
		}
		if status != Occupied {
			t.Errorf("status = %v, want Occupied", status)
		}
	}()
	time.Sleep(5 * time.Millisecond)
	wire.Deliver(validReplyFrame(mustMAC("11:22:33:44:55:66"), targetIP))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("probe never completed")
	}
}
