// Package arpprobe implements an ARP-probing engine for discovering unused
// IPv4 addresses (RFC 3927) by actively sending ARP probes and classifying
// targets as Free or Occupied based on whether a reply is observed (RFC
// 5227). It owns the L2 frame codec, a response cache and notification
// registry shared between a background listener and request callers, and a
// retrying probe driver that turns single attempts into a batch-oriented
// Free/Occupied classification.
package arpprobe

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/lladdr/llprobe/internal/metrics"
)

// Client is a scoped ARP resource: on construction it opens a writable raw
// binding, starts a Response Listener on a separate binding, and owns the
// cache and notification registry the two share. Close cancels and joins
// the listener.
type Client struct {
	writeCh Channel
	readCh  Channel
	sendMu  sync.Mutex // serializes writes on the single kernel endpoint

	cache    *responseCache
	registry *notificationRegistry

	responseTimeout time.Duration
	logger          *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// OpenChannel is implemented by internal/rawsock; accepted here as a
// function value so tests can substitute a fake without importing rawsock.
type OpenChannel func(iface string) (Channel, error)

// NewClient opens a writable raw binding and a second read-only binding (via
// open) on iface, and starts the response listener. cacheTimeout bounds how
// long a cached reply remains valid; responseTimeout bounds a single
// request attempt.
func NewClient(iface string, open OpenChannel, responseTimeout, cacheTimeout time.Duration, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	writeCh, err := open(iface)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInterfaceBind, err)
	}

	readCh, err := open(iface)
	if err != nil {
		writeCh.Close()
		return nil, fmt.Errorf("%w: %v", ErrInterfaceBind, err)
	}

	c := &Client{
		writeCh:         writeCh,
		readCh:          readCh,
		cache:           newResponseCache(cacheTimeout),
		registry:        newNotificationRegistry(),
		responseTimeout: responseTimeout,
		logger:          logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	listener := newResponseListener(readCh, c.cache, c.registry, logger)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		listener.run(ctx)
	}()

	return c, nil
}

// Close cancels the listener and closes its binding to unblock a pending
// read, waits for it to return, then closes the write binding. No
// outstanding request call may be in flight across Close.
func (c *Client) Close() error {
	c.cancel()
	c.readCh.Close()
	c.wg.Wait()
	return c.writeCh.Close()
}

// request performs a single ARP request for input.TargetIP and returns the
// reply observed, or ErrResponseTimeout if none arrives within
// responseTimeout. A cache hit short-circuits without sending a frame.
func (c *Client) request(ctx context.Context, input requestInput) (reply, error) {
	key := input.TargetIP.String()

	if r, ok := c.cache.get(key); ok {
		metrics.CacheHitsTotal.Inc()
		return r, nil
	}

	// Register before send, so a reply arriving after the frame goes out
	// wakes this call. A reply that landed between the cache check above and
	// registration woke nobody, but it is already cached: look once more.
	woken := c.registry.register(key)
	if r, ok := c.cache.get(key); ok {
		metrics.CacheHitsTotal.Inc()
		return r, nil
	}

	frame := encodeRequest(input)

	c.sendMu.Lock()
	err := c.writeCh.WriteFrame(frame)
	c.sendMu.Unlock()
	if err != nil {
		return reply{}, fmt.Errorf("write arp request: %w", err)
	}

	timer := time.NewTimer(c.responseTimeout)
	defer timer.Stop()

	select {
	case <-woken:
		if r, ok := c.cache.get(key); ok {
			return r, nil
		}
		// Notified but no entry found — should not happen given
		// insert-then-notify ordering, but fall through to timeout
		// rather than panic on an unexpected race.
		return reply{}, ErrResponseTimeout
	case <-timer.C:
		return reply{}, ErrResponseTimeout
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
}

// Probe wraps request with sender_ip=0.0.0.0 and target_mac=0, per RFC 5227,
// and classifies the outcome: Occupied if any reply was observed, Free if
// the request timed out, or the error unchanged for anything else.
func (c *Client) Probe(ctx context.Context, senderMAC net.HardwareAddr, targetIP net.IP) (Status, error) {
	_, err := c.request(ctx, requestInput{
		SenderMAC: senderMAC,
		SenderIP:  nil,
		TargetMAC: zeroMAC,
		TargetIP:  targetIP,
	})
	switch {
	case err == nil:
		metrics.ARPRequestsTotal.WithLabelValues("occupied").Inc()
		return Occupied, nil
	case err == ErrResponseTimeout:
		metrics.ARPRequestsTotal.WithLabelValues("free").Inc()
		return Free, nil
	default:
		metrics.ARPRequestsTotal.WithLabelValues("error").Inc()
		return Unknown, err
	}
}
