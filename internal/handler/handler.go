// Package handler wires the ARP probing engine and the candidate address
// pipeline into a single facade: Handler.NextFreeIPBatch(ctx) keeps pulling
// batches from the finder until one comes back non-empty or the candidate
// space is exhausted.
package handler

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/lladdr/llprobe/internal/arpprobe"
	"github.com/lladdr/llprobe/internal/candidate"
)

// Config carries the interface to probe on (the TOML server section) and
// the scan section's knobs for the underlying ARP client and batcher.
type Config struct {
	Interface       string
	NRetries        int
	ResponseTimeout time.Duration
	CacheTimeout    time.Duration
	BatchSize       int
}

// Handler holds a finder wired with an ARP client bound to the configured
// interface, a retrying probe driver using that client's MAC, the
// link-local IPv4 selector, and the batcher.
type Handler struct {
	client    *arpprobe.Client
	finder    *candidate.Finder
	senderMAC net.HardwareAddr
}

// openChannelFunc and macOfFunc are injected so tests can substitute fakes
// without importing internal/rawsock (which needs real raw sockets).
type openChannelFunc = arpprobe.OpenChannel
type macOfFunc func(iface string) (net.HardwareAddr, error)

// New builds a Handler for cfg. Opening the ARP client's raw bindings and
// discovering the interface's MAC are the two ways construction can fail.
func New(cfg Config, open openChannelFunc, macOf macOfFunc) (*Handler, error) {
	mac, err := macOf(cfg.Interface)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", arpprobe.ErrInterfaceNoMAC, err)
	}

	client, err := arpprobe.NewClient(cfg.Interface, open, cfg.ResponseTimeout, cfg.CacheTimeout, nil)
	if err != nil {
		return nil, err
	}

	driver := arpprobe.NewRetryDriver(client, cfg.NRetries)
	selector := candidate.NewLinkLocalSelector()
	batcher := candidate.NewBatcher(selector, cfg.BatchSize)
	finder := candidate.NewFinder(batcher, driver, mac)

	return &Handler{client: client, finder: finder, senderMAC: mac}, nil
}

// Close releases the underlying ARP client's raw bindings.
func (h *Handler) Close() error {
	return h.client.Close()
}

// NextFreeIPBatch loops FindNext until a non-empty batch is produced or the
// candidate space is exhausted, in which case it returns (nil, false, nil).
// Idempotent after exhaustion: every subsequent call also returns
// (nil, false, nil). A probe error is returned as (nil, false, err).
func (h *Handler) NextFreeIPBatch(ctx context.Context) ([]net.IP, bool, error) {
	for {
		ips, more, err := h.finder.FindNext(ctx)
		if err != nil {
			return nil, false, err
		}
		if !more {
			return nil, false, nil
		}
		if len(ips) > 0 {
			return ips, true, nil
		}
	}
}
