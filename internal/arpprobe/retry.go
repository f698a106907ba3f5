package arpprobe

import (
	"context"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lladdr/llprobe/internal/metrics"
)

// prober is the subset of *Client the retrying driver depends on. Defined
// as an interface so tests can substitute a scripted fake.
type prober interface {
	Probe(ctx context.Context, senderMAC net.HardwareAddr, targetIP net.IP) (Status, error)
}

// RetryDriver wraps a prober to offer a batch-oriented probe: each target
// gets up to nRetries sequential attempts, and targets within a batch are
// probed concurrently.
type RetryDriver struct {
	client   prober
	nRetries int
}

// NewRetryDriver builds a driver issuing at most nRetries attempts per IP.
func NewRetryDriver(client prober, nRetries int) *RetryDriver {
	return &RetryDriver{client: client, nRetries: nRetries}
}

// ProbeBatch probes every ip in ips concurrently, retrying each up to
// nRetries times. An attempt reporting Occupied short-circuits that target
// immediately; only when every attempt for a target reports Free does the
// target classify as Free. A non-timeout error on any target cancels the
// remaining retries for the whole batch and is returned. Outcome ordering
// in the returned slice is unspecified.
func (d *RetryDriver) ProbeBatch(ctx context.Context, senderMAC net.HardwareAddr, ips []net.IP) ([]Outcome, error) {
	outcomes := make([]Outcome, len(ips))

	g, gctx := errgroup.WithContext(ctx)
	for i, ip := range ips {
		i, ip := i, ip
		g.Go(func() error {
			status, err := d.probeOne(gctx, senderMAC, ip)
			if err != nil {
				return err
			}
			outcomes[i] = Outcome{TargetIP: ip, Status: status}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// probeOne drives the per-target retry state machine described in the
// package spec: Occupied terminates early; Free advances to the next
// retry; only exhausting every retry with Free classifies the target Free.
func (d *RetryDriver) probeOne(ctx context.Context, senderMAC net.HardwareAddr, ip net.IP) (Status, error) {
	start := time.Now()
	defer func() { metrics.ProbeDuration.Observe(time.Since(start).Seconds()) }()

	for attempt := 0; attempt < d.nRetries; attempt++ {
		status, err := d.client.Probe(ctx, senderMAC, ip)
		if err != nil {
			return Unknown, err
		}
		if status == Occupied {
			return Occupied, nil
		}
	}
	return Free, nil
}
