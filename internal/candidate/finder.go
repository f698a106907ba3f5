package candidate

import (
	"context"
	"net"

	"github.com/lladdr/llprobe/internal/arpprobe"
	"github.com/lladdr/llprobe/internal/metrics"
)

// Prober probes a batch of candidate IPs concurrently and classifies each.
// *arpprobe.RetryDriver satisfies this.
type Prober interface {
	ProbeBatch(ctx context.Context, senderMAC net.HardwareAddr, ips []net.IP) ([]arpprobe.Outcome, error)
}

// Finder composes a Batcher and a Prober: each FindNext call pulls one
// batch, probes it, and returns the subset that came back Free.
type Finder struct {
	batcher   *Batcher
	prober    Prober
	senderMAC net.HardwareAddr
}

// NewFinder builds a finder probing batches from batcher using senderMAC as
// the source hardware address on every frame.
func NewFinder(batcher *Batcher, prober Prober, senderMAC net.HardwareAddr) *Finder {
	return &Finder{batcher: batcher, prober: prober, senderMAC: senderMAC}
}

// FindNext pulls the next batch and probes it. The bool return distinguishes
// "no more batches" (false — the selector is fully exhausted, stop calling)
// from "this batch yielded ips, possibly empty" (true — call again).
func (f *Finder) FindNext(ctx context.Context) ([]net.IP, bool, error) {
	batch := f.batcher.NextBatch()
	if batch == nil {
		return nil, false, nil
	}

	metrics.BatchesScanned.Inc()

	if len(batch) == 0 {
		return nil, true, nil
	}

	outcomes, err := f.prober.ProbeBatch(ctx, f.senderMAC, batch)
	if err != nil {
		return nil, true, err
	}

	free := make([]net.IP, 0, len(outcomes))
	for _, o := range outcomes {
		if o.IsFree() {
			free = append(free, o.TargetIP)
		}
	}
	metrics.FreeIPsFound.Add(float64(len(free)))

	return free, true, nil
}
