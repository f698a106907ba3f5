// Package metrics defines all Prometheus metrics for llprobe.
// All metrics use the "llprobe_" prefix.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "llprobe"

// --- ARP Client Metrics ---

var (
	// ARPRequestsTotal counts ARP requests sent, by probe outcome.
	ARPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "arp_requests_total",
		Help:      "Total ARP requests sent, by outcome (free, occupied, error).",
	}, []string{"outcome"})

	// CacheHitsTotal counts probes answered from the response cache without
	// sending a frame on the wire.
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Total probes resolved from the response cache.",
	})

	// ProbeDuration tracks the latency of a single probe (all retries included).
	ProbeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "probe_duration_seconds",
		Help:      "Probe duration in seconds, including retries.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	// ListenerFramesDropped counts frames the response listener discarded,
	// by reason.
	ListenerFramesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listener_frames_dropped_total",
		Help:      "Total frames dropped by the response listener, by reason.",
	}, []string{"reason"})
)

// --- Candidate Pipeline Metrics ---

var (
	// BatchesScanned counts batches pulled from the IP batcher.
	BatchesScanned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batches_scanned_total",
		Help:      "Total candidate batches scanned.",
	})

	// FreeIPsFound counts free addresses surfaced by the finder.
	FreeIPsFound = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "free_ips_found_total",
		Help:      "Total free IPv4 addresses discovered.",
	})
)
