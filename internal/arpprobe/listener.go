package arpprobe

import (
	"context"
	"log/slog"

	"github.com/lladdr/llprobe/internal/metrics"
)

// responseListener owns a read-only binding to the raw channel and drains it
// into the response cache. It runs as a detached background goroutine with
// cooperative cancellation: the current read may complete first, but the
// next loop iteration observes ctx.Done() and exits.
//
// Frames that fail to parse are counted and skipped without ending the loop.
// Any read error ends the loop: unless ctx is already cancelled, the
// listener logs it, counts it as a dropped frame and returns. Read errors
// are not retried.
type responseListener struct {
	ch       Channel
	cache    *responseCache
	registry *notificationRegistry
	logger   *slog.Logger
}

func newResponseListener(ch Channel, cache *responseCache, registry *notificationRegistry, logger *slog.Logger) *responseListener {
	return &responseListener{ch: ch, cache: cache, registry: registry, logger: logger}
}

// run drains the channel until ctx is cancelled or the channel fails for
// good. Intended to be launched as `go listener.run(ctx)`.
func (l *responseListener) run(ctx context.Context) {
	buf := make([]byte, frameLen)

	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("arp listener stopping: context cancelled")
			return
		default:
		}

		n, err := l.ch.ReadFrame(buf)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.Warn("arp listener read error", "error", err)
			metrics.ListenerFramesDropped.WithLabelValues("read_error").Inc()
			return
		}

		r, ok := parseReply(buf[:n])
		if !ok {
			metrics.ListenerFramesDropped.WithLabelValues("not_arp_reply").Inc()
			continue
		}

		key := r.SenderIP.String()
		l.cache.insert(key, r, l.registry)
	}
}
