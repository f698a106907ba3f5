package arpprobe

import (
	"sync"
	"time"
)

// responseCache maps a target IP to the most recent ARP reply observed for
// it, expiring entries after ttl. insert is always followed by a notify
// call against the given registry so a concurrent requester waiting on that
// IP wakes immediately. Many callers may get concurrently with the single
// listener goroutine inserting; sync.Map tolerates that without external
// locking.
type responseCache struct {
	entries sync.Map // string(ip.To4()) → *cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	reply     reply
	timestamp time.Time
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{ttl: ttl}
}

// get returns the cached reply for ip, if present and unexpired.
func (c *responseCache) get(key string) (reply, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return reply{}, false
	}
	entry := v.(*cacheEntry)
	if time.Since(entry.timestamp) > c.ttl {
		c.entries.Delete(key)
		return reply{}, false
	}
	return entry.reply, true
}

// insert records r as the reply for key, overwriting any prior entry, then
// notifies the registry so a registered waiter (if any) wakes.
func (c *responseCache) insert(key string, r reply, registry *notificationRegistry) {
	c.entries.Store(key, &cacheEntry{reply: r, timestamp: time.Now()})
	registry.notify(key)
}
