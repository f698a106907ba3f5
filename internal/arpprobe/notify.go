package arpprobe

import "sync"

// notificationRegistry maintains at most one rendezvous slot per target IP.
// register must happen-before the request frame is written, so that a reply
// racing ahead of registration is never missed: the cache already holds the
// value, and the caller checks the cache again right after registering.
//
// The rendezvous itself carries no payload — after waking, the caller
// re-reads the response cache to obtain the reply.
type notificationRegistry struct {
	mu       sync.Mutex
	notifiers map[string]chan struct{}
}

func newNotificationRegistry() *notificationRegistry {
	return &notificationRegistry{
		notifiers: make(map[string]chan struct{}),
	}
}

// register creates a fresh slot for key, overwriting any prior one, and
// returns a channel that closes when notify(key) is next called.
func (r *notificationRegistry) register(key string) <-chan struct{} {
	ch := make(chan struct{})
	r.mu.Lock()
	r.notifiers[key] = ch
	r.mu.Unlock()
	return ch
}

// notify wakes the registered slot for key, if one exists. A reply for an
// IP nobody registered for is a no-op: it was still cached by the listener,
// just not broadcast.
func (r *notificationRegistry) notify(key string) {
	r.mu.Lock()
	ch, ok := r.notifiers[key]
	if ok {
		delete(r.notifiers, key)
	}
	r.mu.Unlock()
	if ok {
		close(ch)
	}
}
