package candidate

import "net"

// Batcher collects up to batchSize consecutive Select() results from a
// Selector into a reusable buffer, one batch per NextBatch call.
//
// NextBatch returns a normal (possibly short, on the final partial batch)
// slice while the selector still has candidates. Once the selector is
// exhausted it returns an empty, non-nil slice exactly once — the
// exhaustion signal — and nil on every call after that.
type Batcher struct {
	sel       Selector
	batchSize int
	buf       []net.IP
	done      bool
}

// NewBatcher builds a batcher pulling from sel in groups of batchSize.
func NewBatcher(sel Selector, batchSize int) *Batcher {
	return &Batcher{
		sel:       sel,
		batchSize: batchSize,
		buf:       make([]net.IP, 0, batchSize),
	}
}

// NextBatch returns the next batch, the empty exhaustion signal exactly
// once, or nil thereafter.
func (b *Batcher) NextBatch() []net.IP {
	if b.done {
		return nil
	}

	b.buf = b.buf[:0]
	for i := 0; i < b.batchSize; i++ {
		ip, ok := b.sel.Select()
		if !ok {
			break
		}
		b.buf = append(b.buf, ip)
	}

	if len(b.buf) == 0 {
		b.done = true
	}
	return b.buf
}
