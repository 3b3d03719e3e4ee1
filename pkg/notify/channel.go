// Package notify provides a task notification channel: producers
// OR-merge flag bits, the owning task reads and clears the whole set.
package notify

import (
	"context"
	"sync/atomic"
	"time"
)

// Bits is a set of notification flags.
type Bits uint32

// Has reports whether all bits in b are set.
func (b Bits) Has(bits Bits) bool {
	return b&bits == bits
}

// Channel accumulates notification bits for a single consumer.
// The zero value is not usable, use New.
type Channel struct {
	pending atomic.Uint32
	wakeCh  chan struct{}
}

// New creates a Channel.
func New() *Channel {
	return &Channel{wakeCh: make(chan struct{}, 1)}
}

// Notify merges bits into the pending set. It never blocks.
func (c *Channel) Notify(bits Bits) {
	if bits == 0 {
		return
	}
	for {
		old := c.pending.Load()
		if c.pending.CompareAndSwap(old, old|uint32(bits)) {
			break
		}
	}
	select {
	case c.wakeCh <- struct{}{}:
	default:
	}
}

// Pending returns the bits set since the last consumption without
// clearing them.
func (c *Channel) Pending() Bits {
	return Bits(c.pending.Load())
}

// Consume returns and clears the pending set without waiting.
func (c *Channel) Consume() Bits {
	return Bits(c.pending.Swap(0))
}

// Wait blocks until any bit is pending, timeout expires or ctx is
// done, then returns and clears the pending set. A zero timeout polls.
func (c *Channel) Wait(ctx context.Context, timeout time.Duration) Bits {
	if bits := c.Consume(); bits != 0 || timeout <= 0 {
		return bits
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-c.wakeCh:
			// a stale wake up may remain from bits consumed earlier.
			if bits := c.Consume(); bits != 0 {
				return bits
			}
		case <-timer.C:
			return c.Consume()
		case <-ctx.Done():
			return c.Consume()
		}
	}
}
