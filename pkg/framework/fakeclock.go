package framework

import (
	"context"
	"sync"
	"time"
)

// ManualClock is a Clock advanced explicitly. Sleep advances the
// clock instead of blocking, so tasks using it run deterministically.
type ManualClock struct {
	lock sync.Mutex
	now  time.Time
}

// NewManualClock creates a ManualClock starting at t.
func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{now: t}
}

// Now implements Clock.
func (c *ManualClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

// Sleep implements Clock.
func (c *ManualClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Advance(d)
	return nil
}

// Advance moves the clock forward.
func (c *ManualClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.lock.Lock()
	c.now = c.now.Add(d)
	c.lock.Unlock()
}
