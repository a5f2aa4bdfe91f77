// Package clock provides the logical clock used for every deadline comparison
// in the payment engines. Ticks are monotonically non-decreasing and stand in
// for wall-clock time so state transitions stay deterministic and replayable.
package clock

import (
	"sync"
	"time"
)

// Clock exposes the current logical tick.
type Clock interface {
	Tick() uint64
}

// Manual is a settable clock for tests and deterministic replay. The tick
// never moves backwards: Set to an earlier value is ignored.
type Manual struct {
	mu   sync.RWMutex
	tick uint64
}

// NewManual creates a manual clock starting at the given tick.
func NewManual(tick uint64) *Manual {
	return &Manual{tick: tick}
}

// Tick implements the Clock interface.
func (c *Manual) Tick() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tick
}

// Advance moves the clock forward by delta ticks.
func (c *Manual) Advance(delta uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick += delta
}

// Set moves the clock to the given tick if it is not in the past.
func (c *Manual) Set(tick uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tick > c.tick {
		c.tick = tick
	}
}

// Timed maps wall-clock seconds since a fixed epoch onto ticks. It satisfies
// the monotonic contract as long as the host clock does not step backwards;
// deployments that need strict determinism should drive a Manual clock from
// their own sequencer instead.
type Timed struct {
	epoch time.Time
	nowFn func() time.Time
}

// NewTimed creates a wall-clock backed logical clock.
func NewTimed(epoch time.Time) *Timed {
	return &Timed{epoch: epoch.UTC(), nowFn: time.Now}
}

// Tick implements the Clock interface.
func (c *Timed) Tick() uint64 {
	now := c.nowFn().UTC()
	if now.Before(c.epoch) {
		return 0
	}
	return uint64(now.Sub(c.epoch) / time.Second)
}
