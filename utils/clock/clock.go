// Package clock provides the timestamps stamped onto entities.
package clock

import (
	"sync"
	"time"
)

// Clock returns timestamps in nanoseconds since the Unix epoch.
// Successive calls never return a smaller value.
type Clock interface {
	Now() uint64
}

var _ Clock = (*System)(nil)

// System reads the wall clock. If the wall clock steps backwards
// it keeps returning the last value it handed out until the wall
// clock catches up.
//
// Thread-safety: System is safe for concurrent use.
type System struct {
	mu   sync.Mutex
	last uint64
}

// NewSystem creates a clock backed by time.Now
func NewSystem() *System {
	return &System{}
}

// Now implements Clock.Now
func (c *System) Now() uint64 {
	now := uint64(time.Now().UnixNano())

	c.mu.Lock()
	defer c.mu.Unlock()

	if now < c.last {
		return c.last
	}

	c.last = now

	return now
}

var _ Clock = (*Fake)(nil)

// Fake is a deterministic clock for tests. Every call to Now
// returns the current value and then advances it by step.
type Fake struct {
	mu   sync.Mutex
	now  uint64
	step uint64
}

// NewFake creates a fake clock whose first reading is start
func NewFake(start uint64, step uint64) *Fake {
	return &Fake{now: start, step: step}
}

// Now implements Clock.Now
func (c *Fake) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now
	c.now += c.step

	return now
}

// Peek returns the value the next call to Now will return
func (c *Fake) Peek() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}
