package tm1637test

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is a fake clockwork.Clock whose Sleep and After return immediately.
// Each call advances the fake time by the requested duration.
type Clock struct {
	clockwork.FakeClock

	mu     sync.Mutex
	sleeps []time.Duration
}

// NewClock returns a Clock starting at the clockwork fake epoch.
func NewClock() *Clock {
	return &Clock{FakeClock: clockwork.NewFakeClock()}
}

// Sleep records d and advances the clock by it.
func (c *Clock) Sleep(d time.Duration) {
	c.record(d)
	c.FakeClock.Advance(d)
}

// After records d, advances the clock by it and returns a channel that
// already holds the new time.
func (c *Clock) After(d time.Duration) <-chan time.Time {
	c.record(d)
	c.FakeClock.Advance(d)
	ch := make(chan time.Time, 1)
	ch <- c.FakeClock.Now()
	return ch
}

// Sleeps returns every duration passed to Sleep or After, oldest first.
func (c *Clock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// Total returns the sum of all recorded durations.
func (c *Clock) Total() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var t time.Duration
	for _, d := range c.sleeps {
		t += d
	}
	return t
}

// Reset forgets the recorded durations.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = nil
}

func (c *Clock) record(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
}

var _ clockwork.Clock = &Clock{}
