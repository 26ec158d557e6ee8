package tm1637test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockDoesNotBlock(t *testing.T) {
	c := NewClock()
	start := c.Now()

	c.Sleep(10 * time.Microsecond)
	got := <-c.After(time.Second)

	assert.Equal(t, start.Add(time.Second+10*time.Microsecond), got)
	assert.Equal(t, []time.Duration{10 * time.Microsecond, time.Second}, c.Sleeps())
	assert.Equal(t, time.Second+10*time.Microsecond, c.Total())

	c.Reset()
	assert.Empty(t, c.Sleeps())
	assert.Equal(t, time.Duration(0), c.Total())
}
