package driver

import (
	"math"
	"sync"
	"time"
)

// Clock is the monotonic animation clock. It starts at zero when the driver starts,
// advances once per frame and never resets.
type Clock struct {
	mu *sync.Mutex

	start   time.Time
	started bool
	elapsed float64
	delta   float64
	frame   uint64
}

func newClock() *Clock {
	return &Clock{mu: &sync.Mutex{}}
}

// Elapsed returns the seconds since the driver started, as of the current frame.
func (c *Clock) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// Delta returns the seconds between the current and the previous frame.
func (c *Clock) Delta() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delta
}

// Frame returns the number of the current frame, starting at 1.
func (c *Clock) Frame() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

func (c *Clock) reset(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		c.start = at
		c.started = true
	}
}

// advance moves the clock to at. Elapsed time is kept strictly increasing even when the
// source clock stalls or jumps backwards.
func (c *Clock) advance(at time.Time) FrameInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := at.Sub(c.start).Seconds()
	if next <= c.elapsed {
		next = math.Nextafter(c.elapsed, math.Inf(1))
	}
	c.delta = next - c.elapsed
	c.elapsed = next
	c.frame++
	return FrameInfo{Frame: c.frame, Elapsed: c.elapsed, Delta: c.delta}
}
