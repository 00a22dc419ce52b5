package render

import (
	"sort"
	"sync"
	"time"
)

// Clock schedules a one-shot callback.
type Clock interface {
	AfterFunc(d time.Duration, f func())
}

// SystemClock runs callbacks on runtime timers.
type SystemClock struct{}

func (SystemClock) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// ManualClock is a virtual clock; callbacks run only from Advance.
type ManualClock struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	queue []timer
}

type timer struct {
	at  time.Duration
	seq int
	f   func()
}

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) AfterFunc(d time.Duration, f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.queue = append(c.queue, timer{at: c.now + d, seq: c.seq, f: f})
}

// Advance moves virtual time forward by d and runs every callback that came
// due, in due order. Callbacks scheduled while advancing run too when they
// fall inside the window.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		sort.SliceStable(c.queue, func(i, j int) bool {
			if c.queue[i].at != c.queue[j].at {
				return c.queue[i].at < c.queue[j].at
			}
			return c.queue[i].seq < c.queue[j].seq
		})
		if len(c.queue) == 0 || c.queue[0].at > target {
			c.now = target
			c.mu.Unlock()
			return
		}
		next := c.queue[0]
		c.queue = c.queue[1:]
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

// Pending reports the number of scheduled callbacks.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// FrameClock ignores the delay and runs callbacks when the host calls
// RunFrame, much like an animation-frame queue.
type FrameClock struct {
	mu    sync.Mutex
	queue []func()
}

func NewFrameClock() *FrameClock {
	return &FrameClock{}
}

func (c *FrameClock) AfterFunc(_ time.Duration, f func()) {
	c.mu.Lock()
	c.queue = append(c.queue, f)
	c.mu.Unlock()
}

// RunFrame runs the callbacks queued before the call and returns how many ran.
func (c *FrameClock) RunFrame() int {
	c.mu.Lock()
	queue := c.queue
	c.queue = nil
	c.mu.Unlock()

	for _, f := range queue {
		f()
	}
	return len(queue)
}
