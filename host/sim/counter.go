package sim

import (
	"sync"
	"time"
)

// Counter is a cycle counter derived from the host monotonic clock.
type Counter struct {
	start time.Time
	hz    uint32
}

// NewCounter starts a counter running at hz.
func NewCounter(hz uint32) *Counter {
	return &Counter{start: time.Now(), hz: hz}
}

// Cycles returns elapsed cycles, wrapping at 32 bits like the hardware.
func (c *Counter) Cycles() uint32 {
	ns := uint64(time.Since(c.start))
	return uint32(ns * uint64(c.hz) / uint64(time.Second))
}

func (c *Counter) Frequency() uint32 {
	return c.hz
}

// SequenceCounter replays fixed readings, one per Cycles call, then repeats
// the last one.
type SequenceCounter struct {
	mu   sync.Mutex
	seq  []uint32
	next int
	hz   uint32
}

// NewSequenceCounter replays seq at a nominal rate of hz.
func NewSequenceCounter(hz uint32, seq ...uint32) *SequenceCounter {
	return &SequenceCounter{seq: seq, hz: hz}
}

func (c *SequenceCounter) Cycles() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.seq) == 0 {
		return 0
	}
	if c.next >= len(c.seq) {
		return c.seq[len(c.seq)-1]
	}
	v := c.seq[c.next]
	c.next++
	return v
}

func (c *SequenceCounter) Frequency() uint32 {
	return c.hz
}

// Reads returns how many readings were taken.
func (c *SequenceCounter) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}
