// Package anim steps through the frames of an animated image.
package anim

import (
	"time"

	"github.com/nekomimist/nvpix/internal/decode"
)

// State of a Clock.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Clock tracks which frame of a sequence is current. A new Clock is created
// for every image shown; it is owned by the UI thread.
type Clock struct {
	durations []time.Duration
	cycle     time.Duration
	loop      bool
	index     int
	elapsed   time.Duration
	state     State
}

// New returns a clock for seq, playing when it has more than one frame.
func New(seq *decode.FrameSequence) *Clock {
	c := &Clock{loop: seq.LoopForever}
	c.durations = make([]time.Duration, len(seq.Frames))
	for i, f := range seq.Frames {
		d := f.Duration
		if d <= 0 {
			d = decode.DefaultMinFrameDuration
		}
		c.durations[i] = d
		c.cycle += d
	}
	if len(c.durations) > 1 {
		c.state = Playing
	}
	return c
}

// Advance adds dt to the time spent on the current frame and moves past every
// frame whose duration has been consumed. The consumed duration is subtracted,
// so rounding in dt never accumulates. It reports whether the frame changed.
func (c *Clock) Advance(dt time.Duration) bool {
	if c.state != Playing || dt <= 0 {
		return false
	}
	c.elapsed += dt
	// Whole cycles land on the same frame.
	if c.loop && c.elapsed >= c.cycle {
		c.elapsed %= c.cycle
	}

	start := c.index
	for c.elapsed >= c.durations[c.index] {
		if c.index == len(c.durations)-1 && !c.loop {
			c.elapsed = c.durations[c.index]
			c.state = Stopped
			break
		}
		c.elapsed -= c.durations[c.index]
		c.index = (c.index + 1) % len(c.durations)
	}
	return c.index != start
}

// Pause freezes playback on the current frame.
func (c *Clock) Pause() {
	if c.state == Playing {
		c.state = Paused
	}
}

// Resume continues paused playback.
func (c *Clock) Resume() {
	if c.state == Paused {
		c.state = Playing
	}
}

// Toggle switches between playing and paused. A finished animation restarts
// from its first frame, in which case Toggle reports true.
func (c *Clock) Toggle() bool {
	switch c.state {
	case Playing:
		c.Pause()
	case Paused:
		c.Resume()
	case Stopped:
		if len(c.durations) < 2 {
			return false
		}
		c.index, c.elapsed = 0, 0
		c.state = Playing
		return true
	}
	return false
}

func (c *Clock) State() State { return c.state }

func (c *Clock) Index() int { return c.index }

func (c *Clock) Elapsed() time.Duration { return c.elapsed }

func (c *Clock) Len() int { return len(c.durations) }

// NextDeadline returns the time left on the current frame while playing.
func (c *Clock) NextDeadline() (time.Duration, bool) {
	if c.state != Playing {
		return 0, false
	}
	return c.durations[c.index] - c.elapsed, true
}
