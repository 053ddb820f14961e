package midi

import (
	"fmt"
	"sync"

	"vseq/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// maxPending bounds the clock backlog after a stalled cycle
const maxPending = 4

// ClockInput turns MIDI clock into clock and reset levels for the runner.
// Every divider clock pulses make one step; Start makes a reset. Each pending
// pulse is held high for exactly one cycle and followed by a low cycle so the
// edge detector sees a rising edge for every pulse.
type ClockInput struct {
	mu       sync.Mutex
	divider  int
	phase    int
	clocks   int // pending step pulses
	reset    bool
	high     bool
	stopped  bool
	received uint64

	stopFunc func()
}

// NewClockInput creates a clock input making one step per divider clocks
func NewClockInput(divider int) *ClockInput {
	if divider <= 0 {
		divider = DefaultDivider
	}
	return &ClockInput{divider: divider}
}

// Open starts listening on in
func (c *ClockInput) Open(in drivers.In) error {
	// Clock bytes are filtered by the driver unless time code is enabled
	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		if len(msg) > 0 {
			c.handle(msg[0])
		}
	}, gomidi.UseTimeCode())
	if err != nil {
		return fmt.Errorf("listen %s: %w", in.String(), err)
	}
	c.stopFunc = stop
	debug.Log("clock", "listening on %s (divider %d)", in.String(), c.divider)
	return nil
}

// Close stops listening
func (c *ClockInput) Close() error {
	if c.stopFunc != nil {
		c.stopFunc()
		c.stopFunc = nil
	}
	return nil
}

func (c *ClockInput) handle(status uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch status {
	case TimingClock:
		c.received++
		if c.stopped {
			return
		}
		c.phase++
		if c.phase >= c.divider {
			c.phase = 0
			if c.clocks < maxPending {
				c.clocks++
			}
		}
	case Start:
		c.stopped = false
		c.phase = 0
		c.clocks = 0
		c.reset = true
	case Continue:
		c.stopped = false
	case Stop:
		c.stopped = true
	}
}

// Sample returns the levels for the next cycle
func (c *ClockInput) Sample() (clock, reset float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.high {
		c.high = false
		return 0, 0
	}
	if c.clocks > 0 {
		c.clocks--
		clock = 1
	}
	if c.reset {
		c.reset = false
		reset = 1
	}
	c.high = clock > 0 || reset > 0
	return clock, reset
}

// Received returns how many clock bytes arrived
func (c *ClockInput) Received() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.received
}

// Running reports whether the clock source is started
func (c *ClockInput) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.stopped
}
