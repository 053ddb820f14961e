package sequencer

import (
	"context"
	"sync"
	"time"

	"vseq/debug"
)

// Sampler provides the clock and reset levels once per cycle
type Sampler interface {
	Sample() (clock, reset float32)
}

// Levels is a Sampler with fixed levels, set by tests or scripted hosts
type Levels struct {
	Clock float32
	Reset float32
}

func (l *Levels) Sample() (clock, reset float32) {
	return l.Clock, l.Reset
}

// Runner hosts a Machine on its own goroutine, one Process call per block.
// Edit and Snapshot are the only entry points safe from other goroutines.
type Runner struct {
	machine   *Machine
	sampler   Sampler
	blockSize int

	mu     sync.Mutex
	cycles uint64
	clocks uint64

	// Notify UI of step changes
	UpdateChan chan struct{}
}

// NewRunner creates a runner processing blockSize frames per cycle
func NewRunner(m *Machine, s Sampler, blockSize int) *Runner {
	if blockSize <= 0 {
		blockSize = 128
	}
	return &Runner{
		machine:    m,
		sampler:    s,
		blockSize:  blockSize,
		UpdateChan: make(chan struct{}, 1),
	}
}

// Period is the wall-clock duration of one block
func (r *Runner) Period() time.Duration {
	return time.Duration(r.blockSize) * time.Second / time.Duration(r.machine.SampleRate())
}

// Run processes blocks until ctx is cancelled (blocking - run in goroutine)
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Period())
	defer ticker.Stop()

	debug.Log("runner", "started: block=%d period=%s", r.blockSize, r.Period())
	for {
		select {
		case <-ctx.Done():
			debug.Log("runner", "stopped after %d cycles", r.Cycles())
			return
		case <-ticker.C:
			r.Step()
		}
	}
}

// Step runs exactly one cycle and returns the detected edges
func (r *Runner) Step() Edges {
	clock, reset := r.sampler.Sample()

	r.mu.Lock()
	ev := r.machine.Process(clock, reset, r.blockSize)
	r.cycles++
	if ev.Clock {
		r.clocks++
	}
	cycles := r.cycles
	r.mu.Unlock()

	if ev.Clock {
		debug.LogEvery(64, "clock", "clock edge at cycle %d", cycles)
	}
	if ev.Clock || ev.Reset {
		r.notify()
	}
	return ev
}

// Edit runs fn with exclusive access to the machine, between cycles
func (r *Runner) Edit(fn func(m *Machine)) {
	r.mu.Lock()
	fn(r.machine)
	r.mu.Unlock()
	r.notify()
}

// Snapshot copies the machine's visible state
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.machine.Snapshot()
}

// Cycles returns how many blocks were processed
func (r *Runner) Cycles() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cycles
}

// Clocks returns how many clock edges were accepted
func (r *Runner) Clocks() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clocks
}

func (r *Runner) notify() {
	select {
	case r.UpdateChan <- struct{}{}:
	default:
	}
}
