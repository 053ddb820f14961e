package sequencer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	events []string
}

func (r *recorder) CVAdvanced(seq, step int, values [NumOutputs]int16) {
	r.events = append(r.events, fmt.Sprintf("cv %d %d", seq, step))
}

func (r *recorder) GateTriggered(track, step int, state GateState) {
	r.events = append(r.events, fmt.Sprintf("gate %d %d %s", track, step, state))
}

func runningTrack() GateConfig {
	c := DefaultGateConfig()
	c.Running = true
	return c
}

// pulseClock sends one rising edge followed by a low cycle
func pulseClock(m *Machine, frames int) {
	m.Process(1, 0, frames)
	m.Process(0, 0, frames)
}

func TestDispatchOrder(t *testing.T) {
	m := NewMachine(48000)
	rec := &recorder{}
	m.SetListener(rec)

	m.SetGateConfig(0, runningTrack())
	m.SetGateConfig(1, runningTrack())
	m.SetGateConfig(3, runningTrack())
	m.SetStepState(0, 1, GateNormal)
	m.SetStepState(3, 1, GateAccent)

	m.Process(1, 0, 128)
	assert.Equal(t, []string{
		"cv 0 1",
		"cv 1 1",
		"cv 2 1",
		"gate 0 1 Normal",
		"gate 3 1 Accent",
	}, rec.events)
}

func TestDispatchClockOncePerEdge(t *testing.T) {
	m := NewMachine(48000)
	for i := 0; i < 5; i++ {
		m.Process(1, 0, 128)
	}
	assert.Equal(t, 1, m.CV(0).CurrentStep())

	m.Process(0, 0, 128)
	m.Process(1, 0, 128)
	assert.Equal(t, 2, m.CV(0).CurrentStep())
}

func TestDispatchResetBeforeClock(t *testing.T) {
	m := NewMachine(48000)
	for i := 0; i < 5; i++ {
		pulseClock(m, 128)
	}
	assert.Equal(t, 5, m.CV(1).CurrentStep())

	// Reset and clock in the same cycle: the advance happens from the reset position
	m.Process(1, 1, 128)
	assert.Equal(t, 1, m.CV(1).CurrentStep())

	c := DefaultSequencerConfig()
	c.Direction = Backward
	m.SetSequencerConfig(2, c)
	m.Process(0, 0, 128)
	m.Process(1, 1, 128)
	assert.Equal(t, 14, m.CV(2).CurrentStep())
}

func TestDispatchResetOnly(t *testing.T) {
	m := NewMachine(48000)
	m.SetGateConfig(0, runningTrack())
	for i := 0; i < 3; i++ {
		pulseClock(m, 128)
	}
	m.Process(0, 1, 128)
	assert.Equal(t, 0, m.CV(0).CurrentStep())
	assert.Equal(t, 0, m.Gate(0).CurrentStep())
}

func TestDispatchStoppedTrackFrozen(t *testing.T) {
	m := NewMachine(48000)
	m.SetGateConfig(2, runningTrack())
	m.SetStepState(2, 1, GateNormal)
	m.Process(1, 0, 48)
	assert.True(t, m.Gate(2).TriggerActive())

	stopped := runningTrack()
	stopped.Running = false
	m.SetGateConfig(2, stopped)
	for i := 0; i < 20; i++ {
		pulseClock(m, 48)
	}
	assert.Equal(t, 1, m.Gate(2).CurrentStep())
	assert.True(t, m.Gate(2).TriggerActive(), "countdown is frozen too")

	m.SetGateConfig(2, runningTrack())
	for i := 0; i < 4; i++ {
		m.Process(0, 0, 48)
	}
	assert.False(t, m.Gate(2).TriggerActive())
}

func TestDispatchTriggerLength(t *testing.T) {
	m := NewMachine(48000)
	m.SetGateConfig(0, runningTrack())
	m.SetStepState(0, 1, GateAccent)

	m.Process(1, 0, 48)
	assert.True(t, m.Gate(0).TriggerActive())
	for i := 0; i < 3; i++ {
		m.Process(0, 0, 48)
		assert.True(t, m.Gate(0).TriggerActive(), "cycle %d", i)
	}
	m.Process(0, 0, 48)
	assert.False(t, m.Gate(0).TriggerActive())
}

func TestDispatchClampsAfterLengthChange(t *testing.T) {
	m := NewMachine(48000)
	m.SetSequencerConfig(0, cvConfig(16, Forward, 0, 1, 1))
	for i := 0; i < 10; i++ {
		pulseClock(m, 128)
	}
	assert.Equal(t, 10, m.CV(0).CurrentStep())

	m.SetSequencerConfig(0, cvConfig(4, Forward, 0, 1, 1))
	m.Process(0, 0, 128)
	assert.Equal(t, 3, m.CV(0).CurrentStep())

	pulseClock(m, 128)
	assert.Equal(t, 0, m.CV(0).CurrentStep())
}

func TestDispatchStoppedTrackClampsToLength(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine(48000)
	m.SetGateConfig(0, runningTrack())
	m.SetStepState(0, 3, GateNormal)
	for i := 0; i < 10; i++ {
		pulseClock(m, 48)
	}
	assert.Equal(10, m.Gate(0).CurrentStep())

	stopped := runningTrack()
	stopped.Running = false
	stopped.Length = 4
	m.SetGateConfig(0, stopped)
	m.Process(0, 0, 48)
	assert.Equal(3, m.Gate(0).CurrentStep())

	for i := 0; i < 5; i++ {
		pulseClock(m, 48)
	}
	assert.Equal(3, m.Gate(0).CurrentStep(), "clamping does not advance a stopped track")
	assert.False(m.Gate(0).TriggerActive())
}
