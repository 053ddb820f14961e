package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMachineSetSequencerLengthRestartsSections(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine(48000)
	for i := 0; i < 9; i++ {
		pulseClock(m, 128)
	}
	assert.True(m.CV(0).Playhead().InSection2)

	m.SetSequencerLength(0, 6)
	h := m.CV(0).Playhead()
	assert.False(h.InSection2)
	assert.Equal(0, h.Section1Count)
	assert.Equal(9, h.Step, "step is clamped on the next cycle")

	m.Process(0, 0, 128)
	assert.Equal(5, m.CV(0).CurrentStep())
	assert.Equal(3, m.Params().Sequencers[0].SplitPoint)
}

func TestMachineSetParamsClamps(t *testing.T) {
	m := NewMachine(0)
	assert.Equal(t, DefaultSampleRate, m.SampleRate())

	p := DefaultParams()
	p.Sequencers[0].Length = 0
	p.Tracks[5].FillStart = 64
	m.SetParams(p)
	assert.Equal(t, 1, m.Params().Sequencers[0].Length)
	assert.Equal(t, MaxSteps, m.Params().Tracks[5].FillStart)

	// Out of range indices are ignored
	m.SetSequencerConfig(NumSequencers, DefaultSequencerConfig())
	m.SetGateConfig(-1, DefaultGateConfig())
	m.SetStepValue(0, MaxSteps, 0, 1)
}

func TestMachineStepEditing(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine(48000)
	m.SetStepValue(1, 3, 2, 1000)
	assert.Equal(int16(1000), m.CV(1).StepValue(3, 2))

	m.SetStepState(4, 7, GateState(9))
	assert.Equal(GateNormal, m.Gate(4).StepState(7))

	assert.Equal(GateAccent, m.CycleStepState(4, 7))
	assert.Equal(GateOff, m.CycleStepState(4, 7))

	p := m.Patterns()
	assert.Equal(int16(1000), p.CV[1][3][2])

	fresh := NewMachine(48000)
	fresh.LoadPatterns(p)
	assert.Equal(*p, *fresh.Patterns())
}

func TestMachineSnapshot(t *testing.T) {
	m := NewMachine(48000)
	m.SetGateConfig(0, runningTrack())
	m.SetStepState(0, 1, GateNormal)
	m.SetStepValue(0, 1, 0, 42)

	m.Process(1, 0, 128)
	s := m.Snapshot()
	assert.Equal(t, 1, s.CV[0].Playhead.Step)
	assert.Equal(t, int16(42), s.CV[0].Values[0])
	assert.True(t, s.Gates[0].TriggerActive)
	assert.Equal(t, 1, s.Gates[0].Playhead.Step)
	assert.Equal(t, 0, s.Gates[1].Playhead.Step)
	assert.Equal(t, m.Params(), s.Params)
}

func TestMachineEngineAccessorsOutOfRange(t *testing.T) {
	m := NewMachine(48000)
	assert.Nil(t, m.CV(-1))
	assert.Nil(t, m.CV(NumSequencers))
	assert.Nil(t, m.Gate(-1))
	assert.Nil(t, m.Gate(NumTracks))
	assert.NotNil(t, m.Gate(NumTracks-1))
}
