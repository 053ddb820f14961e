package sequencer

import (
	"vseq/debug"
)

// DefaultSampleRate is used when no sample rate is configured
const DefaultSampleRate = 48000

// Machine is the whole voice: edge detector, dispatcher and the parameters it reads.
// It is single-threaded; Runner serializes access from other goroutines.
type Machine struct {
	edges      EdgeDetector
	disp       *Dispatcher
	params     Params
	sampleRate int
}

// NewMachine creates a machine with default parameters and the power-on patterns
func NewMachine(sampleRate int) *Machine {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	m := &Machine{
		disp:       NewDispatcher(TriggerSamples(sampleRate)),
		params:     DefaultParams(),
		sampleRate: sampleRate,
	}
	m.LoadPatterns(NewPatterns())
	return m
}

// SampleRate returns the configured sample rate
func (m *Machine) SampleRate() int {
	return m.sampleRate
}

// SetListener registers the advance listener
func (m *Machine) SetListener(l Listener) {
	m.disp.SetListener(l)
}

// Process runs one cycle: detect edges on the first sample of the block, then
// dispatch them to every engine.
func (m *Machine) Process(clock, reset float32, frames int) Edges {
	ev := m.edges.Detect(clock, reset)
	if ev.Reset {
		debug.Log("reset", "reset edge")
	}
	m.disp.Tick(ev, &m.params, frames)
	return ev
}

// Params returns a copy of the current parameters
func (m *Machine) Params() Params {
	return m.params
}

// SetParams replaces all parameters, clamping them into range
func (m *Machine) SetParams(p Params) {
	p.Clamp()
	m.params = p
}

// SetSequencerConfig replaces one CV sequencer's configuration
func (m *Machine) SetSequencerConfig(seq int, c SequencerConfig) {
	if seq < 0 || seq >= NumSequencers {
		return
	}
	c.Clamp()
	m.params.Sequencers[seq] = c
}

// SetGateConfig replaces one gate track's configuration
func (m *Machine) SetGateConfig(track int, c GateConfig) {
	if track < 0 || track >= NumTracks {
		return
	}
	c.Clamp()
	m.params.Tracks[track] = c
}

// SetSequencerLength changes a CV sequencer's length, re-centring its sections.
// The section counters restart so the new sections play from their first repeat.
func (m *Machine) SetSequencerLength(seq, length int) {
	if seq < 0 || seq >= NumSequencers {
		return
	}
	m.params.SetSequencerLength(seq, length)
	h := &m.disp.CV[seq].head
	h.Section1Count = 0
	h.Section2Count = 0
	h.InSection2 = false
	debug.Log("param", "seq %d length=%d split=%d", seq+1, m.params.Sequencers[seq].Length, m.params.Sequencers[seq].SplitPoint)
}

// CV returns a CV engine for reading, nil when seq is out of range
func (m *Machine) CV(seq int) *CVEngine {
	if seq < 0 || seq >= NumSequencers {
		return nil
	}
	return &m.disp.CV[seq]
}

// Gate returns a gate engine for reading, nil when track is out of range
func (m *Machine) Gate(track int) *GateEngine {
	if track < 0 || track >= NumTracks {
		return nil
	}
	return &m.disp.Gates[track]
}

// Patterns copies the step tables out of the engines
func (m *Machine) Patterns() *Patterns {
	p := &Patterns{}
	for i := range m.disp.CV {
		p.CV[i] = m.disp.CV[i].Table
	}
	for i := range m.disp.Gates {
		p.Gates[i] = m.disp.Gates[i].Table
	}
	return p
}

// LoadPatterns copies step tables into the engines. Playheads are untouched.
func (m *Machine) LoadPatterns(p *Patterns) {
	for i := range m.disp.CV {
		m.disp.CV[i].Table = p.CV[i]
	}
	for i := range m.disp.Gates {
		m.disp.Gates[i].Table = p.Gates[i]
	}
}

// SetStepValue sets one CV output value
func (m *Machine) SetStepValue(seq, step, out int, v int16) {
	if seq < 0 || seq >= NumSequencers || step < 0 || step >= MaxSteps || out < 0 || out >= NumOutputs {
		return
	}
	m.disp.CV[seq].Table[step][out] = v
}

// SetStepState sets one gate step
func (m *Machine) SetStepState(track, step int, s GateState) {
	if track < 0 || track >= NumTracks || step < 0 || step >= MaxSteps {
		return
	}
	if s > GateAccent {
		s = GateNormal
	}
	m.disp.Gates[track].Table[step] = s
}

// CycleStepState moves a gate step to its next state and returns it
func (m *Machine) CycleStepState(track, step int) GateState {
	if track < 0 || track >= NumTracks || step < 0 || step >= MaxSteps {
		return GateOff
	}
	t := &m.disp.Gates[track].Table
	t[step] = t[step].Next()
	return t[step]
}

// CVStatus is the visible state of a CV sequencer
type CVStatus struct {
	Playhead Playhead
	Values   [NumOutputs]int16 // values at the current step
}

// GateStatus is the visible state of a gate track
type GateStatus struct {
	Playhead      Playhead
	TriggerActive bool
}

// Snapshot is a copy of everything collaborators read once per cycle
type Snapshot struct {
	Params   Params
	Patterns Patterns
	CV       [NumSequencers]CVStatus
	Gates    [NumTracks]GateStatus
}

// Snapshot copies the visible state
func (m *Machine) Snapshot() Snapshot {
	s := Snapshot{
		Params:   m.params,
		Patterns: *m.Patterns(),
	}
	for i := range m.disp.CV {
		e := &m.disp.CV[i]
		s.CV[i] = CVStatus{
			Playhead: e.head,
			Values:   e.Table[e.head.Step],
		}
	}
	for i := range m.disp.Gates {
		g := &m.disp.Gates[i]
		s.Gates[i] = GateStatus{
			Playhead:      g.head,
			TriggerActive: g.TriggerActive(),
		}
	}
	return s
}
