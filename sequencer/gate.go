package sequencer

// GateState is the tri-state value of a gate step
type GateState uint8

const (
	GateOff GateState = iota
	GateNormal
	GateAccent
)

func (s GateState) String() string {
	switch s {
	case GateOff:
		return "Off"
	case GateNormal:
		return "Normal"
	case GateAccent:
		return "Accent"
	}
	return "Invalid"
}

// Next cycles Off -> Normal -> Accent -> Off
func (s GateState) Next() GateState {
	return (s + 1) % 3
}

// GateTable holds one tri-state value per step
type GateTable [MaxSteps]GateState

// TriggerMillis is the length of a trigger pulse
const TriggerMillis = 5

// TriggerSamples converts the trigger pulse length to samples (240 at 48kHz)
func TriggerSamples(sampleRate int) int {
	return sampleRate * TriggerMillis / 1000
}

// GateEngine is one gate track: step table, playhead, fill logic and trigger timing
type GateEngine struct {
	Table   GateTable
	head    Playhead
	trigger int // samples left of the current pulse
}

// NewGateEngine creates a track at the start of its sequence
func NewGateEngine() GateEngine {
	return GateEngine{head: startPlayhead()}
}

// CurrentStep returns the playing step
func (g *GateEngine) CurrentStep() int {
	return g.head.Step
}

// StepState returns the state of a step
func (g *GateEngine) StepState(step int) GateState {
	if step < 0 || step >= MaxSteps {
		return GateOff
	}
	return g.Table[step]
}

// TriggerActive reports whether the trigger output is high
func (g *GateEngine) TriggerActive() bool {
	return g.trigger > 0
}

// Playhead returns a copy of the runtime state
func (g *GateEngine) Playhead() Playhead {
	return g.head
}

// Reset returns to the start of the sequence. Stopped tracks ignore it.
func (g *GateEngine) Reset(c GateConfig) {
	if !c.Running {
		return
	}
	g.head.reset(c.SequencerConfig)
}

// Clamp keeps the playhead inside the configured length
func (g *GateEngine) Clamp(c GateConfig) {
	g.head.clamp(c.Length)
}

// Advance moves one step. Stopped tracks ignore it.
func (g *GateEngine) Advance(c GateConfig) {
	if !c.Running {
		return
	}
	p := &g.head
	if !c.Sectioned() {
		switch c.Direction {
		case Forward:
			p.wrapForward(c.Length)
		case Backward:
			p.wrapBackward(c.Length)
		case Pingpong:
			g.bounce(c.Length)
		}
		return
	}

	switch c.Direction {
	case Forward:
		p.Step++
		if g.fillDue(c) {
			p.enterSection2(c.SplitPoint)
			return
		}
		p.sectionForward(c.SequencerConfig)
	case Backward:
		p.Step--
		p.sectionBackward(c.SequencerConfig)
	case Pingpong:
		g.bounce(c.Length)
	}
}

// fillDue reports whether the final section 1 repeat should be cut short.
// It is checked before the section boundary so a fill landing on the boundary still fires.
func (g *GateEngine) fillDue(c GateConfig) bool {
	p := &g.head
	switch {
	case p.InSection2:
		return false
	case !c.Sectioned():
		return false
	case c.FillStart <= 0 || c.FillStart >= c.SplitPoint:
		return false
	case c.Section1Reps <= 1:
		return false
	case p.Section1Count != c.Section1Reps-1:
		return false
	}
	return p.Step >= c.FillStart
}

// bounce skips the end step on each turnaround: it lands on length-2 at the top
// and on 1 at the bottom.
func (g *GateEngine) bounce(length int) {
	p := &g.head
	if p.PingpongForward {
		p.Step++
		if p.Step >= length {
			p.Step = length - 2
			if p.Step < 0 {
				p.Step = 0
			}
			p.PingpongForward = false
		}
		return
	}
	p.Step--
	if p.Step < 0 {
		p.Step = 1
		if p.Step >= length {
			p.Step = length - 1
		}
		p.PingpongForward = true
	}
}

// Fire arms the trigger pulse when the current step is not Off and returns its state
func (g *GateEngine) Fire(pulse int) GateState {
	s := g.StepState(g.head.Step)
	if s != GateOff {
		g.trigger = pulse
	}
	return s
}

// Countdown shortens the trigger pulse by the samples processed this cycle
func (g *GateEngine) Countdown(frames int) {
	if g.trigger <= 0 {
		return
	}
	g.trigger -= frames
	if g.trigger < 0 {
		g.trigger = 0
	}
}
