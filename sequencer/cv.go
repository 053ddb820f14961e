package sequencer

// CVTable holds three signed 16-bit values per step. -32768 is 0V, 32767 is 10V.
type CVTable [MaxSteps][NumOutputs]int16

// CVEngine is one CV sequencer: a step table and its playhead
type CVEngine struct {
	Table CVTable
	head  Playhead
}

// NewCVEngine creates an engine at the start of its sequence
func NewCVEngine() CVEngine {
	return CVEngine{head: startPlayhead()}
}

// CurrentStep returns the playing step
func (e *CVEngine) CurrentStep() int {
	return e.head.Step
}

// StepValue returns the value of one output at a step
func (e *CVEngine) StepValue(step, out int) int16 {
	if step < 0 || step >= MaxSteps || out < 0 || out >= NumOutputs {
		return 0
	}
	return e.Table[step][out]
}

// Playhead returns a copy of the runtime state
func (e *CVEngine) Playhead() Playhead {
	return e.head
}

// Reset returns to step 0 (last step for Backward) and clears all counters
func (e *CVEngine) Reset(c SequencerConfig) {
	e.head.reset(c)
}

// Clamp keeps the playhead inside the configured length
func (e *CVEngine) Clamp(c SequencerConfig) {
	e.head.clamp(c.Length)
}

// Advance moves one step. Call at most once per accepted clock edge.
func (e *CVEngine) Advance(c SequencerConfig) {
	p := &e.head
	if !c.Sectioned() {
		switch c.Direction {
		case Forward:
			p.wrapForward(c.Length)
		case Backward:
			p.wrapBackward(c.Length)
		case Pingpong:
			e.bounce(c.Length, 0)
		}
		return
	}

	switch c.Direction {
	case Forward:
		p.Step++
		p.sectionForward(c)
	case Backward:
		p.Step--
		p.sectionBackward(c)
	case Pingpong:
		// Sections are ignored; the bounce covers the whole sequence and turns
		// around as soon as it lands on step 0.
		e.bounce(c.Length, 1)
	}
}

// bounce repeats the end step instead of skipping it. The downward turn happens
// when the step drops below lowTurn.
func (e *CVEngine) bounce(length, lowTurn int) {
	p := &e.head
	if p.PingpongForward {
		p.Step++
		if p.Step >= length {
			p.Step = length - 1
			p.PingpongForward = false
		}
		return
	}
	p.Step--
	if p.Step < lowTurn {
		p.Step = 0
		p.PingpongForward = true
	}
}
