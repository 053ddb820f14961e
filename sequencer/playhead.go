package sequencer

// Playhead is the runtime position of one engine instance. It is owned by its
// engine and only changes on reset and accepted clock edges. It is never persisted.
type Playhead struct {
	Step            int
	PingpongForward bool
	Section1Count   int // completed repeats of section 1
	Section2Count   int // completed repeats of section 2
	InSection2      bool
}

func startPlayhead() Playhead {
	return Playhead{PingpongForward: true}
}

// reset puts the playhead at the start of the sequence for the configured direction
func (p *Playhead) reset(c SequencerConfig) {
	*p = startPlayhead()
	if c.Direction == Backward {
		p.Step = c.Length - 1
	}
}

// clamp keeps the step inside [0, length) after the length shrinks
func (p *Playhead) clamp(length int) {
	if p.Step >= length {
		p.Step = length - 1
	}
	if p.Step < 0 {
		p.Step = 0
	}
}

func (p *Playhead) wrapForward(length int) {
	p.Step++
	if p.Step >= length {
		p.Step = 0
	}
}

func (p *Playhead) wrapBackward(length int) {
	p.Step--
	if p.Step < 0 {
		p.Step = length - 1
	}
}

// sectionForward handles the section boundaries after the step was incremented.
// Section 1 is [0, split), section 2 is [split, length).
func (p *Playhead) sectionForward(c SequencerConfig) {
	if !p.InSection2 {
		if p.Step < c.SplitPoint {
			return
		}
		p.Section1Count++
		if p.Section1Count >= c.Section1Reps {
			p.enterSection2(c.SplitPoint)
		} else {
			p.Step = 0
		}
		return
	}

	if p.Step < c.Length {
		return
	}
	p.Section2Count++
	if p.Section2Count >= c.Section2Reps {
		p.Section2Count = 0
		p.InSection2 = false
		p.Step = 0
	} else {
		p.Step = c.SplitPoint
	}
}

// sectionBackward mirrors sectionForward: boundaries are below split and below 0
func (p *Playhead) sectionBackward(c SequencerConfig) {
	if p.InSection2 {
		if p.Step >= c.SplitPoint {
			return
		}
		p.Section2Count++
		if p.Section2Count >= c.Section2Reps {
			p.Section2Count = 0
			p.InSection2 = false
			p.Step = c.SplitPoint - 1
		} else {
			p.Step = c.Length - 1
		}
		return
	}

	if p.Step >= 0 {
		return
	}
	p.Section1Count++
	if p.Section1Count >= c.Section1Reps {
		p.Section1Count = 0
		p.InSection2 = true
		p.Step = c.Length - 1
	} else {
		p.Step = c.SplitPoint - 1
	}
}

func (p *Playhead) enterSection2(split int) {
	p.Section1Count = 0
	p.InSection2 = true
	p.Step = split
}
