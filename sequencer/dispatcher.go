package sequencer

// Listener is told about every accepted advance, in index order.
// Implementations run inside the cycle and must not block.
type Listener interface {
	CVAdvanced(seq, step int, values [NumOutputs]int16)
	GateTriggered(track, step int, state GateState)
}

// Dispatcher feeds edge events to every engine instance. Instances never
// interact; the fixed index order only matters to the listener.
type Dispatcher struct {
	CV    [NumSequencers]CVEngine
	Gates [NumTracks]GateEngine

	pulse    int // trigger length in samples
	listener Listener
}

// NewDispatcher creates all engines at their start positions
func NewDispatcher(pulseSamples int) *Dispatcher {
	d := &Dispatcher{pulse: pulseSamples}
	for i := range d.CV {
		d.CV[i] = NewCVEngine()
	}
	for i := range d.Gates {
		d.Gates[i] = NewGateEngine()
	}
	return d
}

// SetListener sets the advance listener (nil to remove)
func (d *Dispatcher) SetListener(l Listener) {
	d.listener = l
}

// Tick runs one cycle of frames samples
func (d *Dispatcher) Tick(ev Edges, p *Params, frames int) {
	for i := range d.CV {
		e := &d.CV[i]
		c := p.Sequencers[i]

		e.Clamp(c)
		if ev.Reset {
			e.Reset(c)
		}
		if ev.Clock {
			e.Advance(c)
			e.Clamp(c)
			if d.listener != nil {
				step := e.CurrentStep()
				d.listener.CVAdvanced(i, step, e.Table[step])
			}
		}
	}

	for i := range d.Gates {
		g := &d.Gates[i]
		c := p.Tracks[i]

		// Stopped tracks are frozen, including the trigger countdown,
		// but still kept inside their length
		g.Clamp(c)
		if !c.Running {
			continue
		}

		if ev.Reset {
			g.Reset(c)
		}
		if ev.Clock {
			g.Advance(c)
			g.Clamp(c)
			state := g.Fire(d.pulse)
			if state != GateOff && d.listener != nil {
				d.listener.GateTriggered(i, g.CurrentStep(), state)
			}
		}
		g.Countdown(frames)
	}
}
