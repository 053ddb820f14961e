package sequencer

// EdgeThreshold is the level a signal must rise above to count as high
const EdgeThreshold = 0.5

// Edges are the events detected in one cycle
type Edges struct {
	Clock bool
	Reset bool
}

// EdgeDetector turns clock and reset levels into rising-edge events.
// It remembers only the previous sample of each signal.
type EdgeDetector struct {
	lastClock float32
	lastReset float32
}

// Detect consumes the current samples and reports which signals rose
func (e *EdgeDetector) Detect(clock, reset float32) Edges {
	ev := Edges{
		Clock: rising(e.lastClock, clock),
		Reset: rising(e.lastReset, reset),
	}
	e.lastClock = clock
	e.lastReset = reset
	return ev
}

func rising(prev, cur float32) bool {
	return prev <= EdgeThreshold && cur > EdgeThreshold
}
