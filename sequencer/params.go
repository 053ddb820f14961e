package sequencer

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Fixed sizes - the hardware voice has exactly three CV sequencers and six gate tracks
const (
	NumSequencers = 3
	NumOutputs    = 3 // CV values per step
	NumTracks     = 6
	MaxSteps      = 32
	MaxReps       = 99
)

// Direction is the playback direction of a sequencer or track
type Direction int

const (
	Forward Direction = iota
	Backward
	Pingpong
)

var directionNames = []string{"Forward", "Backward", "Pingpong"}

func (d Direction) String() string {
	if d < Forward || d > Pingpong {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Next cycles Forward -> Backward -> Pingpong -> Forward
func (d Direction) Next() Direction {
	return (d + 1) % 3
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts the direction name or its index. Unknown values become Forward.
func (d *Direction) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*d = Forward
		for i, n := range directionNames {
			if strings.EqualFold(n, name) {
				*d = Direction(i)
			}
		}
		return nil
	}

	var idx int
	if err := json.Unmarshal(data, &idx); err != nil {
		return err
	}
	*d = Direction(idx)
	if *d < Forward || *d > Pingpong {
		*d = Forward
	}
	return nil
}

// SequencerConfig is the per-instance configuration read every cycle
type SequencerConfig struct {
	Length       int       `json:"length"`       // 1-32
	Direction    Direction `json:"direction"`
	SplitPoint   int       `json:"splitPoint"`   // 0 or >= Length disables sections
	Section1Reps int       `json:"section1Reps"` // 1-99
	Section2Reps int       `json:"section2Reps"` // 1-99
}

// GateConfig adds the gate-only fields
type GateConfig struct {
	SequencerConfig
	FillStart int  `json:"fillStart"` // 1-32
	Running   bool `json:"running"`
}

// Sectioned reports whether the split point divides the sequence into two sections
func (c SequencerConfig) Sectioned() bool {
	return c.SplitPoint > 0 && c.SplitPoint < c.Length
}

// Clamp pulls every field into its valid range
func (c *SequencerConfig) Clamp() {
	c.Length = clampInt(c.Length, 1, MaxSteps)
	if c.Direction < Forward || c.Direction > Pingpong {
		c.Direction = Forward
	}
	c.SplitPoint = clampInt(c.SplitPoint, 0, MaxSteps-1)
	c.Section1Reps = clampInt(c.Section1Reps, 1, MaxReps)
	c.Section2Reps = clampInt(c.Section2Reps, 1, MaxReps)
}

// Clamp pulls every field into its valid range
func (c *GateConfig) Clamp() {
	c.SequencerConfig.Clamp()
	c.FillStart = clampInt(c.FillStart, 1, MaxSteps)
}

// Params holds the configuration of every engine instance
type Params struct {
	Sequencers [NumSequencers]SequencerConfig `json:"sequencers"`
	Tracks     [NumTracks]GateConfig          `json:"tracks"`
}

// DefaultSequencerConfig matches the power-on parameter defaults of a CV sequencer
func DefaultSequencerConfig() SequencerConfig {
	return SequencerConfig{
		Length:       16,
		Direction:    Forward,
		SplitPoint:   8,
		Section1Reps: 1,
		Section2Reps: 1,
	}
}

// DefaultGateConfig matches the power-on parameter defaults of a gate track
func DefaultGateConfig() GateConfig {
	return GateConfig{
		SequencerConfig: SequencerConfig{
			Length:       16,
			Direction:    Forward,
			SplitPoint:   0,
			Section1Reps: 1,
			Section2Reps: 1,
		},
		FillStart: 1,
		Running:   false,
	}
}

// DefaultParams returns parameters for all instances at their defaults
func DefaultParams() Params {
	var p Params
	for i := range p.Sequencers {
		p.Sequencers[i] = DefaultSequencerConfig()
	}
	for i := range p.Tracks {
		p.Tracks[i] = DefaultGateConfig()
	}
	return p
}

// Clamp clamps every instance's configuration
func (p *Params) Clamp() {
	for i := range p.Sequencers {
		p.Sequencers[i].Clamp()
	}
	for i := range p.Tracks {
		p.Tracks[i].Clamp()
	}
}

// SetSequencerLength changes a CV sequencer's length and re-centres its split point.
// Both repeat counts go back to 1.
func (p *Params) SetSequencerLength(seq, length int) {
	if seq < 0 || seq >= NumSequencers {
		return
	}
	c := &p.Sequencers[seq]
	c.Length = clampInt(length, 1, MaxSteps)

	split := c.Length / 2
	if split < 1 {
		split = 1
	}
	if split >= c.Length {
		split = c.Length - 1
	}
	c.SplitPoint = split
	c.Section1Reps = 1
	c.Section2Reps = 1
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
