package sequencer

import (
	"sync/atomic"

	"vseq/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDISettings controls which MIDI messages the emitter sends.
// Channels are 1-16, 0 is off.
type MIDISettings struct {
	CVChannels       [NumSequencers][NumOutputs]uint8 `json:"cvChannels"`
	CVVelocitySource [NumSequencers]int               `json:"cvVelocitySource"` // 0=fixed, 1-3 = use that output
	TriggerChannel   uint8                            `json:"triggerChannel"`
	GateCC           [NumTracks]uint8                 `json:"gateCC"`
	TriggerVelocity  uint8                            `json:"triggerVelocity"`
	AccentVelocity   uint8                            `json:"accentVelocity"`
}

// DefaultVelocity is used for CV notes with no velocity source
const DefaultVelocity = 100

// DefaultMIDISettings has all MIDI output off
func DefaultMIDISettings() MIDISettings {
	return MIDISettings{
		TriggerVelocity: 100,
		AccentVelocity:  127,
	}
}

// MIDIEmitter turns accepted advances into MIDI: a note per CV output and a
// CC per gate trigger. It implements Listener.
type MIDIEmitter struct {
	settings MIDISettings
	send     func(gomidi.Message) error
	failures atomic.Uint64
}

// NewMIDIEmitter creates an emitter writing to send
func NewMIDIEmitter(settings MIDISettings, send func(gomidi.Message) error) *MIDIEmitter {
	return &MIDIEmitter{settings: settings, send: send}
}

// Failures returns how many sends returned an error
func (e *MIDIEmitter) Failures() uint64 {
	return e.failures.Load()
}

// CVAdvanced sends a note on for each output with a channel assigned
func (e *MIDIEmitter) CVAdvanced(seq, step int, values [NumOutputs]int16) {
	if seq < 0 || seq >= NumSequencers {
		return
	}
	velocity := uint8(DefaultVelocity)
	if src := e.settings.CVVelocitySource[seq]; src >= 1 && src <= NumOutputs {
		velocity = toMIDI7(values[src-1])
	}

	for out := 0; out < NumOutputs; out++ {
		ch := e.settings.CVChannels[seq][out]
		if ch < 1 || ch > 16 {
			continue
		}
		e.emit(gomidi.NoteOn(ch-1, toMIDI7(values[out]), velocity))
	}
}

// GateTriggered sends the track's CC with the normal or accent velocity
func (e *MIDIEmitter) GateTriggered(track, step int, state GateState) {
	ch := e.settings.TriggerChannel
	if ch < 1 || ch > 16 || track < 0 || track >= NumTracks {
		return
	}
	value := e.settings.TriggerVelocity
	if state == GateAccent {
		value = e.settings.AccentVelocity
	}
	e.emit(gomidi.ControlChange(ch-1, e.settings.GateCC[track]&0x7F, value&0x7F))
}

func (e *MIDIEmitter) emit(msg gomidi.Message) {
	if e.send == nil {
		return
	}
	if err := e.send(msg); err != nil {
		n := e.failures.Add(1)
		if n == 1 {
			debug.Log("midi", "send failed: %v", err)
		}
	}
}

// toMIDI7 scales a step value to 0-127
func toMIDI7(v int16) uint8 {
	n := int(Normalized(v) * 127)
	if n > 127 {
		n = 127
	}
	return uint8(n)
}
