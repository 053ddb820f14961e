package sequencer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	gomidi "gitlab.com/gomidi/midi/v2"
)

type sentMessages struct {
	msgs [][]byte
	err  error
}

func (s *sentMessages) send(msg gomidi.Message) error {
	s.msgs = append(s.msgs, []byte(msg))
	return s.err
}

func TestEmitterCVNotes(t *testing.T) {
	settings := DefaultMIDISettings()
	settings.CVChannels[0] = [NumOutputs]uint8{1, 2, 0}
	settings.CVVelocitySource[0] = 3

	out := &sentMessages{}
	e := NewMIDIEmitter(settings, out.send)
	e.CVAdvanced(0, 4, [NumOutputs]int16{-32768, 32767, 0})

	assert.Equal(t, [][]byte{
		{0x90, 0, 63},
		{0x91, 127, 63},
	}, out.msgs)
}

func TestEmitterFixedVelocity(t *testing.T) {
	settings := DefaultMIDISettings()
	settings.CVChannels[2][1] = 16

	out := &sentMessages{}
	e := NewMIDIEmitter(settings, out.send)
	e.CVAdvanced(2, 0, [NumOutputs]int16{0, 32767, 0})
	e.CVAdvanced(1, 0, [NumOutputs]int16{0, 0, 0})

	assert.Equal(t, [][]byte{{0x9F, 127, DefaultVelocity}}, out.msgs)
}

func TestEmitterGateCC(t *testing.T) {
	settings := DefaultMIDISettings()
	settings.TriggerChannel = 10
	settings.GateCC[2] = 36

	out := &sentMessages{}
	e := NewMIDIEmitter(settings, out.send)
	e.GateTriggered(2, 0, GateNormal)
	e.GateTriggered(2, 1, GateAccent)

	assert.Equal(t, [][]byte{
		{0xB9, 36, 100},
		{0xB9, 36, 127},
	}, out.msgs)
}

func TestEmitterDisabledByDefault(t *testing.T) {
	out := &sentMessages{}
	e := NewMIDIEmitter(DefaultMIDISettings(), out.send)
	e.CVAdvanced(0, 0, [NumOutputs]int16{})
	e.GateTriggered(0, 0, GateAccent)
	assert.Empty(t, out.msgs)
}

func TestEmitterCountsFailures(t *testing.T) {
	settings := DefaultMIDISettings()
	settings.TriggerChannel = 1

	out := &sentMessages{err: errors.New("port closed")}
	e := NewMIDIEmitter(settings, out.send)
	e.GateTriggered(0, 0, GateNormal)
	e.GateTriggered(1, 0, GateNormal)
	assert.Equal(t, uint64(2), e.Failures())
}
