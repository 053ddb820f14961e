package midi

// MIDI realtime status bytes handled by the clock input
const (
	TimingClock uint8 = 0xF8
	Start       uint8 = 0xFA
	Continue    uint8 = 0xFB
	Stop        uint8 = 0xFC
)

// PulsesPerQuarter is the MIDI clock resolution
const PulsesPerQuarter = 24

// DefaultDivider turns 24 ppqn into sixteenth note steps
const DefaultDivider = PulsesPerQuarter / 4

// RealtimeName names a realtime status byte for monitors
func RealtimeName(status uint8) string {
	switch status {
	case TimingClock:
		return "clock"
	case Start:
		return "start"
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	}
	return ""
}
