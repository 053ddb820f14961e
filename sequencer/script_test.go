package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rampScript = `
def cv(seq, step, out):
    return 10.0 * step / 31

def gate(track, step):
    if step % 4 == 0:
        return 2 if track == 0 else 1
    return 0
`

func TestApplyScript(t *testing.T) {
	assert := assert.New(t)

	p := NewPatterns()
	require.NoError(t, ApplyScript(p, "ramp.star", rampScript))

	assert.Equal(FromVolts(0), p.CV[0][0][0])
	assert.Equal(FromVolts(10), p.CV[2][31][2])
	assert.InDelta(10.0*16/31, Volts(p.CV[1][16][1]), 0.001)

	assert.Equal(GateAccent, p.Gates[0][4])
	assert.Equal(GateNormal, p.Gates[1][4])
	assert.Equal(GateOff, p.Gates[1][5])
}

func TestApplyScriptGateOnly(t *testing.T) {
	p := NewPatterns()
	before := p.CV
	src := "def gate(track, step):\n    return step == track\n"
	require.NoError(t, ApplyScript(p, "diag.star", src))

	assert.Equal(t, before, p.CV)
	assert.Equal(t, GateNormal, p.Gates[3][3])
	assert.Equal(t, GateOff, p.Gates[3][4])
}

func TestApplyScriptErrors(t *testing.T) {
	p := NewPatterns()
	before := *p

	err := ApplyScript(p, "none.star", "x = 1\n")
	assert.ErrorIs(t, err, ErrScriptFunction)

	err = ApplyScript(p, "bad.star", "def cv(seq, step, out):\n    return 'high'\n")
	assert.ErrorIs(t, err, ErrScriptValue)

	err = ApplyScript(p, "late.star", "def cv(seq, step, out):\n    return 5\n\ndef gate(track, step):\n    return 1 // (step - 10)\n")
	assert.Error(t, err)

	err = ApplyScript(p, "syntax.star", "def cv(:\n")
	assert.Error(t, err)

	assert.Equal(t, before, *p, "failed scripts leave patterns untouched")
}
