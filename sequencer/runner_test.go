package sequencer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunnerStep(t *testing.T) {
	assert := assert.New(t)

	levels := &Levels{}
	r := NewRunner(NewMachine(48000), levels, 0)
	assert.Equal(time.Duration(128)*time.Second/48000, r.Period())

	assert.Equal(Edges{}, r.Step())
	select {
	case <-r.UpdateChan:
		t.Fatal("no update without an edge")
	default:
	}

	levels.Clock = 1
	assert.Equal(Edges{Clock: true}, r.Step())
	assert.Equal(Edges{}, r.Step())
	<-r.UpdateChan

	assert.Equal(uint64(3), r.Cycles())
	assert.Equal(uint64(1), r.Clocks())
	assert.Equal(1, r.Snapshot().CV[0].Playhead.Step)
}

func TestRunnerEdit(t *testing.T) {
	r := NewRunner(NewMachine(48000), &Levels{}, 64)
	r.Edit(func(m *Machine) {
		m.SetStepState(0, 0, GateAccent)
	})
	<-r.UpdateChan
	assert.Equal(t, GateAccent, r.Snapshot().Patterns.Gates[0][0])
}

func TestRunnerRunStopsOnCancel(t *testing.T) {
	r := NewRunner(NewMachine(48000), &Levels{}, 128)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
	assert.Greater(t, r.Cycles(), uint64(0))
}
