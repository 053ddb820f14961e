package sequencer

import (
	"errors"
)

var (
	// Preset errors
	ErrNoSaves         = errors.New("no saves found")
	ErrInvalidSaveName = errors.New("invalid save filename")
	ErrInvalidProject  = errors.New("invalid project name")

	// Script errors
	ErrScriptFunction = errors.New("script defines neither cv nor gate")
	ErrScriptValue    = errors.New("script returned a non-numeric value")
)
