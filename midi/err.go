package midi

import (
	"errors"
)

var (
	ErrPortNotFound = errors.New("midi port not found")
	ErrPortTimeout  = errors.New("timed out listing midi ports")
	ErrQueueFull    = errors.New("midi output queue full")
)
