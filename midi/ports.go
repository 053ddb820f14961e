package midi

import (
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// PortTimeout bounds port listing; CoreMIDI can hang
const PortTimeout = 3 * time.Second

type portsResult struct {
	inPorts  []drivers.In
	outPorts []drivers.Out
}

// Ports lists the input and output ports
func Ports() ([]drivers.In, []drivers.Out, error) {
	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	select {
	case result := <-ch:
		return result.inPorts, result.outPorts, nil
	case <-time.After(PortTimeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, nil, ErrPortTimeout
	}
}

// FindInPort returns the first input whose name contains name (case insensitive)
func FindInPort(name string) (drivers.In, error) {
	ins, _, err := Ports()
	if err != nil {
		return nil, err
	}
	for _, p := range ins {
		if matchPort(p.String(), name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: input %q", ErrPortNotFound, name)
}

// FindOutPort returns the first output whose name contains name (case insensitive)
func FindOutPort(name string) (drivers.Out, error) {
	_, outs, err := Ports()
	if err != nil {
		return nil, err
	}
	for _, p := range outs {
		if matchPort(p.String(), name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: output %q", ErrPortNotFound, name)
}

func matchPort(portName, name string) bool {
	if name == "" {
		return false
	}
	return strings.Contains(strings.ToLower(portName), strings.ToLower(name))
}
