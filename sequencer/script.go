package sequencer

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ApplyScript fills patterns from a Starlark script. The script may define
//
//	def cv(seq, step, out): return volts  # 0-10, clamped
//	def gate(track, step): return state   # 0=off 1=normal 2=accent
//
// and every step of the matching tables is overwritten with the result.
func ApplyScript(p *Patterns, name, src string) error {
	thread := &starlark.Thread{Name: name}
	opts := syntax.FileOptions{}
	globals, err := starlark.ExecFileOptions(&opts, thread, name, src, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	cvFn, hasCV := callable(globals, "cv")
	gateFn, hasGate := callable(globals, "gate")
	if !hasCV && !hasGate {
		return fmt.Errorf("%s: %w", name, ErrScriptFunction)
	}

	// Evaluate into a copy so a failing script leaves the patterns untouched
	next := *p

	if hasCV {
		for seq := 0; seq < NumSequencers; seq++ {
			for step := 0; step < MaxSteps; step++ {
				for out := 0; out < NumOutputs; out++ {
					volts, err := callNumber(thread, cvFn, seq, step, out)
					if err != nil {
						return fmt.Errorf("%s: cv(%d, %d, %d): %w", name, seq, step, out, err)
					}
					next.CV[seq][step][out] = FromVolts(volts)
				}
			}
		}
	}

	if hasGate {
		for track := 0; track < NumTracks; track++ {
			for step := 0; step < MaxSteps; step++ {
				v, err := callNumber(thread, gateFn, track, step)
				if err != nil {
					return fmt.Errorf("%s: gate(%d, %d): %w", name, track, step, err)
				}
				next.Gates[track][step] = clampGateState(v)
			}
		}
	}

	*p = next
	return nil
}

func callable(globals starlark.StringDict, name string) (starlark.Callable, bool) {
	v, ok := globals[name]
	if !ok {
		return nil, false
	}
	fn, ok := v.(starlark.Callable)
	return fn, ok
}

func callNumber(thread *starlark.Thread, fn starlark.Callable, args ...int) (float64, error) {
	tuple := make(starlark.Tuple, len(args))
	for i, a := range args {
		tuple[i] = starlark.MakeInt(a)
	}
	rc, err := starlark.Call(thread, fn, tuple, nil)
	if err != nil {
		return 0, err
	}
	switch v := rc.(type) {
	case starlark.Bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case starlark.Int, starlark.Float:
		f, ok := starlark.AsFloat(v)
		if !ok {
			return 0, ErrScriptValue
		}
		return f, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrScriptValue, rc.Type())
}
