package tiltglow

import (
	"bufio"
	"io"
	"strconv"

	"github.com/google/shlex"
	"github.com/pkg/errors"
	"libdb.so/tiltglow/lis3dh"
	"libdb.so/tiltglow/tilt"
)

// ErrBusFailure is returned by a ScriptedSensor for ticks scripted to fail.
var ErrBusFailure = errors.New("scripted bus failure")

// ScriptStep is one command of a sensor script.
type ScriptStep struct {
	// Sample is the raw sample reported, unless Fail is set.
	Sample lis3dh.Sample
	// Fail makes the sensor fail instead of reporting a sample.
	Fail bool
	// Ticks is how many ticks the step lasts.
	Ticks int
}

// ParseScript parses a sensor script. Every line is one command:
//
//	sample X Y Z [TICKS]   report the raw sample (X, Y, Z) for TICKS ticks
//	fail [TICKS]           fail the bus for TICKS ticks
//
// TICKS defaults to 1. Empty lines and text after '#' are ignored.
func ParseScript(r io.Reader) ([]ScriptStep, error) {
	var steps []ScriptStep

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		words, err := shlex.Split(scanner.Text())
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		if len(words) == 0 {
			continue
		}

		step, err := parseStep(words)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		steps = append(steps, step)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read script")
	}

	return steps, nil
}

func parseStep(words []string) (ScriptStep, error) {
	step := ScriptStep{Ticks: 1}

	var args []string
	switch cmd := words[0]; cmd {
	case "sample":
		if len(words) < 4 || len(words) > 5 {
			return step, errors.New("usage: sample X Y Z [TICKS]")
		}
		axes := [3]*float32{&step.Sample.X, &step.Sample.Y, &step.Sample.Z}
		for i, axis := range axes {
			v, err := strconv.ParseFloat(words[1+i], 32)
			if err != nil {
				return step, errors.Wrapf(err, "invalid axis value %q", words[1+i])
			}
			*axis = float32(v)
		}
		args = words[4:]
	case "fail":
		if len(words) > 2 {
			return step, errors.New("usage: fail [TICKS]")
		}
		step.Fail = true
		args = words[1:]
	default:
		return step, errors.Errorf("unknown command %q", cmd)
	}

	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return step, errors.Errorf("invalid tick count %q", args[0])
		}
		step.Ticks = n
	}

	return step, nil
}

// ScriptedSensor replays a sensor script. It implements tilt.Sensor.
type ScriptedSensor struct {
	steps []ScriptStep
	loop  bool
	step  int
	tick  int
}

var _ tilt.Sensor = (*ScriptedSensor)(nil)

// NewScriptedSensor creates a sensor replaying steps. If loop is true, the
// script restarts after the last step; otherwise the sensor reports
// tilt.ErrDone.
func NewScriptedSensor(steps []ScriptStep, loop bool) *ScriptedSensor {
	return &ScriptedSensor{steps: steps, loop: loop}
}

func (s *ScriptedSensor) ReadAcceleration() (lis3dh.Sample, error) {
	if s.step >= len(s.steps) {
		if !s.loop || len(s.steps) == 0 {
			return lis3dh.Sample{}, tilt.ErrDone
		}
		s.step = 0
	}

	step := s.steps[s.step]

	s.tick++
	if s.tick >= step.Ticks {
		s.tick = 0
		s.step++
	}

	if step.Fail {
		return lis3dh.Sample{}, ErrBusFailure
	}
	return step.Sample, nil
}
