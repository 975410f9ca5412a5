package tilt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libdb.so/tiltglow/internal/led"
	"libdb.so/tiltglow/lis3dh"
)

// Interval is the default delay between two ticks.
const Interval = 50 * time.Millisecond

// Sensor produces one raw accelerometer sample per call. *lis3dh.Device
// implements it.
type Sensor interface {
	ReadAcceleration() (lis3dh.Sample, error)
}

// Sink pushes a frame to the matrix. The frame must be latched as a whole;
// it is only valid for the duration of the call.
type Sink interface {
	WriteFrame(f *led.Frame) error
}

var _ Sensor = (*lis3dh.Device)(nil)

// ErrDone may be returned by a Sensor that has no more samples. It ends Run
// without an error.
var ErrDone = errors.New("sensor has no more samples")

// Tick describes what happened during one iteration of the loop.
type Tick struct {
	// Sample is the oriented sample, in board coordinates.
	Sample    lis3dh.Sample
	Direction Direction
	Frame     led.Frame
}

// Loop reads the sensor, picks an animation and writes its frame, once per
// Interval.
type Loop struct {
	Sensor     Sensor
	Sink       Sink
	Dispatcher *Dispatcher
	// Interval is the delay between ticks. Zero means the package Interval.
	Interval time.Duration
	// OnTick, if not nil, is called after every tick that read a sample.
	OnTick func(*Tick)
	// OnError, if not nil, is called with the error of every failed tick.
	OnError func(error)
}

// Step runs a single tick. If the sensor cannot be read, nothing is
// classified, advanced or written and the read error is returned, so the
// matrix keeps showing the previous frame. If the sink fails, the animation
// has already advanced.
func (l *Loop) Step() (*Tick, error) {
	if l.Dispatcher == nil {
		l.Dispatcher = NewDispatcher()
	}

	s, err := l.Sensor.ReadAcceleration()
	if err != nil {
		return nil, fmt.Errorf("failed to read sensor: %w", err)
	}

	t := Tick{Sample: Orient(s)}
	t.Frame, t.Direction = l.Dispatcher.Next(s)

	if l.OnTick != nil {
		l.OnTick(&t)
	}

	if err := l.Sink.WriteFrame(&t.Frame); err != nil {
		return &t, fmt.Errorf("failed to write frame: %w", err)
	}

	return &t, nil
}

// Run runs the loop until ctx is done or the sensor returns ErrDone. Other
// failed ticks are reported to OnError and never stop the loop.
func (l *Loop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = Interval
	}

	for {
		if _, err := l.Step(); err != nil {
			if errors.Is(err, ErrDone) {
				return nil
			}
			if l.OnError != nil {
				l.OnError(err)
			}
		}

		if err := sleep(ctx, interval); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
