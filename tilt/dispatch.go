package tilt

import (
	"libdb.so/tiltglow/animation"
	"libdb.so/tiltglow/internal/led"
	"libdb.so/tiltglow/lis3dh"
)

// Dispatcher owns one instance of each animation. Only the animation picked
// for a tick renders and advances; the others keep their phase, so tilting
// away and back resumes where the pattern left off.
//
// A Dispatcher must not be used concurrently.
type Dispatcher struct {
	right    animation.RightTilt
	left     animation.LeftTilt
	forward  animation.ForwardTilt
	backward animation.BackwardTilt
}

// NewDispatcher creates a Dispatcher with every animation at its start.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Animation returns the animation for the given direction, or nil for None.
func (d *Dispatcher) Animation(dir Direction) animation.Animation {
	switch dir {
	case Right:
		return &d.right
	case Left:
		return &d.left
	case Forward:
		return &d.forward
	case Backward:
		return &d.backward
	default:
		return nil
	}
}

// Next classifies the raw sample, renders the selected animation's current
// frame and advances it. A blank frame is returned when no direction is
// selected.
func (d *Dispatcher) Next(s lis3dh.Sample) (led.Frame, Direction) {
	dir := Classify(s)
	return d.Step(dir), dir
}

// Step renders then advances the animation for dir.
func (d *Dispatcher) Step(dir Direction) led.Frame {
	var f led.Frame
	switch dir {
	case Right:
		f = d.right.Render()
		d.right.Advance()
	case Left:
		f = d.left.Render()
		d.left.Advance()
	case Forward:
		f = d.forward.Render()
		d.forward.Advance()
	case Backward:
		f = d.backward.Render()
		d.backward.Advance()
	}
	return f
}
