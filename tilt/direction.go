// Package tilt maps accelerometer samples to the animation that should be on
// the matrix and drives the per-tick pipeline.
package tilt

import (
	"fmt"

	"libdb.so/tiltglow/lis3dh"
)

// Direction is the classified tilt of the board.
type Direction uint8

const (
	None Direction = iota
	Right
	Left
	Forward
	Backward
)

// String returns a string representation of the direction.
func (d Direction) String() string {
	switch d {
	case None:
		return "none"
	case Right:
		return "right"
	case Left:
		return "left"
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", d)
	}
}

// Deadzone is the tilt, in g, that an axis has to exceed before it counts.
const Deadzone = 0.2

// Orient converts a raw sample into board coordinates. The sensor is mounted
// so that tilting the board right reads as negative x, and likewise for y.
func Orient(s lis3dh.Sample) lis3dh.Sample {
	return lis3dh.Sample{X: -s.X, Y: -s.Y, Z: s.Z}
}

// Classify returns the direction of a raw sample.
func Classify(s lis3dh.Sample) Direction {
	o := Orient(s)
	return classify(o.X, o.Y)
}

// classify works on oriented values. Only the axis with the larger magnitude
// is looked at; ties go to y. The deadzone bounds are exclusive.
func classify(x, y float32) Direction {
	if abs(x) > abs(y) {
		switch {
		case x > Deadzone:
			return Right
		case x < -Deadzone:
			return Left
		}
		return None
	}

	switch {
	case y > Deadzone:
		return Forward
	case y < -Deadzone:
		return Backward
	}
	return None
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
