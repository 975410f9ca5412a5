// Package animation contains the four tilt patterns drawn on the matrix.
//
// Every animation is a tiny state machine: Render draws the current phase and
// has no side effects, Advance moves the phase forward by exactly one tick.
// Motion comes entirely from the caller ticking at a fixed rate.
package animation

import (
	"math"

	"libdb.so/tiltglow/internal/led"
)

// Animation is the capability set shared by all patterns.
type Animation interface {
	// Advance moves the animation forward by one tick.
	Advance()
	// Render draws the current phase. Calling it twice without an Advance in
	// between returns the same frame.
	Render() led.Frame
}

// Pattern colors.
var (
	Green   = led.RGB(0, 64, 0)
	Magenta = led.RGB(64, 0, 64)
	Blue    = led.RGB(0, 0, 64)
	Yellow  = led.RGB(64, 64, 0)
)

var (
	_ Animation = (*RightTilt)(nil)
	_ Animation = (*LeftTilt)(nil)
	_ Animation = (*ForwardTilt)(nil)
	_ Animation = (*BackwardTilt)(nil)
)

const maxIndex = led.Width - 1

// RightTilt is a vertical bar bouncing between the first and last column.
// The zero value starts at column 0 moving right.
type RightTilt struct {
	position   int
	descending bool
}

// NewRightTilt creates a RightTilt at column 0 moving right.
func NewRightTilt() *RightTilt {
	return &RightTilt{}
}

// Position returns the column the bar is drawn in.
func (a *RightTilt) Position() int { return a.position }

// Ascending returns whether the bar is moving towards the last column.
func (a *RightTilt) Ascending() bool { return !a.descending }

// Advance moves the bar by one column, turning around at either end so that
// no endpoint is drawn twice in a row.
func (a *RightTilt) Advance() {
	if !a.descending {
		if a.position < maxIndex {
			a.position++
		} else {
			a.descending = true
			a.position--
		}
	} else {
		if a.position > 0 {
			a.position--
		} else {
			a.descending = false
			a.position++
		}
	}
}

func (a *RightTilt) Render() led.Frame {
	var f led.Frame
	for row := 0; row < led.Height; row++ {
		f.Set(row, a.position, Green)
	}
	return f
}

// LeftTilt is a sine ripple travelling across the columns.
type LeftTilt struct {
	phase uint8
}

const leftTiltPhases = 8

// NewLeftTilt creates a LeftTilt at phase 0.
func NewLeftTilt() *LeftTilt {
	return &LeftTilt{}
}

// Phase returns the current phase in [0, 8).
func (a *LeftTilt) Phase() uint8 { return a.phase }

func (a *LeftTilt) Advance() {
	a.phase = (a.phase + 1) % leftTiltPhases
}

// Row returns the row lit in the given column for the current phase.
func (a *LeftTilt) Row(col int) int {
	wave := (float64(a.phase) + float64(col)*0.8) * 0.8
	row := int(math.Round(math.Sin(wave)*3.5 + 3.5))
	return clamp(row, 0, maxIndex)
}

func (a *LeftTilt) Render() led.Frame {
	var f led.Frame
	for col := 0; col < led.Width; col++ {
		f.Set(a.Row(col), col, Magenta)
	}
	return f
}

// ForwardTilt is a ring pulsing around the center of the matrix.
type ForwardTilt struct {
	frame uint8
}

const (
	forwardTiltFrames = 16
	ringTolerance     = 0.8
	center            = float64(maxIndex) / 2
)

// NewForwardTilt creates a ForwardTilt at frame 0.
func NewForwardTilt() *ForwardTilt {
	return &ForwardTilt{}
}

// Frame returns the current frame in [0, 16).
func (a *ForwardTilt) Frame() uint8 { return a.frame }

func (a *ForwardTilt) Advance() {
	a.frame = (a.frame + 1) % forwardTiltFrames
}

// Radius returns the ring radius for the current frame.
func (a *ForwardTilt) Radius() float64 {
	return math.Abs(math.Sin(float64(a.frame)*math.Pi/8)*3 + 1)
}

func (a *ForwardTilt) Render() led.Frame {
	var f led.Frame
	radius := a.Radius()
	for row := 0; row < led.Height; row++ {
		for col := 0; col < led.Width; col++ {
			dx := float64(col) - center
			dy := float64(row) - center
			dist := math.Sqrt(dx*dx + dy*dy)
			if math.Abs(dist-radius) < ringTolerance {
				f.Set(row, col, Blue)
			}
		}
	}
	return f
}

// BackwardTilt is a diagonal stripe texture scrolling at half the tick rate.
// Its counter wraps around at 256.
type BackwardTilt struct {
	frame uint8
}

const stripeSpacing = 4

// NewBackwardTilt creates a BackwardTilt at frame 0.
func NewBackwardTilt() *BackwardTilt {
	return &BackwardTilt{}
}

// Frame returns the raw frame counter.
func (a *BackwardTilt) Frame() uint8 { return a.frame }

func (a *BackwardTilt) Advance() {
	a.frame++ // wraps
}

func (a *BackwardTilt) Render() led.Frame {
	var f led.Frame
	shift := int(a.frame / 2)
	for y := 0; y < led.Height; y++ {
		for x := 0; x < led.Width; x++ {
			if (x+y+shift)%stripeSpacing == 0 {
				f.Set(y, x, Yellow)
			}
		}
	}
	return f
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
