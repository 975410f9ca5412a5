// Package led contains the color and pixel buffer types shared by the host
// tools and the firmware.
package led

import (
	"image/color"
	"io"
	"unsafe"
)

// RGBColor is a color with one byte per channel, in red, green, blue order.
type RGBColor [3]uint8

// Off is the color of an unlit LED.
var Off = RGBColor{}

// RGB creates a new RGBColor.
func RGB(r, g, b uint8) RGBColor {
	return RGBColor{r, g, b}
}

// R returns the red channel.
func (c RGBColor) R() uint8 { return c[0] }

// G returns the green channel.
func (c RGBColor) G() uint8 { return c[1] }

// B returns the blue channel.
func (c RGBColor) B() uint8 { return c[2] }

// IsOff returns true if all channels are zero.
func (c RGBColor) IsOff() bool { return c == Off }

// ToRGBA converts the color into an opaque color.RGBA, which is what the
// ws2812 driver consumes.
func (c RGBColor) ToRGBA() color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xFF}
}

// LEDs describes a strip of LEDs. It is a preallocated slice of RGBColor.
type LEDs []RGBColor

// NewLEDs creates a new strip of LEDs. Colors are initialized to black
// (off).
func NewLEDs(numLEDs int) LEDs {
	return make(LEDs, numLEDs)
}

// WriteTo implements io.WriterTo. It writes the LED strip to the given writer
// as a series of RGBColor values.
func (l LEDs) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, c := range l {
		n, err := w.Write(c[:])
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// AsPixels returns the LED strip as a slice of uint8 values. Each LED is
// represented by three values, one for each color channel. The returned slice
// aliases the strip.
func (l LEDs) AsPixels() []uint8 {
	if len(l) == 0 {
		return nil
	}
	return unsafe.Slice((*uint8)(unsafe.Pointer(&l[0])), 3*len(l))
}

// SetRange sets the color of the LEDs in the given range.
func (l LEDs) SetRange(start, end int, c RGBColor) {
	for i := start; i < end; i++ {
		l[i] = c
	}
}

// Clear turns every LED off.
func (l LEDs) Clear() {
	l.SetRange(0, len(l), Off)
}

// CopyRGBA converts the strip into dst, which must be at least as long as the
// strip. It returns the number of colors written.
func (l LEDs) CopyRGBA(dst []color.RGBA) int {
	n := len(l)
	if len(dst) < n {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = l[i].ToRGBA()
	}
	return n
}
