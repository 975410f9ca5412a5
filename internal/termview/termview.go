// Package termview draws LED frames on a true-color terminal.
package termview

import (
	"bufio"
	"fmt"
	"io"

	"libdb.so/tiltglow/internal/led"
)

// Brightness scales channel values before drawing. The matrix runs at a
// quarter of full brightness, which looks too dim on a screen.
const Brightness = 3

// View draws frames onto a terminal, redrawing in place.
type View struct {
	w     *bufio.Writer
	drawn bool
	// Plain disables colors: lit pixels are drawn as '#', unlit ones as '.'.
	Plain bool
}

// New creates a new View writing to w.
func New(w io.Writer) *View {
	return &View{w: bufio.NewWriter(w)}
}

// WriteFrame draws f, replacing the previously drawn frame.
func (v *View) WriteFrame(f *led.Frame) error {
	if v.drawn && !v.Plain {
		// Move the cursor back up over the previous frame.
		fmt.Fprintf(v.w, "\x1b[%dA", led.Height)
	}
	v.drawn = true

	for row := 0; row < led.Height; row++ {
		for col := 0; col < led.Width; col++ {
			c := f.At(row, col)
			switch {
			case v.Plain && c.IsOff():
				v.w.WriteString(". ")
			case v.Plain:
				v.w.WriteString("# ")
			default:
				r, g, b := scale(c.R()), scale(c.G()), scale(c.B())
				fmt.Fprintf(v.w, "\x1b[38;2;%d;%d;%dm●\x1b[0m ", r, g, b)
			}
		}
		v.w.WriteByte('\n')
	}

	return v.w.Flush()
}

func scale(c uint8) uint8 {
	v := int(c) * Brightness
	if v > 0xFF {
		return 0xFF
	}
	return uint8(v)
}
