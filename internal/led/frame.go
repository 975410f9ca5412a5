package led

// Dimensions of the LED matrix.
const (
	Width  = 8
	Height = 8
	// NumPixels is the number of LEDs in a single frame.
	NumPixels = Width * Height
)

// Frame is one full image for the 8x8 matrix. Pixels are stored row-major:
// the LED at (row, col) lives at index row*Width + col, which is also the
// order the strip is wired in.
//
// The zero value is a frame with every LED off.
type Frame [NumPixels]RGBColor

// Index returns the flat index of the pixel at (row, col).
func Index(row, col int) int {
	return row*Width + col
}

// Set sets the pixel at (row, col).
func (f *Frame) Set(row, col int, c RGBColor) {
	f[Index(row, col)] = c
}

// At returns the pixel at (row, col).
func (f *Frame) At(row, col int) RGBColor {
	return f[Index(row, col)]
}

// LEDs returns the frame as a strip. The strip aliases the frame.
func (f *Frame) LEDs() LEDs {
	return f[:]
}

// IsBlank returns true if no pixel in the frame is lit.
func (f *Frame) IsBlank() bool {
	for _, c := range f {
		if !c.IsOff() {
			return false
		}
	}
	return true
}

// Lit returns the number of lit pixels in the frame.
func (f *Frame) Lit() int {
	var n int
	for _, c := range f {
		if !c.IsOff() {
			n++
		}
	}
	return n
}
