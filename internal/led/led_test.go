package led

import (
	"bytes"
	"image/color"
	"testing"
)

func TestFrameRowMajor(t *testing.T) {
	var f Frame
	f.Set(2, 5, RGB(1, 2, 3))

	if f[21] != RGB(1, 2, 3) {
		t.Errorf("expected (2, 5) at index 21, got %v", f[21])
	}
	if Index(7, 7) != 63 || Index(1, 0) != 8 {
		t.Error("unexpected index for row-major layout")
	}
	if f.Lit() != 1 || f.IsBlank() {
		t.Errorf("expected exactly one lit pixel, got %d", f.Lit())
	}
}

func TestZeroFrameIsBlank(t *testing.T) {
	var f Frame
	if !f.IsBlank() {
		t.Error("expected zero frame to be blank")
	}
}

func TestLEDsAliasFrame(t *testing.T) {
	var f Frame
	f.LEDs()[9] = RGB(0, 64, 0)

	if f.At(1, 1) != RGB(0, 64, 0) {
		t.Error("expected LEDs to alias the frame")
	}

	pix := f.LEDs().AsPixels()
	if len(pix) != 3*NumPixels || pix[28] != 64 {
		t.Errorf("unexpected pixel view, len=%d", len(pix))
	}

	f.LEDs().SetRange(0, NumPixels, RGB(64, 0, 0))
	if f.Lit() != NumPixels {
		t.Errorf("expected every pixel lit, got %d", f.Lit())
	}

	f.LEDs().Clear()
	if !f.IsBlank() {
		t.Error("expected Clear to blank the frame")
	}
}

func TestLEDsWriteTo(t *testing.T) {
	leds := NewLEDs(2)
	leds.SetRange(0, 2, RGB(1, 2, 3))

	var buf bytes.Buffer
	n, err := leds.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 6 || !bytes.Equal(buf.Bytes(), []byte{1, 2, 3, 1, 2, 3}) {
		t.Errorf("unexpected output %v (%d bytes)", buf.Bytes(), n)
	}

	leds.Clear()
	if leds[0] != Off || leds[1] != Off {
		t.Error("expected Clear to turn every LED off")
	}
}

func TestCopyRGBA(t *testing.T) {
	leds := LEDs{RGB(1, 2, 3), RGB(4, 5, 6)}

	dst := make([]color.RGBA, 1)
	if n := leds.CopyRGBA(dst); n != 1 {
		t.Errorf("expected 1 color copied, got %d", n)
	}
	if dst[0] != (color.RGBA{1, 2, 3, 0xFF}) {
		t.Errorf("unexpected color %v", dst[0])
	}
}

func TestEmptyAsPixels(t *testing.T) {
	if pix := NewLEDs(0).AsPixels(); pix != nil {
		t.Errorf("expected nil pixels, got %v", pix)
	}
}
