package tilt

import (
	"testing"

	"libdb.so/tiltglow/lis3dh"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		x, y     float32 // oriented
		expected Direction
	}{
		{"flat", 0, 0, None},
		{"right", 0.5, 0.05, Right},
		{"left", -0.5, 0.05, Left},
		{"forward", 0.05, 0.5, Forward},
		{"backward", 0.05, -0.5, Backward},
		{"x on deadzone", 0.2, 0, None},
		{"x past deadzone", 0.2000001, 0, Right},
		{"negative x on deadzone", -0.2, 0, None},
		{"y on deadzone", 0, 0.2, None},
		{"y past deadzone", 0, -0.2000001, Backward},
		{"tie goes to y", 0.5, -0.5, Backward},
		{"tie inside deadzone", 0.1, 0.1, None},
		{"x wins but within deadzone", 0.15, 0.1, None},
		{"diagonal resolves to x", -0.9, 0.6, Left},
		{"diagonal resolves to y", 0.6, 0.9, Forward},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := classify(test.x, test.y); got != test.expected {
				t.Errorf("classify(%v, %v): expected %v, got %v", test.x, test.y, test.expected, got)
			}
		})
	}
}

func TestClassifyNegatesAxes(t *testing.T) {
	tests := []struct {
		raw      lis3dh.Sample
		expected Direction
	}{
		{lis3dh.Sample{X: -0.5, Y: 0.05, Z: 1}, Right},
		{lis3dh.Sample{X: 0.5, Y: 0.05, Z: 1}, Left},
		{lis3dh.Sample{X: 0.05, Y: -0.5, Z: 1}, Forward},
		{lis3dh.Sample{X: 0.05, Y: 0.5, Z: 1}, Backward},
		{lis3dh.Sample{X: -0.5, Y: 0.5, Z: 1}, Backward},
	}

	for _, test := range tests {
		if got := Classify(test.raw); got != test.expected {
			t.Errorf("Classify(%+v): expected %v, got %v", test.raw, test.expected, got)
		}
	}
}

func TestOrient(t *testing.T) {
	o := Orient(lis3dh.Sample{X: 1, Y: -2, Z: 3})
	if o != (lis3dh.Sample{X: -1, Y: 2, Z: 3}) {
		t.Errorf("unexpected oriented sample %+v", o)
	}
}

func TestDirectionString(t *testing.T) {
	for dir, expected := range map[Direction]string{
		None:          "none",
		Right:         "right",
		Left:          "left",
		Forward:       "forward",
		Backward:      "backward",
		Direction(42): "Direction(42)",
	} {
		if got := dir.String(); got != expected {
			t.Errorf("expected %q, got %q", expected, got)
		}
	}
}
