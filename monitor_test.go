package tiltglow

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"libdb.so/tiltglow/internal/led"
	"libdb.so/tiltglow/ledserial"
)

func TestMonitorServe(t *testing.T) {
	var frame led.Frame
	frame.Set(0, 0, led.RGB(0, 64, 0))

	var wire bytes.Buffer
	for _, p := range []ledserial.Packet{
		ledserial.LogPacket{Message: "Accel: x=0.50, y=0.05, z=1.00"},
		ledserial.SamplePacket{X: 0.5, Y: 0.05, Z: 1, Direction: 1},
		ledserial.FramePacket{Frame: frame},
		ledserial.ErrorPacket{Message: "failed to read sensor"},
		ledserial.PanicPacket{},
	} {
		if err := ledserial.WritePacket(&wire, p); err != nil {
			t.Fatal(err)
		}
	}

	var logs, screen bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg := Config{Monitor: MonitorConfig{Render: true}}
	cfg.SetDefaults()

	m, err := NewMonitor(&cfg, &screen, logger)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Serve(ctx, &wire); !errors.Is(err, ErrDevicePanicked) {
		t.Fatalf("expected ErrDevicePanicked, got %v", err)
	}

	for _, expected := range []string{
		"Accel: x=0.50",
		"direction=right",
		"failed to read sensor",
		"panicked",
	} {
		if !strings.Contains(logs.String(), expected) {
			t.Errorf("expected logs to contain %q, got:\n%s", expected, logs.String())
		}
	}

	if !strings.Contains(screen.String(), "\x1b[38;2;0;192;0m") {
		t.Error("expected the frame to be drawn")
	}
}

func TestMonitorSkipsMalformedPackets(t *testing.T) {
	var wire bytes.Buffer
	wire.Write([]byte{0xFE}) // unknown type
	if err := ledserial.WritePacket(&wire, ledserial.PanicPacket{}); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	cfg := Config{}
	cfg.SetDefaults()

	m, err := NewMonitor(&cfg, nil, logger)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Serve(ctx, &wire); !errors.Is(err, ErrDevicePanicked) {
		t.Fatalf("expected ErrDevicePanicked, got %v", err)
	}
	if !strings.Contains(logs.String(), "malformed") {
		t.Errorf("expected a warning about the malformed packet, got:\n%s", logs.String())
	}
}

func TestNewMonitorInvalidConfig(t *testing.T) {
	cfg := Config{Baud: 115200}
	if _, err := NewMonitor(&cfg, nil, slog.Default()); err == nil {
		t.Error("expected error without a device")
	}
}

// eofReader is always at EOF and counts how often it was read.
type eofReader struct {
	reads int
}

func (r *eofReader) Read([]byte) (int, error) {
	r.reads++
	return 0, io.EOF
}

func TestMonitorServeWaitsOnEOF(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()

	m, err := NewMonitor(&cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	r := &eofReader{}
	if err := m.Serve(ctx, r); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	// 200ms at one read per 20ms; allow plenty of slack for slow machines.
	if r.reads == 0 || r.reads > 50 {
		t.Errorf("expected a handful of reads, got %d", r.reads)
	}
}
