package tiltglow

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"golang.org/x/sync/errgroup"
	"libdb.so/tiltglow/internal/termview"
	"libdb.so/tiltglow/ledserial"
	"libdb.so/tiltglow/tilt"
)

// eofBackoff is how long readPackets waits before reading again after the
// reader ran dry.
const eofBackoff = 20 * time.Millisecond

// ErrDevicePanicked is returned by the monitor when the board reports that it
// cannot recover.
var ErrDevicePanicked = errors.New("device panicked")

// Monitor reads the telemetry the board sends over its USB serial port and
// logs it. Frames are optionally drawn on the terminal.
type Monitor struct {
	cfg    *Config
	logger *slog.Logger
	view   *termview.View
}

// NewMonitor creates a new monitor. If out is not nil and rendering is
// enabled, received frames are drawn onto it.
func NewMonitor(cfg *Config, out io.Writer, logger *slog.Logger) (*Monitor, error) {
	if err := cfg.ValidateMonitor(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	m := &Monitor{
		cfg:    cfg,
		logger: logger,
	}
	if out != nil && cfg.Monitor.Render {
		m.view = termview.New(out)
	}

	return m, nil
}

// Run opens the serial port and monitors it until the given context is
// canceled or the board panics.
func (m *Monitor) Run(ctx context.Context) error {
	port, err := serial.Open(m.cfg.Device, &serial.Mode{
		BaudRate: m.cfg.Baud,
	})
	if err != nil {
		return errors.Wrap(err, "failed to open serial port")
	}
	defer port.Close()

	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		return errors.Wrap(err, "failed to reset read timeout")
	}

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		<-ctx.Done()
		m.logger.Debug("closing serial port")
		if err := port.Close(); err != nil {
			return errors.Wrap(err, "failed to close serial port")
		}
		return ctx.Err()
	})
	errg.Go(func() error {
		return m.Serve(ctx, port)
	})

	return errg.Wait()
}

// Serve reads packets from r and handles them until ctx is canceled, r
// fails or the board panics.
func (m *Monitor) Serve(ctx context.Context, r io.Reader) error {
	errg, ctx := errgroup.WithContext(ctx)

	packets := make(chan ledserial.Packet)
	errg.Go(func() error {
		return m.readPackets(ctx, r, packets)
	})
	errg.Go(func() error {
		return m.handlePackets(ctx, packets)
	})

	return errg.Wait()
}

func (m *Monitor) readPackets(ctx context.Context, r io.Reader, dst chan<- ledserial.Packet) error {
	for ctx.Err() == nil {
		p, err := ledserial.ReadPacket(r)
		if err != nil {
			// A short read indicates a timeout or a reader with nothing
			// left yet. Wait a bit and try again.
			if errors.Is(err, io.EOF) {
				if err := sleep(ctx, eofBackoff); err != nil {
					return err
				}
				continue
			}
			if ctx.Err() != nil {
				break
			}
			m.logger.Warn(
				"dropping malformed packet",
				"error", err)
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case dst <- p:
			// ok
		}
	}

	return ctx.Err()
}

func (m *Monitor) handlePackets(ctx context.Context, packets <-chan ledserial.Packet) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case p := <-packets:
			if err := m.handlePacket(p); err != nil {
				return err
			}
		}
	}
}

func (m *Monitor) handlePacket(p ledserial.Packet) error {
	switch p := p.(type) {
	case ledserial.LogPacket:
		m.logger.Info(
			"board log",
			"message", p.Message)

	case ledserial.ErrorPacket:
		m.logger.Warn(
			"board reported error",
			"message", p.Message)

	case ledserial.PanicPacket:
		m.logger.Error("board unrecoverably panicked")
		return ErrDevicePanicked

	case ledserial.SamplePacket:
		m.logger.Debug(
			"board sample",
			"x", p.X,
			"y", p.Y,
			"z", p.Z,
			"direction", tilt.Direction(p.Direction))

	case ledserial.FramePacket:
		if m.view != nil {
			if err := m.view.WriteFrame(&p.Frame); err != nil {
				return errors.Wrap(err, "failed to draw frame")
			}
		}

	default:
		return errors.Errorf("received unknown packet from board: %s", p.Type())
	}

	return nil
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
