package tiltglow

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"libdb.so/tiltglow/internal/termview"
	"libdb.so/tiltglow/tilt"
)

var _ tilt.Sink = (*termview.View)(nil)

// Simulator runs the tilt pipeline on the host. A sensor script stands in
// for the accelerometer and the terminal stands in for the matrix.
type Simulator struct {
	cfg    *Config
	logger *slog.Logger
	view   *termview.View
}

// NewSimulator creates a new simulator drawing onto out.
func NewSimulator(cfg *Config, out io.Writer, logger *slog.Logger) (*Simulator, error) {
	if err := cfg.ValidateSimulate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	view := termview.New(out)
	view.Plain = cfg.Simulate.Plain

	return &Simulator{
		cfg:    cfg,
		logger: logger,
		view:   view,
	}, nil
}

// Run runs the configured script. It returns once the script is done or the
// given context is canceled.
func (s *Simulator) Run(ctx context.Context) error {
	f, err := os.Open(s.cfg.Simulate.Script)
	if err != nil {
		return errors.Wrap(err, "failed to open sensor script")
	}
	defer f.Close()

	steps, err := ParseScript(f)
	if err != nil {
		return errors.Wrap(err, "failed to parse sensor script")
	}

	return s.RunSensor(ctx, NewScriptedSensor(steps, s.cfg.Simulate.Loop))
}

// RunSensor runs the pipeline against the given sensor.
func (s *Simulator) RunSensor(ctx context.Context, sensor tilt.Sensor) error {
	loop := tilt.Loop{
		Sensor:     sensor,
		Sink:       s.view,
		Dispatcher: tilt.NewDispatcher(),
		Interval:   time.Duration(s.cfg.Tick),
		OnTick: func(t *tilt.Tick) {
			s.logger.Debug(
				"tick",
				"x", t.Sample.X,
				"y", t.Sample.Y,
				"z", t.Sample.Z,
				"direction", t.Direction)
		},
		OnError: func(err error) {
			s.logger.Warn(
				"tick failed",
				"error", err)
		},
	}

	if err := loop.Run(ctx); err != nil {
		return errors.Wrap(err, "simulation stopped")
	}

	return nil
}
