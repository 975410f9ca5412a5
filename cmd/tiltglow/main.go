package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"
	"libdb.so/tiltglow"
)

var (
	config  = "tiltglow.toml"
	device  = ""
	script  = ""
	verbose = false
)

func init() {
	pflag.StringVarP(&config, "config", "c", config, "configuration file (toml or yaml)")
	pflag.StringVarP(&device, "device", "d", device, "serial device, overrides the configuration")
	pflag.StringVarP(&script, "script", "s", script, "sensor script, overrides the configuration")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] monitor|simulate\n", os.Args[0])
		pflag.PrintDefaults()
	}
}

func main() {
	pflag.Parse()

	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if pflag.NArg() != 1 {
		pflag.Usage()
		return errors.New("expected exactly one command")
	}

	cfg, err := readConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var runner interface{ Run(context.Context) error }

	switch cmd := pflag.Arg(0); cmd {
	case "monitor":
		runner, err = tiltglow.NewMonitor(cfg, os.Stdout, slog.Default())
	case "simulate":
		runner, err = tiltglow.NewSimulator(cfg, os.Stdout, slog.Default())
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", pflag.Arg(0), err)
	}

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s failed: %w", pflag.Arg(0), err)
	}

	return nil
}

func readConfig() (*tiltglow.Config, error) {
	var cfg *tiltglow.Config

	_, err := os.Stat(config)
	switch {
	case err == nil:
		cfg, err = tiltglow.ReadConfigFile(config)
		if err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist) && !pflag.CommandLine.Changed("config"):
		// Running without a configuration file is fine; flags and defaults
		// cover everything.
		cfg = &tiltglow.Config{}
		cfg.SetDefaults()
	default:
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if device != "" {
		cfg.Device = device
	}
	if script != "" {
		cfg.Simulate.Script = script
	}

	return cfg, nil
}
