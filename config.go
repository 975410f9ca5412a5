package tiltglow

import (
	"encoding"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"libdb.so/tiltglow/tilt"
)

// Config is the configuration for the tiltglow host tools.
type Config struct {
	// Device is the path to the device file of the board's USB serial port.
	// This is usually /dev/ttyACM0.
	Device string `toml:"device" yaml:"device"`
	// Baud is the baud rate for the serial connection.
	Baud int `toml:"baud" yaml:"baud"`
	// Tick is the delay between two ticks of the simulated board.
	Tick Duration `toml:"tick" yaml:"tick"`
	// Monitor configures the monitor command.
	Monitor MonitorConfig `toml:"monitor" yaml:"monitor"`
	// Simulate configures the simulate command.
	Simulate SimulateConfig `toml:"simulate" yaml:"simulate"`
}

// MonitorConfig is the configuration for the telemetry monitor.
type MonitorConfig struct {
	// Render draws every frame received from the board on the terminal.
	Render bool `toml:"render" yaml:"render"`
}

// SimulateConfig is the configuration for the simulator.
type SimulateConfig struct {
	// Script is the path to the sensor script.
	Script string `toml:"script" yaml:"script"`
	// Loop replays the script forever.
	Loop bool `toml:"loop" yaml:"loop"`
	// Plain draws frames without colors.
	Plain bool `toml:"plain" yaml:"plain"`
}

// Defaults for keys missing from the configuration file.
const (
	DefaultDevice = "/dev/ttyACM0"
	DefaultBaud   = 115200
)

// SetDefaults fills in every unset key with its default.
func (c *Config) SetDefaults() {
	if c.Device == "" {
		c.Device = DefaultDevice
	}
	if c.Baud == 0 {
		c.Baud = DefaultBaud
	}
	if c.Tick == 0 {
		c.Tick = Duration(tilt.Interval)
	}
}

// ValidateMonitor validates the configuration for the monitor command.
func (c *Config) ValidateMonitor() error {
	if c.Device == "" {
		return errors.New("no device configured")
	}
	if c.Baud <= 0 {
		return errors.Errorf("invalid baud rate %d", c.Baud)
	}
	return nil
}

// ValidateSimulate validates the configuration for the simulate command.
func (c *Config) ValidateSimulate() error {
	if c.Tick <= 0 {
		return errors.Errorf("invalid tick %v", time.Duration(c.Tick))
	}
	if c.Simulate.Script == "" {
		return errors.New("no sensor script configured")
	}
	return nil
}

// Duration is a duration that can be parsed from TOML and YAML.
type Duration time.Duration

var (
	_ encoding.TextUnmarshaler = (*Duration)(nil)
	_ encoding.TextMarshaler   = (*Duration)(nil)
)

func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// ParseConfig parses a TOML configuration from a reader.
func ParseConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := toml.NewDecoder(r).Decode(&config); err != nil {
		return nil, err
	}
	config.SetDefaults()
	return &config, nil
}

// ParseYAMLConfig parses a YAML configuration from a reader.
func ParseYAMLConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := yaml.NewDecoder(r).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	config.SetDefaults()
	return &config, nil
}

// ReadConfigFile reads the configuration file at path. Files ending in .yaml
// or .yml are parsed as YAML, everything else as TOML.
func ReadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open config file")
	}
	defer f.Close()

	var cfg *Config
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		cfg, err = ParseYAMLConfig(f)
	default:
		cfg, err = ParseConfig(f)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	return cfg, nil
}
