package config

import (
	"fmt"
	"os"

	"github.com/derktes/ir-scrutinizer/irsignal"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the complete analysis server configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Tolerance ToleranceConfig `yaml:"tolerance"`
	Repeat    RepeatConfig    `yaml:"repeat"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig contains HTTP server settings. MaxBodyBytes and
// MaxDurations bound the size of a published frame.
type ServerConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	StreamBuffer   int      `yaml:"stream_buffer"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
	MaxDurations   int      `yaml:"max_durations"`
}

// ToleranceConfig holds the start-up duration tolerances
type ToleranceConfig struct {
	Absolute float64 `yaml:"absolute"`
	Relative float64 `yaml:"relative"`
}

// RepeatConfig mirrors irsignal.RepeatOptions
type RepeatConfig struct {
	MinRepeatLength  int     `yaml:"min_repeat_length"`
	MinRepeats       int     `yaml:"min_repeats"`
	MinRepeatLastGap float64 `yaml:"min_repeat_last_gap"`
	Strategy         string  `yaml:"strategy"`
}

// AnalysisConfig contains pipeline switches
type AnalysisConfig struct {
	Clean bool `yaml:"clean"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	capture := irsignal.CaptureRepeatOptions()
	return &Config{
		Server: ServerConfig{
			Address:        ":8080",
			AllowedOrigins: []string{"localhost:*", "192.168.*.*:*"},
			StreamBuffer:   16,
			MaxBodyBytes:   1 << 20,
			MaxDurations:   2048,
		},
		Tolerance: ToleranceConfig{
			Absolute: irsignal.DefaultAbsoluteTolerance,
			Relative: irsignal.DefaultRelativeTolerance,
		},
		Repeat: RepeatConfig{
			MinRepeatLength:  capture.MinRepeatLength,
			MinRepeats:       capture.MinRepeats,
			MinRepeatLastGap: capture.MinRepeatLastGap,
			Strategy:         capture.Strategy.String(),
		},
		Analysis: AnalysisConfig{Clean: true},
	}
}

// Load loads configuration from a YAML file. Keys missing from the file
// keep their Default values.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse decodes and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects tolerances and repeat options the analysis cannot use.
func (c *Config) Validate() error {
	if _, err := c.ToleranceValue(); err != nil {
		return errors.Wrap(err, "tolerance")
	}
	if _, err := c.RepeatOptions(); err != nil {
		return errors.Wrap(err, "repeat")
	}
	if c.Server.StreamBuffer < 0 {
		return errors.Errorf("server: stream_buffer %d is negative", c.Server.StreamBuffer)
	}
	if c.Server.MaxBodyBytes < 1 {
		return errors.Errorf("server: max_body_bytes %d must be positive", c.Server.MaxBodyBytes)
	}
	if c.Server.MaxDurations < 1 {
		return errors.Errorf("server: max_durations %d must be positive", c.Server.MaxDurations)
	}
	return nil
}

// ToleranceValue returns the configured tolerance.
func (c *Config) ToleranceValue() (irsignal.Tolerance, error) {
	return irsignal.NewTolerance(c.Tolerance.Absolute, c.Tolerance.Relative)
}

// RepeatOptions returns the configured repeat finder options.
func (c *Config) RepeatOptions() (irsignal.RepeatOptions, error) {
	strategy, err := irsignal.ParseStrategy(c.Repeat.Strategy)
	if err != nil {
		return irsignal.RepeatOptions{}, err
	}
	opts := irsignal.RepeatOptions{
		MinRepeatLength:  c.Repeat.MinRepeatLength,
		MinRepeats:       c.Repeat.MinRepeats,
		MinRepeatLastGap: c.Repeat.MinRepeatLastGap,
		Strategy:         strategy,
	}
	if err := opts.Validate(); err != nil {
		return irsignal.RepeatOptions{}, err
	}
	return opts, nil
}

// Print displays the configuration
func (c *Config) Print() {
	fmt.Printf("Server: %s (stream buffer %d, frames up to %d durations / %d bytes)\n",
		c.Server.Address, c.Server.StreamBuffer, c.Server.MaxDurations, c.Server.MaxBodyBytes)
	fmt.Printf("Tolerance: %gµs absolute, %g relative\n", c.Tolerance.Absolute, c.Tolerance.Relative)
	fmt.Printf("Repeat: min length %d, min repeats %d, min last gap %gµs, %s\n",
		c.Repeat.MinRepeatLength, c.Repeat.MinRepeats, c.Repeat.MinRepeatLastGap, c.Repeat.Strategy)
	fmt.Printf("Clean: %v, debug: %v\n", c.Analysis.Clean, c.Logging.Debug)
}
