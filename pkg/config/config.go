// Package config provides configuration loading and management.
//
// Settings are layered, lowest precedence first: Defaults, a YAML file,
// a dotenv file plus CAMINTEL_* environment variables, and finally CLI flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/user/camintel/pkg/batch"
	"github.com/user/camintel/pkg/ports"
	"github.com/user/camintel/pkg/sampler"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "CAMINTEL_"

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid configuration")

// Config represents the full configuration for camintel.
type Config struct {
	// Input/Output
	InputDir  string `yaml:"input" env:"INPUT_DIR"`
	OutputDir string `yaml:"output" env:"OUTPUT_DIR"`

	// Sampling
	IntervalSeconds float64  `yaml:"interval" env:"INTERVAL"`
	Extensions      []string `yaml:"extensions" env:"EXTENSIONS" envSeparator:","`

	// External tools
	FFmpegPath  string `yaml:"ffmpeg_path" env:"FFMPEG_PATH"`
	FFprobePath string `yaml:"ffprobe_path" env:"FFPROBE_PATH"`

	// Logging
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// Run mode
	DryRun      bool   `yaml:"dry_run" env:"DRY_RUN"`
	SummaryPath string `yaml:"summary" env:"SUMMARY"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		InputDir:        "input",
		OutputDir:       "output",
		IntervalSeconds: sampler.DefaultIntervalSeconds,
		Extensions:      append([]string(nil), batch.DefaultExtensions...),
		LogLevel:        "info",
	}
}

// Load applies the file and environment layers on top of Defaults.
// An empty path skips the YAML file; a missing envFile is ignored.
func Load(path, envFile string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if err := LoadDotEnv(envFile); err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file on top of Defaults.
// Unknown keys are rejected.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from a dotenv file into the process environment.
// Variables already set are not overridden. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with CAMINTEL_* environment variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Validate checks that the configuration can drive a batch run.
func (c Config) Validate() error {
	if c.IntervalSeconds <= 0 || math.IsNaN(c.IntervalSeconds) || math.IsInf(c.IntervalSeconds, 0) {
		return fmt.Errorf("%w: interval must be a positive number of seconds, got %v", ErrInvalid, c.IntervalSeconds)
	}
	if c.InputDir == "" {
		return fmt.Errorf("%w: input directory is empty", ErrInvalid)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output directory is empty", ErrInvalid)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("%w: no video extensions configured", ErrInvalid)
	}
	if _, ok := ports.LookupLogLevel(c.LogLevel); !ok {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() ports.LogLevel {
	return ports.ParseLogLevel(c.LogLevel)
}

// ToBatchConfig converts Config to batch.Config.
func (c Config) ToBatchConfig() batch.Config {
	return batch.Config{
		InputDir:        c.InputDir,
		OutputDir:       c.OutputDir,
		IntervalSeconds: c.IntervalSeconds,
		Extensions:      c.Extensions,
	}
}
