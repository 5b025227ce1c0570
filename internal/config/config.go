package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so "30s" style values parse from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds everything the CLI needs to talk to the InterviewPro API.
// Values come from ~/.interviewpro/config.yaml, with INTERVIEWPRO_* env
// variables overriding the file. Every field has a working default so a
// fresh install runs with no config at all.
type Config struct {
	// APIURL is the base URL of the InterviewPro API.
	APIURL string `yaml:"api_url"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// UploadConcurrency caps how many CV uploads run at once.
	UploadConcurrency int `yaml:"upload_concurrency"`

	// Timeout bounds every API request.
	Timeout Duration `yaml:"timeout"`
}

func defaults() Config {
	return Config{
		APIURL:            "http://localhost:8000",
		LogLevel:          "info",
		UploadConcurrency: 3,
		Timeout:           Duration(30 * time.Second),
	}
}

// Dir returns the CLI's config directory, ~/.interviewpro.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".interviewpro"), nil
}

// Load reads config from the default location. A missing file is not an
// error; defaults apply.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(filepath.Join(dir, "config.yaml"))
}

// LoadFile reads config from path, layers env overrides on top, and
// validates the result.
func LoadFile(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fine, run on defaults
	case err != nil:
		return Config{}, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("INTERVIEWPRO_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("INTERVIEWPRO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("INTERVIEWPRO_UPLOAD_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.UploadConcurrency = n
		}
	}
	if v := os.Getenv("INTERVIEWPRO_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = Duration(d)
		}
	}
}

func (c Config) validate() error {
	if c.APIURL == "" {
		return errors.New("config: api_url is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	if c.UploadConcurrency < 1 {
		return fmt.Errorf("config: upload_concurrency must be at least 1, got %d", c.UploadConcurrency)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %v", time.Duration(c.Timeout))
	}
	return nil
}
