// Package config loads the seval CLI configuration from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that take precedence over file values.
const (
	EnvAllowLoops = "SEVAL_ALLOW_LOOPS"
	EnvLogLevel   = "SEVAL_LOG_LEVEL"
	EnvLogFormat  = "SEVAL_LOG_FORMAT"
	EnvTimeout    = "SEVAL_TIMEOUT"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	defaultTimeout = 5 * time.Second
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the root configuration for the seval CLI.
type Config struct {
	AllowLoops bool      `json:"allow_loops" yaml:"allow_loops"`
	Params     []string  `json:"params,omitempty" yaml:"params,omitempty"`
	Timeout    string    `json:"timeout,omitempty" yaml:"timeout,omitempty"` // Go duration. Default: 5s.
	Log        LogConfig `json:"log" yaml:"log"`
}

// LogConfig selects the slog handler used by the CLI.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`   // debug, info, warn, error. Default: warn.
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // text or json. Default: text.
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{}
}

// Load reads a YAML config file and applies environment overrides. An empty path
// skips the file and starts from Default.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		resolved, err := resolvePath(path)
		if err != nil {
			return nil, fmt.Errorf("resolving config path %s: %w", path, err)
		}
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", resolved, err)
		}
		if cfg, err = Parse(data); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", resolved, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Parse decodes YAML config without touching the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFiles loads .env style files into the process environment. Variables that are
// already set win. With no arguments it loads ./.env, and a missing default file is not an error.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}
	return godotenv.Load(files...)
}

// ApplyEnv overrides fields from lookup, usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAllowLoops); ok && v != "" {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, EnvAllowLoops, v)
		}
		c.AllowLoops = allow
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Log.Format = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		c.Timeout = v
	}
	return nil
}

// ApplyEnvMap is ApplyEnv over a map, such as the result of godotenv.Read.
func (c *Config) ApplyEnvMap(env map[string]string) error {
	return c.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
}

// RunTimeout returns the per-run timeout. Defaults to 5s.
func (c *Config) RunTimeout() time.Duration {
	if c.Timeout == "" {
		return defaultTimeout
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return defaultTimeout
	}
	return d
}

// SlogLevel returns the configured level. Defaults to warn.
func (l LogConfig) SlogLevel() slog.Level {
	if l.Level == "" {
		return slog.LevelWarn
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// Handler builds the slog handler writing to w.
func (l LogConfig) Handler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if strings.EqualFold(l.Format, FormatJSON) {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func (c *Config) validate() error {
	if c.Log.Level != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
			return fmt.Errorf("log.level %q: %w", c.Log.Level, err)
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", FormatText, FormatJSON:
	default:
		return fmt.Errorf("log.format %q must be %s or %s", c.Log.Format, FormatText, FormatJSON)
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("timeout %q: %w", c.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("timeout %q must be positive", c.Timeout)
		}
	}
	return nil
}

// resolvePath expands ~ to the user home directory and returns an absolute path.
func resolvePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return filepath.Abs(path)
}
