// Package config loads qed-ssg settings from defaults, an optional TOML or
// YAML file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/hyperpolymath/qed-ssg/internal/adapter"
	"github.com/hyperpolymath/qed-ssg/internal/logger"
	"github.com/hyperpolymath/qed-ssg/internal/runner"
)

const (
	EnvConfig   = "QED_SSG_CONFIG"
	EnvLogLevel = "QED_SSG_LOG_LEVEL"
	EnvSocket   = "QED_SSG_SOCKET"
)

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

type DaemonConfig struct {
	Dir        string `toml:"dir" yaml:"dir"`
	SocketPath string `toml:"socket_path" yaml:"socket_path"`
}

type HistoryConfig struct {
	// Path of the SQLite database; ":memory:" keeps history for the
	// process lifetime only.
	Path  string `toml:"path" yaml:"path"`
	Limit int    `toml:"limit" yaml:"limit"`
}

type TimeoutConfig struct {
	Connect     Duration `toml:"connect" yaml:"connect"`
	Build       Duration `toml:"build" yaml:"build"`
	Default     Duration `toml:"default" yaml:"default"`
	ServeWindow Duration `toml:"serve_window" yaml:"serve_window"`
}

type RunnerConfig struct {
	OutputLimit int `toml:"output_limit" yaml:"output_limit"`
}

type AdapterConfig struct {
	Enabled      []string `toml:"enabled" yaml:"enabled"`
	Disabled     []string `toml:"disabled" yaml:"disabled"`
	AllowedRoots []string `toml:"allowed_roots" yaml:"allowed_roots"`
	Workers      int      `toml:"workers" yaml:"workers"`
}

type Config struct {
	Log      LogConfig     `toml:"log" yaml:"log"`
	Daemon   DaemonConfig  `toml:"daemon" yaml:"daemon"`
	History  HistoryConfig `toml:"history" yaml:"history"`
	Timeouts TimeoutConfig `toml:"timeouts" yaml:"timeouts"`
	Runner   RunnerConfig  `toml:"runner" yaml:"runner"`
	Adapters AdapterConfig `toml:"adapters" yaml:"adapters"`

	path string
}

func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dir := filepath.Join(homeDir, ".qed-ssg")
	t := adapter.DefaultTimeouts()

	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Daemon: DaemonConfig{
			Dir:        dir,
			SocketPath: filepath.Join(dir, "daemon.sock"),
		},
		History: HistoryConfig{
			Path:  ":memory:",
			Limit: 10000,
		},
		Timeouts: TimeoutConfig{
			Connect:     Duration(t.Connect),
			Build:       Duration(t.Build),
			Default:     Duration(t.Default),
			ServeWindow: Duration(t.ServeWindow),
		},
		Runner: RunnerConfig{
			OutputLimit: runner.DefaultOutputLimit,
		},
		Adapters: AdapterConfig{
			Workers: 8,
		},
	}
}

// Load reads the configuration. An empty path falls back to $QED_SSG_CONFIG;
// with neither set the defaults are used. Environment overrides are applied
// last.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return fmt.Errorf("config %s: unsupported format %q (use .toml, .yaml or .yml)", path, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	c.path = abs
	return nil
}

func (c *Config) applyEnv() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
	if socket := os.Getenv(EnvSocket); socket != "" {
		c.Daemon.SocketPath = socket
	}
}

func (c *Config) Validate() error {
	var errs []error

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log format must be text or json, got %q", c.Log.Format))
	}

	for name, d := range map[string]Duration{
		"connect":      c.Timeouts.Connect,
		"build":        c.Timeouts.Build,
		"default":      c.Timeouts.Default,
		"serve_window": c.Timeouts.ServeWindow,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("timeouts.%s must be positive", name))
		}
	}

	if c.Runner.OutputLimit <= 0 {
		errs = append(errs, errors.New("runner.output_limit must be positive"))
	}
	if c.Adapters.Workers <= 0 {
		errs = append(errs, errors.New("adapters.workers must be positive"))
	}
	if c.History.Path == "" {
		errs = append(errs, errors.New("history.path is required"))
	}

	for _, name := range append(append([]string(nil), c.Adapters.Enabled...), c.Adapters.Disabled...) {
		if !adapter.ValidName(name) {
			errs = append(errs, fmt.Errorf("invalid adapter name %q", name))
		}
	}
	for _, pattern := range c.Adapters.AllowedRoots {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			errs = append(errs, fmt.Errorf("invalid allowed root %q", pattern))
		}
	}

	return errors.Join(errs...)
}

// Path is the absolute path of the loaded file, empty when none was read.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) AdapterTimeouts() adapter.Timeouts {
	return adapter.Timeouts{
		Connect:     time.Duration(c.Timeouts.Connect),
		Build:       time.Duration(c.Timeouts.Build),
		Default:     time.Duration(c.Timeouts.Default),
		ServeWindow: time.Duration(c.Timeouts.ServeWindow),
	}
}

// Selects reports whether the named adapter should be loaded. Disabled wins
// over enabled; an empty enabled list enables everything.
func (c *Config) Selects(name string) bool {
	for _, n := range c.Adapters.Disabled {
		if n == name {
			return false
		}
	}
	if len(c.Adapters.Enabled) == 0 {
		return true
	}
	for _, n := range c.Adapters.Enabled {
		if n == name {
			return true
		}
	}
	return false
}

func (c *Config) LoggerConfig() logger.Config {
	level, _ := logger.ParseLevel(c.Log.Level)
	cfg := logger.DefaultConfig()
	cfg.Level = level
	cfg.Format = c.Log.Format
	return cfg
}

func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Daemon.Dir, 0700); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Dir(c.Daemon.SocketPath), 0700)
}
