// Package config loads muxpick configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (MUXPICK_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .muxpick.yaml in current directory
//  2. $XDG_CONFIG_HOME/muxpick/config.yaml (~/.config fallback)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all muxpick configuration.
type Config struct {
	// Shell is spawned on an empty prompt answer.
	Shell string `yaml:"shell"`
	// Tmux is the multiplexer binary to invoke.
	Tmux string `yaml:"tmux"`
	// MaxRowHeight caps table cell heights, in lines.
	MaxRowHeight int `yaml:"max_row_height"`
	// TimeFormat renders created/activity timestamps (Go layout string).
	TimeFormat string `yaml:"time_format"`

	// OTEL configures telemetry export; empty endpoint disables it.
	OTEL OTELConfig `yaml:"otel"`

	// ConfigFile is the path of the loaded config file (empty if none).
	ConfigFile string `yaml:"-"`
}

// OTELConfig is the telemetry block of the config file.
type OTELConfig struct {
	Endpoint string `yaml:"endpoint"`
	Headers  string `yaml:"headers"` // Comma-separated key=value pairs
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return &Config{
		Shell:        shell,
		Tmux:         "tmux",
		MaxRowHeight: 4,
		TimeFormat:   "2006-01-02 15:04",
	}
}

// Load reads configuration from file and environment variables.
// An explicit path skips the search and must exist; environment
// variables always override file values. Out-of-range values fall back
// to defaults with a warning instead of failing startup.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, found, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	if found != "" {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", found, err)
		}
		cfg.ConfigFile = found
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)
	validate(cfg)
	return cfg, nil
}

// readConfigFile resolves the config file. A missing file is only an
// error when the caller named one explicitly.
func readConfigFile(path string) ([]byte, string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("reading config file: %w", err)
		}
		return data, path, nil
	}

	// 1. Current directory
	if data, err := os.ReadFile(".muxpick.yaml"); err == nil {
		return data, ".muxpick.yaml", nil
	}

	// 2. XDG config dir / ~/.config
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, "", nil
		}
		dir = filepath.Join(home, ".config")
	}
	p := filepath.Join(dir, "muxpick", "config.yaml")
	if data, err := os.ReadFile(p); err == nil {
		return data, p, nil
	}

	return nil, "", nil
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.Shell != "" {
		cfg.Shell = file.Shell
	}
	if file.Tmux != "" {
		cfg.Tmux = file.Tmux
	}
	if file.MaxRowHeight > 0 {
		cfg.MaxRowHeight = file.MaxRowHeight
	}
	if file.TimeFormat != "" {
		cfg.TimeFormat = file.TimeFormat
	}
	if file.OTEL.Endpoint != "" {
		cfg.OTEL.Endpoint = file.OTEL.Endpoint
	}
	if file.OTEL.Headers != "" {
		cfg.OTEL.Headers = file.OTEL.Headers
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins;
// within env, MUXPICK_* beats the standard OTEL variables.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("MUXPICK_SHELL"); v != "" {
		cfg.Shell = v
	}
	if v := os.Getenv("MUXPICK_TMUX"); v != "" {
		cfg.Tmux = v
	}
	if v := os.Getenv("MUXPICK_MAX_ROW_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxRowHeight = n
		} else {
			fmt.Fprintf(os.Stderr, "warning: MUXPICK_MAX_ROW_HEIGHT %q is not a number, ignored\n", v)
		}
	}
	if v := os.Getenv("MUXPICK_TIME_FORMAT"); v != "" {
		cfg.TimeFormat = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTEL.Endpoint = v
	}
	if v := os.Getenv("MUXPICK_OTEL_ENDPOINT"); v != "" {
		cfg.OTEL.Endpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTEL.Headers = v
	}
	if v := os.Getenv("MUXPICK_OTEL_HEADERS"); v != "" {
		cfg.OTEL.Headers = v
	}
}

// validate repairs out-of-range values. The row-height cap needs at
// least two lines: one kept line plus the overflow marker.
func validate(cfg *Config) {
	if cfg.MaxRowHeight < 2 {
		def := Defaults().MaxRowHeight
		fmt.Fprintf(os.Stderr, "warning: max_row_height %d is below the minimum of 2, using %d\n",
			cfg.MaxRowHeight, def)
		cfg.MaxRowHeight = def
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = Defaults().TimeFormat
	}
}
