// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "AUTOMATION_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Production is for hosts driven by real assistive clients.
	Production Environment = "production"
)

// Config is the configuration of the automation host.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment"`

	// Host configures the process: its socket, metrics listener and the
	// layout it loads.
	Host HostConfig `yaml:"host"`

	// Automation configures the platform bridge.
	Automation AutomationConfig `yaml:"automation"`

	// Logging configures the process logger.
	Logging LoggingConfig `yaml:"logging"`

	Development *ConfigOverrides `yaml:"development,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains the fields that can be overridden per
// environment.
type ConfigOverrides struct {
	Host       *HostConfig       `yaml:"host,omitempty"`
	Automation *AutomationConfig `yaml:"automation,omitempty"`
	Logging    *LoggingConfig    `yaml:"logging,omitempty"`
}

// HostConfig configures the automation host process.
type HostConfig struct {
	// SocketPath is the Unix socket automation clients connect to.
	// Default: ${XDG_RUNTIME_DIR}/automation.sock, falling back to the
	// temp directory.
	SocketPath string `yaml:"socket_path"`

	// MetricsAddress is the listen address of the Prometheus /metrics
	// endpoint. Empty disables it.
	MetricsAddress string `yaml:"metrics_address"`

	// LayoutPath is the YAML or JSONC layout file describing the UI to
	// host. Empty hosts a built-in demo window.
	LayoutPath string `yaml:"layout_path"`

	// WatchLayout rebuilds the UI whenever the layout file changes.
	// Requires LayoutPath.
	WatchLayout bool `yaml:"watch_layout"`
}

// AutomationConfig configures the platform bridge.
type AutomationConfig struct {
	// Culture overrides the locale reported in the Culture property,
	// as a BCP 47 tag or POSIX locale name. Empty reads the environment.
	Culture string `yaml:"culture"`

	// EventLogCapacity is how many automation events the host keeps for
	// polling clients. Default: 1024.
	EventLogCapacity int `yaml:"event_log_capacity"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error. Default: debug in
	// development, info in production.
	Level string `yaml:"level"`
}

// SlogLevel converts Level to a slog.Level. Validate rejects anything
// this does not recognize.
func (l LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Default returns the default configuration, used as the base before a
// config file is merged over it.
func Default() *Config {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = os.TempDir()
	}
	return &Config{
		Environment: Development,
		Host: HostConfig{
			SocketPath:     filepath.Join(runtimeDir, "automation.sock"),
			MetricsAddress: "127.0.0.1:9464",
		},
		Automation: AutomationConfig{
			EventLogCapacity: 1024,
		},
		Logging: LoggingConfig{
			Level: "debug",
		},
	}
}

// Load loads configuration from the file named by AUTOMATION_CONFIG.
// It fails when the variable is not set.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your automation.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, applies the
// environment overrides and expands variables in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
		// Production defaults: quieter logs, no metrics listener unless
		// the file asks for one.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Logging: &LoggingConfig{Level: "info"},
			}
			c.Host.MetricsAddress = ""
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Host != nil {
		if overrides.Host.SocketPath != "" {
			c.Host.SocketPath = overrides.Host.SocketPath
		}
		if overrides.Host.MetricsAddress != "" {
			c.Host.MetricsAddress = overrides.Host.MetricsAddress
		}
		if overrides.Host.LayoutPath != "" {
			c.Host.LayoutPath = overrides.Host.LayoutPath
		}
		if overrides.Host.WatchLayout {
			c.Host.WatchLayout = true
		}
	}

	if overrides.Automation != nil {
		if overrides.Automation.Culture != "" {
			c.Automation.Culture = overrides.Automation.Culture
		}
		if overrides.Automation.EventLogCapacity != 0 {
			c.Automation.EventLogCapacity = overrides.Automation.EventLogCapacity
		}
	}

	if overrides.Logging != nil && overrides.Logging.Level != "" {
		c.Logging.Level = overrides.Logging.Level
	}
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME":            os.Getenv("HOME"),
		"XDG_RUNTIME_DIR": os.Getenv("XDG_RUNTIME_DIR"),
	}
	c.Host.SocketPath = expandVars(c.Host.SocketPath, vars)
	c.Host.LayoutPath = expandVars(c.Host.LayoutPath, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Host.SocketPath == "" {
		errs = append(errs, fmt.Errorf("host.socket_path is required"))
	}

	if c.Host.WatchLayout && c.Host.LayoutPath == "" {
		errs = append(errs, fmt.Errorf("host.watch_layout needs host.layout_path"))
	}

	if c.Automation.EventLogCapacity <= 0 {
		errs = append(errs, fmt.Errorf("automation.event_log_capacity must be positive, got %d", c.Automation.EventLogCapacity))
	}

	levels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(levels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level must be one of: %v", levels))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
