// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "automation.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("expected environment=development, got %s", cfg.Environment)
	}
	if cfg.Host.SocketPath != "/run/user/1000/automation.sock" {
		t.Errorf("expected socket_path under XDG_RUNTIME_DIR, got %s", cfg.Host.SocketPath)
	}
	if cfg.Automation.EventLogCapacity != 1024 {
		t.Errorf("expected event_log_capacity=1024, got %d", cfg.Automation.EventLogCapacity)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad_RequiresEnvironmentVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when AUTOMATION_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "AUTOMATION_CONFIG environment variable not set") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_WithEnvironmentVariable(t *testing.T) {
	path := writeConfig(t, `
host:
  socket_path: /test/automation.sock
  layout_path: /test/layout.yaml
automation:
  culture: de-DE
  event_log_capacity: 64
`)
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Host.SocketPath != "/test/automation.sock" {
		t.Errorf("socket_path = %s", cfg.Host.SocketPath)
	}
	if cfg.Host.LayoutPath != "/test/layout.yaml" {
		t.Errorf("layout_path = %s", cfg.Host.LayoutPath)
	}
	if cfg.Automation.Culture != "de-DE" || cfg.Automation.EventLogCapacity != 64 {
		t.Errorf("automation = %+v", cfg.Automation)
	}
	// Unset fields keep their defaults.
	if cfg.Host.MetricsAddress != "127.0.0.1:9464" {
		t.Errorf("metrics_address = %q, want default", cfg.Host.MetricsAddress)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	path := writeConfig(t, "host: [unclosed")
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantLevel   string
		wantMetrics string
		wantSocket  string
	}{
		{
			name: "development section applies",
			content: `
environment: development
development:
  host:
    socket_path: /dev/automation.sock
  logging:
    level: warn
`,
			wantLevel:   "warn",
			wantMetrics: "127.0.0.1:9464",
			wantSocket:  "/dev/automation.sock",
		},
		{
			name: "production defaults without a section",
			content: `
environment: production
host:
  socket_path: /run/automation.sock
`,
			wantLevel:   "info",
			wantMetrics: "",
			wantSocket:  "/run/automation.sock",
		},
		{
			name: "production section replaces the defaults",
			content: `
environment: production
host:
  socket_path: /run/automation.sock
production:
  host:
    metrics_address: 0.0.0.0:9464
`,
			wantLevel:   "debug",
			wantMetrics: "0.0.0.0:9464",
			wantSocket:  "/run/automation.sock",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg, err := LoadFile(writeConfig(t, test.content))
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			if cfg.Logging.Level != test.wantLevel {
				t.Errorf("level = %q, want %q", cfg.Logging.Level, test.wantLevel)
			}
			if cfg.Host.MetricsAddress != test.wantMetrics {
				t.Errorf("metrics_address = %q, want %q", cfg.Host.MetricsAddress, test.wantMetrics)
			}
			if cfg.Host.SocketPath != test.wantSocket {
				t.Errorf("socket_path = %q, want %q", cfg.Host.SocketPath, test.wantSocket)
			}
		})
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("AUTOMATION_TEST_DIR", "/from/env")
	vars := map[string]string{"HOME": "/home/test"}

	tests := []struct {
		input string
		want  string
	}{
		{"${HOME}/layout.yaml", "/home/test/layout.yaml"},
		{"${AUTOMATION_TEST_DIR}/a.sock", "/from/env/a.sock"},
		{"${AUTOMATION_UNSET_VAR:-/fallback}/a.sock", "/fallback/a.sock"},
		{"/plain/path", "/plain/path"},
	}
	for _, test := range tests {
		if got := expandVars(test.input, vars); got != test.want {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad environment", func(c *Config) { c.Environment = "staging" }, "invalid environment"},
		{"no socket", func(c *Config) { c.Host.SocketPath = "" }, "host.socket_path is required"},
		{"zero capacity", func(c *Config) { c.Automation.EventLogCapacity = 0 }, "event_log_capacity must be positive"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level must be one of"},
		{"watch without layout", func(c *Config) { c.Host.WatchLayout = true }, "watch_layout needs host.layout_path"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(cfg)
			err := cfg.Validate()
			if test.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("Validate error = %v, want containing %q", err, test.wantErr)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	if got := (LoggingConfig{Level: "warn"}).SlogLevel(); got != slog.LevelWarn {
		t.Errorf("warn -> %v", got)
	}
	if got := (LoggingConfig{Level: "nonsense"}).SlogLevel(); got != slog.LevelInfo {
		t.Errorf("nonsense -> %v, want info", got)
	}
}
