package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/htinter/config"
)

func newTestServeCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "serve"}
	addServeFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	return cmd
}

func TestLoadConfig_NoFile(t *testing.T) {
	cfg, err := loadConfig(newTestServeCmd(t))
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Port != 5080 || cfg.Root != "." {
		t.Errorf("cfg = %+v, want defaults", *cfg)
	}
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "htinter.yaml")
	if err := os.WriteFile(configPath, []byte("port: 7000\nmax_requests: 3\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cmd := newTestServeCmd(t, "-c", configPath, "--root", tmpDir, "--port", "7100")
	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Port != 7100 {
		t.Errorf("Port = %d, want 7100", cfg.Port)
	}
	if cfg.Root != tmpDir {
		t.Errorf("Root = %q, want %q", cfg.Root, tmpDir)
	}
	if cfg.MaxRequests != 3 {
		t.Errorf("MaxRequests = %d, want 3 from file", cfg.MaxRequests)
	}
}

func TestLoadConfig_InvalidOverride(t *testing.T) {
	cmd := newTestServeCmd(t, "--root", "/definitely/not/here")
	if _, err := loadConfig(cmd); err == nil {
		t.Fatal("loadConfig() expected error for missing root, got nil")
	}

	cmd = newTestServeCmd(t, "--port", "0")
	if _, err := loadConfig(cmd); err == nil {
		t.Fatal("loadConfig() expected error for port 0, got nil")
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		format   string
		wantJSON bool
		wantDbg  bool
	}{
		{"text info", "info", "text", false, false},
		{"json debug", "debug", "json", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := config.Default()
			cfg.LogLevel = tt.level
			cfg.LogFormat = tt.format

			logger, err := newLogger(cfg, &buf)
			if err != nil {
				t.Fatalf("newLogger() error = %v", err)
			}

			logger.Debug("debug line")
			logger.Info("info line", "k", "v")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDbg {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDbg)
			}
			if got := strings.HasPrefix(strings.TrimSpace(out), "{"); got != tt.wantJSON {
				t.Errorf("JSON output = %v, want %v\n%s", got, tt.wantJSON, out)
			}
		})
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "loud"
	if _, err := newLogger(cfg, &bytes.Buffer{}); err == nil {
		t.Fatal("newLogger() expected error, got nil")
	}
}
