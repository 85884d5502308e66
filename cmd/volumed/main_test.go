package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/volumed/internal/infrastructure/logging"
)

// TestRun_ExplicitConfigMissing verifies run fails when VOLUMED_CONFIG
// points at a file that does not exist.
func TestRun_ExplicitConfigMissing(t *testing.T) {
	t.Setenv("VOLUMED_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with an explicit missing config path")
	}
}

// TestLoadConfig_DefaultPathMissingFallsBack verifies volumed runs on
// defaults when the default config file is absent.
func TestLoadConfig_DefaultPathMissingFallsBack(t *testing.T) {
	t.Setenv("VOLUMED_CONFIG", "")

	// The package directory has no configs/config.yaml
	cfg, err := loadConfig(logging.Default())
	if err != nil {
		t.Fatalf("loadConfig() error = %v, want defaults fallback", err)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("cfg.API.Port = %d, want default 8080", cfg.API.Port)
	}
	if cfg.Audio.DefaultLevel != 0.5 {
		t.Errorf("cfg.Audio.DefaultLevel = %v, want default 0.5", cfg.Audio.DefaultLevel)
	}
}

// TestLoadConfig_ExplicitPath verifies an explicit config path is loaded
// and applied.
func TestLoadConfig_ExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
service:
  id: volumed-test

audio:
  default_level: 0.25

api:
  host: "127.0.0.1"
  port: 9090

history:
  enabled: false

logging:
  level: debug
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("VOLUMED_CONFIG", configPath)

	cfg, err := loadConfig(logging.Default())
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("cfg.API.Port = %d, want 9090", cfg.API.Port)
	}
	if cfg.Audio.DefaultLevel != 0.25 {
		t.Errorf("cfg.Audio.DefaultLevel = %v, want 0.25", cfg.Audio.DefaultLevel)
	}
	if cfg.History.Enabled {
		t.Error("history should be disabled")
	}
}

// TestLoadConfig_InvalidConfigRejected verifies validation failures surface.
func TestLoadConfig_InvalidConfigRejected(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
audio:
  default_level: 3.0
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("VOLUMED_CONFIG", configPath)

	if _, err := loadConfig(logging.Default()); err == nil {
		t.Fatal("loadConfig() should reject default_level outside [0.0, 1.0]")
	}
}
