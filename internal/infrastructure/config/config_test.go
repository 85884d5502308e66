package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
service:
  id: "test-volumed"
audio:
  default_level: 0.4
api:
  host: "127.0.0.1"
  port: 9090
database:
  path: "/tmp/volumed-test.db"
history:
  enabled: true
  retention_days: 7
logging:
  level: "debug"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.ID != "test-volumed" {
		t.Errorf("Service.ID = %q, want %q", cfg.Service.ID, "test-volumed")
	}
	if cfg.Audio.DefaultLevel != 0.4 {
		t.Errorf("Audio.DefaultLevel = %v, want 0.4", cfg.Audio.DefaultLevel)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
	if cfg.History.RetentionDays != 7 {
		t.Errorf("History.RetentionDays = %d, want 7", cfg.History.RetentionDays)
	}

	// Unset sections keep their defaults
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("MQTT.Broker.Port = %d, want default 1883", cfg.MQTT.Broker.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("VOLUMED_API_HOST", "192.168.1.50")
	t.Setenv("VOLUMED_API_PORT", "8181")
	t.Setenv("VOLUMED_LOG_LEVEL", "warn")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("api:\n  port: 8080\n"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.Host != "192.168.1.50" {
		t.Errorf("API.Host = %q, want env override %q", cfg.API.Host, "192.168.1.50")
	}
	if cfg.API.Port != 8181 {
		t.Errorf("API.Port = %d, want env override 8181", cfg.API.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want env override %q", cfg.Logging.Level, "warn")
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() config fails validation: %v", err)
	}
	if cfg.Audio.DefaultLevel != 0.5 {
		t.Errorf("Audio.DefaultLevel = %v, want 0.5", cfg.Audio.DefaultLevel)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want 8080", cfg.API.Port)
	}
	if cfg.MQTT.Enabled {
		t.Error("MQTT should be disabled by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(_ *Config) {},
			wantErr: false,
		},
		{
			name:    "empty service id",
			mutate:  func(c *Config) { c.Service.ID = "" },
			wantErr: true,
		},
		{
			name:    "default level above range",
			mutate:  func(c *Config) { c.Audio.DefaultLevel = 1.5 },
			wantErr: true,
		},
		{
			name:    "default level below range",
			mutate:  func(c *Config) { c.Audio.DefaultLevel = -0.1 },
			wantErr: true,
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: true,
		},
		{
			name: "history enabled without database path",
			mutate: func(c *Config) {
				c.History.Enabled = true
				c.Database.Path = ""
			},
			wantErr: true,
		},
		{
			name: "history disabled ignores database path",
			mutate: func(c *Config) {
				c.History.Enabled = false
				c.Database.Path = ""
			},
			wantErr: false,
		},
		{
			name: "mqtt enabled without client id",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.Broker.ClientID = ""
			},
			wantErr: true,
		},
		{
			name: "mqtt invalid qos",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.QoS = 3
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
