package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validJWTSecret = "test-secret-key-at-least-32-chars!"

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWT.Secret = validJWTSecret
	return cfg
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
site:
  id: "adm"
  timezone: "Europe/London"
floorplan:
  path: "/etc/wayfinder/adm.yaml"
routing:
  walking_speed: 1.2
  time_aware: true
database:
  path: "/tmp/test.db"
security:
  jwt:
    secret: "test-secret-key-at-least-32-chars!"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.ID != "adm" {
		t.Errorf("Site.ID = %q, want %q", cfg.Site.ID, "adm")
	}
	if cfg.FloorPlan.Path != "/etc/wayfinder/adm.yaml" {
		t.Errorf("FloorPlan.Path = %q", cfg.FloorPlan.Path)
	}
	if cfg.Routing.WalkingSpeed != 1.2 {
		t.Errorf("Routing.WalkingSpeed = %v, want 1.2", cfg.Routing.WalkingSpeed)
	}
	if !cfg.Routing.TimeAware {
		t.Error("Routing.TimeAware = false, want true")
	}
	// Defaults survive when the file omits a section.
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want default 8080", cfg.API.Port)
	}
	if cfg.Location().String() != "Europe/London" {
		t.Errorf("Location() = %v, want Europe/London", cfg.Location())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "invalid: [yaml: content")
	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
site:
  id: "adm"
database:
  path: "/tmp/file.db"
`)
	t.Setenv("WAYFINDER_DATABASE_PATH", "/tmp/env.db")
	t.Setenv("WAYFINDER_JWT_SECRET", validJWTSecret)
	t.Setenv("WAYFINDER_API_PORT", "9090")
	t.Setenv("WAYFINDER_ROUTING_TIME_AWARE", "true")
	t.Setenv("WAYFINDER_FLOORPLAN_PATH", "/tmp/plan.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/tmp/env.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
	if !cfg.Routing.TimeAware {
		t.Error("Routing.TimeAware not overridden")
	}
	if cfg.FloorPlan.Path != "/tmp/plan.yaml" {
		t.Errorf("FloorPlan.Path = %q", cfg.FloorPlan.Path)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "missing site ID", mutate: func(c *Config) { c.Site.ID = "" }, wantErr: "site.id"},
		{name: "unknown timezone", mutate: func(c *Config) { c.Site.Timezone = "Mars/Olympus" }, wantErr: "site.timezone"},
		{name: "missing floor plan", mutate: func(c *Config) { c.FloorPlan.Path = "" }, wantErr: "floorplan.path"},
		{name: "zero walking speed", mutate: func(c *Config) { c.Routing.WalkingSpeed = 0 }, wantErr: "walking_speed"},
		{name: "missing database path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: "database.path"},
		{name: "invalid QoS", mutate: func(c *Config) { c.MQTT.QoS = 3 }, wantErr: "mqtt.qos"},
		{name: "invalid port", mutate: func(c *Config) { c.API.Port = 70000 }, wantErr: "api.port"},
		{name: "influx without url", mutate: func(c *Config) { c.InfluxDB.Enabled = true }, wantErr: "influxdb.url"},
		{name: "missing JWT secret", mutate: func(c *Config) { c.Security.JWT.Secret = "" }, wantErr: "security.jwt.secret is required"},
		{name: "short JWT secret", mutate: func(c *Config) { c.Security.JWT.Secret = "short" }, wantErr: "at least 32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Site.ID = ""
	cfg.Database.Path = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	if !strings.Contains(err.Error(), "site.id") || !strings.Contains(err.Error(), "database.path") {
		t.Errorf("Validate() = %v, want both problems reported", err)
	}
}

func TestConfig_Location_FallsBackToUTC(t *testing.T) {
	cfg := validConfig()
	cfg.Site.Timezone = "Nowhere/Special"
	if cfg.Location() != time.UTC {
		t.Errorf("Location() = %v, want UTC", cfg.Location())
	}
}

func TestConfig_Timeouts(t *testing.T) {
	cfg := validConfig()
	if got := cfg.API.ReadTimeout(); got != 30*time.Second {
		t.Errorf("API.ReadTimeout() = %v, want 30s", got)
	}
	if got := cfg.API.WriteTimeout(); got != 30*time.Second {
		t.Errorf("API.WriteTimeout() = %v, want 30s", got)
	}
	if got := cfg.API.IdleTimeout(); got != 60*time.Second {
		t.Errorf("API.IdleTimeout() = %v, want 60s", got)
	}
}
