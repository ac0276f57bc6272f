package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points HOME at an empty directory and blanks every override.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "CLIENT_ORIGIN", "JWT_SECRET", "SESSION_STORE",
		"DB_PATH", "DAILY_SALT", "DEBUG_PASSWORD_HASH", "SESSION_TTL", "MIN_DISTANCE",
	} {
		t.Setenv(k, "")
	}
	return home
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadEmbeddedDefault(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Source != "embedded" {
		t.Errorf("Source = %q, want embedded", cfg.Source)
	}
	if cfg.Game.MinDistance != 75 || cfg.Game.MaxAttempts != 1000 {
		t.Errorf("game defaults = %+v", cfg.Game)
	}
	if cfg.Server.Port != "5175" || cfg.Server.RequestTimeout != 10*time.Second {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Session.Store != StoreMemory || cfg.Session.TTL != 24*time.Hour {
		t.Errorf("session defaults = %+v", cfg.Session)
	}
}

func TestLoadCustomPathOverlaysDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "game:\n  min_distance: 120\nsession:\n  ttl: 30m\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
	if cfg.Game.MinDistance != 120 || cfg.Session.TTL != 30*time.Minute {
		t.Errorf("overlay not applied: %+v %+v", cfg.Game, cfg.Session)
	}
	if cfg.Game.MaxAttempts != 1000 {
		t.Errorf("unset key lost its default: max_attempts = %d", cfg.Game.MaxAttempts)
	}
}

func TestLoadCustomPathMustExist(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() accepted a missing explicit config")
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, ".colorquiz", "config.yaml")
	writeFile(t, path, "server:\n  port: \"9000\"\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != "9000" || cfg.Source != path {
		t.Errorf("user config not picked up: port %q source %q", cfg.Server.Port, cfg.Source)
	}
}

func TestLoadSkipsBrokenUserConfig(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".colorquiz", "config.yaml"), "server: [unclosed\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Source != "embedded" {
		t.Errorf("Source = %q, want embedded", cfg.Source)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "8080")
	t.Setenv("SESSION_STORE", "sqlite")
	t.Setenv("DB_PATH", "/tmp/cq.db")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("DAILY_SALT", "pepper")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Session.Store != StoreSQLite || cfg.Session.DBPath != "/tmp/cq.db" {
		t.Errorf("env overrides not applied: %+v %+v", cfg.Server, cfg.Session)
	}
	if cfg.Session.TTL != 2*time.Hour || cfg.Daily.Salt != "pepper" || cfg.Log.Level != "debug" {
		t.Errorf("env overrides not applied: ttl %v salt %q level %q", cfg.Session.TTL, cfg.Daily.Salt, cfg.Log.Level)
	}
}

func TestEnvOverrideBadDuration(t *testing.T) {
	isolate(t)
	t.Setenv("SESSION_TTL", "forever")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "SESSION_TTL") {
		t.Errorf("Load() error = %v, want SESSION_TTL error", err)
	}
}

func TestValidate(t *testing.T) {
	isolate(t)
	base, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("embedded default is invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero distance", func(c *Config) { c.Game.MinDistance = 0 }, "min_distance"},
		{"distance above max", func(c *Config) { c.Game.MinDistance = 766 }, "min_distance"},
		{"zero attempts", func(c *Config) { c.Game.MaxAttempts = 0 }, "max_attempts"},
		{"unknown store", func(c *Config) { c.Session.Store = "redis" }, "session.store"},
		{"sqlite without path", func(c *Config) { c.Session.Store = StoreSQLite; c.Session.DBPath = "" }, "db_path"},
		{"zero ttl", func(c *Config) { c.Session.TTL = 0 }, "ttl"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
