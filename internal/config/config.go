// Package config loads colorquiz settings from YAML and the environment.
//
// Search order: customPath -> ~/.colorquiz/config.yaml -> ./configs/colorquiz.yaml -> embedded default.
// A file only has to set the keys it changes; everything else keeps the
// embedded default. Environment variables are applied last.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/colorquiz/assets"
	"github.com/robalobadob/colorquiz/internal/color"
)

// Session store kinds.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Game    GameConfig    `yaml:"game"`
	Session SessionConfig `yaml:"session"`
	Daily   DailyConfig   `yaml:"daily"`
	Log     LogConfig     `yaml:"log"`

	// Source names the file the values came from ("embedded" for the default).
	Source string `yaml:"-"`
}

type ServerConfig struct {
	Port              string        `yaml:"port"`
	ClientOrigin      string        `yaml:"client_origin"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	JWTSecret         string        `yaml:"jwt_secret"`
	SecureCookies     bool          `yaml:"secure_cookies"`
	DebugPasswordHash string        `yaml:"debug_password_hash"` // bcrypt; empty disables /debug
}

type GameConfig struct {
	MinDistance int `yaml:"min_distance"`
	MaxAttempts int `yaml:"max_attempts"`
}

type SessionConfig struct {
	Store         string        `yaml:"store"`
	DBPath        string        `yaml:"db_path"`
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type DailyConfig struct {
	Salt string `yaml:"salt"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the embedded configuration.
func Default() (Config, error) {
	var cfg Config
	data, err := assets.DefaultConfig()
	if err != nil {
		return cfg, fmt.Errorf("config: read embedded default: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse embedded default: %w", err)
	}
	cfg.Source = "embedded"
	return cfg, nil
}

// Load resolves the configuration, applies environment overrides and
// validates the result. An explicit customPath must exist and parse.
func Load(customPath string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}

	if customPath != "" {
		if err := overlay(&cfg, customPath); err != nil {
			return cfg, err
		}
	} else {
		for _, p := range searchPaths() {
			if _, err := os.Stat(p); err != nil {
				continue
			}
			if err := overlay(&cfg, p); err != nil {
				log.Warn().Err(err).Str("path", p).Msg("ignoring unreadable config")
				continue
			}
			break
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// overlay decodes the file at path on top of cfg. cfg is untouched on error.
func overlay(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	next := *cfg
	if err := yaml.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	next.Source = path
	*cfg = next
	return nil
}

func searchPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".colorquiz", "config.yaml"))
	}
	return append(paths, filepath.Join("configs", "colorquiz.yaml"))
}

func applyEnv(cfg *Config) error {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.ClientOrigin = getEnv("CLIENT_ORIGIN", cfg.Server.ClientOrigin)
	cfg.Server.JWTSecret = getEnv("JWT_SECRET", cfg.Server.JWTSecret)
	cfg.Server.DebugPasswordHash = getEnv("DEBUG_PASSWORD_HASH", cfg.Server.DebugPasswordHash)
	cfg.Session.Store = getEnv("SESSION_STORE", cfg.Session.Store)
	cfg.Session.DBPath = getEnv("DB_PATH", cfg.Session.DBPath)
	cfg.Daily.Salt = getEnv("DAILY_SALT", cfg.Daily.Salt)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: SESSION_TTL: %w", err)
		}
		cfg.Session.TTL = d
	}
	if v := os.Getenv("MIN_DISTANCE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: MIN_DISTANCE: %w", err)
		}
		cfg.Game.MinDistance = n
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is empty"))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, errors.New("server.request_timeout must be positive"))
	}
	if c.Game.MinDistance < 1 || c.Game.MinDistance > color.MaxDistance {
		errs = append(errs, fmt.Errorf("game.min_distance must be in [1, %d], got %d", color.MaxDistance, c.Game.MinDistance))
	}
	if c.Game.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("game.max_attempts must be at least 1, got %d", c.Game.MaxAttempts))
	}
	switch c.Session.Store {
	case StoreMemory:
	case StoreSQLite:
		if c.Session.DBPath == "" {
			errs = append(errs, errors.New("session.db_path is required for the sqlite store"))
		}
	default:
		errs = append(errs, fmt.Errorf("session.store %q is not one of %q, %q", c.Session.Store, StoreMemory, StoreSQLite))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}
	if c.Session.SweepInterval <= 0 {
		errs = append(errs, errors.New("session.sweep_interval must be positive"))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
