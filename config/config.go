package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"promptshop/navigation"
)

// Config is the resolved runtime configuration of the storefront API.
type Config struct {
	HTTPPort        int
	ShutdownTimeout time.Duration

	DatabaseURL string
	MaxDBConns  int32

	SessionSecret   string
	SessionTokenTTL time.Duration
	SessionIdleTTL  time.Duration
	ReapInterval    time.Duration

	LogLevel       string
	LogDevelopment bool

	Profile navigation.Profile
}

// configFile mirrors the YAML schema of configs/default.yaml.
type configFile struct {
	Server struct {
		HTTPPort        int    `yaml:"http_port"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Database struct {
		URL      string `yaml:"url"`
		MaxConns int32  `yaml:"max_conns"`
	} `yaml:"database"`
	Session struct {
		Secret       string `yaml:"secret"`
		TokenTTL     string `yaml:"token_ttl"`
		IdleTTL      string `yaml:"idle_ttl"`
		ReapInterval string `yaml:"reap_interval"`
	} `yaml:"session"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Profile struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Role     string `yaml:"role"`
		Mobile   string `yaml:"mobile"`
		Avatar   string `yaml:"avatar"`
		Location string `yaml:"location"`
	} `yaml:"profile"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTPPort:        8080,
		ShutdownTimeout: 10 * time.Second,
		MaxDBConns:      10,
		SessionSecret:   "dev-session-secret",
		SessionTokenTTL: 24 * time.Hour,
		SessionIdleTTL:  2 * time.Hour,
		ReapInterval:    time.Minute,
		LogLevel:        "info",
		Profile:         navigation.MockProfile,
	}
}

// Load resolves configuration in priority order: defaults, then the YAML
// file at path (a missing file is not an error), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.applyFile(raw); err != nil {
				return Config{}, err
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("config: parse file: %w", err)
	}

	if f.Server.HTTPPort > 0 {
		c.HTTPPort = f.Server.HTTPPort
	}
	if err := setDuration(&c.ShutdownTimeout, f.Server.ShutdownTimeout, "server.shutdown_timeout"); err != nil {
		return err
	}
	if f.Database.URL != "" {
		c.DatabaseURL = f.Database.URL
	}
	if f.Database.MaxConns > 0 {
		c.MaxDBConns = f.Database.MaxConns
	}
	if f.Session.Secret != "" {
		c.SessionSecret = f.Session.Secret
	}
	if err := setDuration(&c.SessionTokenTTL, f.Session.TokenTTL, "session.token_ttl"); err != nil {
		return err
	}
	if err := setDuration(&c.SessionIdleTTL, f.Session.IdleTTL, "session.idle_ttl"); err != nil {
		return err
	}
	if err := setDuration(&c.ReapInterval, f.Session.ReapInterval, "session.reap_interval"); err != nil {
		return err
	}
	if f.Log.Level != "" {
		c.LogLevel = f.Log.Level
	}
	c.LogDevelopment = c.LogDevelopment || f.Log.Development

	p := f.Profile
	if p.Name != "" || p.Email != "" {
		c.Profile = navigation.Profile{
			Name:     p.Name,
			Email:    p.Email,
			Role:     p.Role,
			Mobile:   p.Mobile,
			Avatar:   p.Avatar,
			Location: p.Location,
		}
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("HTTP_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: HTTP_PORT: %w", err)
		}
		c.HTTPPort = port
	}
	if v, ok := lookup("DATABASE_URL"); ok && v != "" {
		c.DatabaseURL = v
	}
	if v, ok := lookup("SESSION_SECRET"); ok && v != "" {
		c.SessionSecret = v
	}
	if v, ok := lookup("SESSION_IDLE_TTL"); ok {
		if err := setDuration(&c.SessionIdleTTL, v, "SESSION_IDLE_TTL"); err != nil {
			return err
		}
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate reports configuration that cannot start a server.
func (c Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("config: invalid http port %d", c.HTTPPort)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("config: session secret required")
	}
	if c.SessionIdleTTL <= 0 || c.ReapInterval <= 0 || c.SessionTokenTTL <= 0 {
		return fmt.Errorf("config: session durations must be positive")
	}
	return nil
}

func setDuration(dst *time.Duration, raw, field string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: %s: %w", field, err)
	}
	*dst = d
	return nil
}
