package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Client storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config represents the global ~/.teleclone/config.toml.
type Config struct {
	DefaultProfile string       `toml:"default_profile"`
	Client         ClientConfig `toml:"client"`
	Server         ServerConfig `toml:"server"`
}

// ClientConfig configures the terminal client and telectl.
type ClientConfig struct {
	ProxyURL              string `toml:"proxy_url"`
	Backend               string `toml:"backend"`
	RedisAddr             string `toml:"redis_addr"`
	SimulateReplies       bool   `toml:"simulate_replies"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// ServerConfig configures telecloned. Provider secrets are read from the
// environment only and never stored here.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	DBDriver string `toml:"db_driver"`
	DBDSN    string `toml:"db_dsn"`
	Model    string `toml:"model"`
}

// Home returns the teleclone base directory: $TELECLONE_HOME, or ~/.teleclone.
func Home() string {
	if dir := strings.TrimSpace(os.Getenv("TELECLONE_HOME")); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".teleclone")
}

// Path returns the global config file path.
func Path() string {
	return filepath.Join(Home(), "config.toml")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DefaultProfile: "main",
		Client: ClientConfig{
			ProxyURL:              "http://127.0.0.1:5000",
			Backend:               BackendSQLite,
			RedisAddr:             "127.0.0.1:6379",
			SimulateReplies:       true,
			RequestTimeoutSeconds: 30,
		},
		Server: ServerConfig{
			Addr:     ":5000",
			DBDriver: "sqlite",
			DBDSN:    filepath.Join(Home(), "server.db"),
			Model:    "gemini-2.5-flash",
		},
	}
}

// Load reads config from the given path over the defaults. Returns an error if
// the file is missing or malformed.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default. The result
// has environment overrides applied.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from TELECLONE_* variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Client.ProxyURL, "TELECLONE_PROXY_URL")
	set(&c.Client.Backend, "TELECLONE_BACKEND")
	set(&c.Client.RedisAddr, "TELECLONE_REDIS_ADDR")
	set(&c.Server.Addr, "TELECLONE_ADDR")
	set(&c.Server.DBDriver, "TELECLONE_DB_DRIVER")
	set(&c.Server.DBDSN, "TELECLONE_DB_DSN")
}

// Validate rejects unknown enum values.
func (c *Config) Validate() error {
	switch c.Client.Backend {
	case BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("client.backend: unknown backend %q", c.Client.Backend)
	}
	switch c.Server.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("server.db_driver: unknown driver %q", c.Server.DBDriver)
	}
	return nil
}

// RequestTimeout returns the proxy request timeout.
func (c ClientConfig) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
