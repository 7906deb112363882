// Package config loads application configuration from a YAML file with
// environment variable overrides for the settings that differ between
// machines.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type StorageConfig struct {
	// Backend selects the storage implementation: "file" (JSON
	// key/value store) or "sqlite".
	Backend string `yaml:"backend"`

	// Path is the store file location (JSON file or SQLite database).
	Path string `yaml:"path"`
}

type AuthConfig struct {
	// JWTSecret signs session tokens. Local-only, but still worth
	// keeping out of version control.
	JWTSecret string `yaml:"jwt_secret"`

	// TokenTTL is how long a login session remains valid.
	TokenTTL time.Duration `yaml:"token_ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Log     LogConfig     `yaml:"log"`
}

// Default returns the configuration used when no config file exists.
// Data lives under ~/.habitkit.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".habitkit")

	return &Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    filepath.Join(dataDir, "store.json"),
		},
		Auth: AuthConfig{
			JWTSecret: "habitkit-local-secret",
			TokenTTL:  24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the config file at path, merging it over the defaults.
// A missing file is not an error: defaults apply. Environment variables
// override both.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	overrideFromEnv(cfg)

	if cfg.Storage.Backend != BackendFile && cfg.Storage.Backend != BackendSQLite {
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	return cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if backend := os.Getenv("HABITKIT_STORAGE_BACKEND"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if path := os.Getenv("HABITKIT_STORAGE_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if secret := os.Getenv("HABITKIT_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if ttl := os.Getenv("HABITKIT_TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.Auth.TokenTTL = d
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
}
