package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/fireworks-games/hanabot/internal/model"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// ServerConfig holds the HTTP listen settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig selects and configures the storage backend
type StorageConfig struct {
	Type     string `yaml:"type"`
	RedisURL string `yaml:"redis_url"`
}

// Config is the full application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`

	// Rules lets an operator vary the game parameters
	Rules model.Rules `yaml:"rules"`
}

// Default returns the configuration used when no file or overrides are given
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "",
			Port: 8080,
		},
		Storage: StorageConfig{
			Type:     StorageTypeMemory,
			RedisURL: "redis://localhost:6379",
		},
		Rules: model.DefaultRules(),
	}
}

// Load reads configuration in order of precedence: defaults, then the YAML
// file at path (skipped when path is empty or missing), then environment
// variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return cfg, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration
func applyEnv(cfg *Config) {
	if v := os.Getenv("HANABOT_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("HANABOT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("HANABOT_STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("HANABOT_REDIS_URL"); v != "" {
		cfg.Storage.RedisURL = v
	}
}

// Validate rejects configurations the server cannot run with
func (c Config) Validate() error {
	if c.Storage.Type != StorageTypeMemory && c.Storage.Type != StorageTypeRedis {
		return fmt.Errorf("storage type must be %q or %q, got %q",
			StorageTypeMemory, StorageTypeRedis, c.Storage.Type)
	}
	if c.Storage.Type == StorageTypeRedis && c.Storage.RedisURL == "" {
		return errors.New("redis_url is required for redis storage")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Rules.ClueTokens < 1 {
		return errors.New("rules.clue_tokens must be at least 1")
	}
	if c.Rules.BombTokens < 1 {
		return errors.New("rules.bomb_tokens must be at least 1")
	}
	if c.Rules.FinalLap < 0 {
		return errors.New("rules.final_lap cannot be negative")
	}
	return nil
}
