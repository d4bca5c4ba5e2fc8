package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "./config.yaml"

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The YAML file path comes from CONFIG_PATH (fallback DefaultPath). A missing
// file is an error only when CONFIG_PATH was set explicitly.
func Load() (*Config, error) {
	path, explicit := os.LookupEnv("CONFIG_PATH")
	if !explicit || path == "" {
		return LoadFile(DefaultPath, false)
	}
	return LoadFile(path, true)
}

// LoadFile loads configuration from path. When required is false and the file
// does not exist, configuration comes from ENV + defaults only.
func LoadFile(path string, required bool) (*Config, error) {
	var cfg Config

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case required || !errors.Is(statErr, fs.ErrNotExist):
		return nil, fmt.Errorf("config: file %s: %w", path, statErr)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}
