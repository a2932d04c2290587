// Package config loads saloonctl settings. Values are layered:
// built-in defaults, then an optional YAML file, then variables from
// a .env file, then the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/saloonhub/saloonstore/saloon/service"
	"github.com/saloonhub/saloonstore/storage/kv/plugins"
	"gopkg.in/yaml.v3"
)

const (
	EnvStoreDriver     = "SALOON_STORE_DRIVER"
	EnvStorePath       = "SALOON_STORE_PATH"
	EnvMaxValueSize    = "SALOON_MAX_VALUE_SIZE"
	EnvLogLevel        = "SALOON_LOG_LEVEL"
	EnvLogDevelopment  = "SALOON_LOG_DEVELOPMENT"
	DefaultStoreDriver = "bbolt"
	DefaultStorePath   = "saloons.db"
	DefaultLogLevel    = "info"
)

// Config contains everything needed to open a saloon store
type Config struct {
	Storage      StorageConfig `yaml:"storage"`
	MaxValueSize int           `yaml:"max_value_size"`
	Log          LogConfig     `yaml:"log"`
}

// StorageConfig selects the kv driver and where it keeps its data
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Driver: DefaultStoreDriver,
			Path:   DefaultStorePath,
		},
		MaxValueSize: service.DefaultMaxValueSize,
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load builds a configuration. path names an optional YAML file and
// may be empty. envFiles are loaded with godotenv; missing files are
// ignored and variables already in the environment win.
func Load(path string, envFiles ...string) (Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)

		if err != nil {
			return Config{}, fmt.Errorf("could not read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("could not parse config file %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("could not load %s: %w", envFile, err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (config *Config) applyEnv() error {
	if v := os.Getenv(EnvStoreDriver); v != "" {
		config.Storage.Driver = v
	}

	if v := os.Getenv(EnvStorePath); v != "" {
		config.Storage.Path = v
	}

	if v := os.Getenv(EnvMaxValueSize); v != "" {
		n, err := strconv.Atoi(v)

		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", EnvMaxValueSize, err)
		}

		config.MaxValueSize = n
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Log.Level = v
	}

	if v := os.Getenv(EnvLogDevelopment); v != "" {
		b, err := strconv.ParseBool(v)

		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", EnvLogDevelopment, err)
		}

		config.Log.Development = b
	}

	return nil
}

// Validate checks that the configuration can open a store
func (config Config) Validate() error {
	if plugins.Plugin(config.Storage.Driver) == nil {
		return fmt.Errorf("unknown storage driver %q, expected one of %v", config.Storage.Driver, plugins.Names())
	}

	if config.Storage.Driver != "memory" && config.Storage.Path == "" {
		return fmt.Errorf("storage driver %s requires a path", config.Storage.Driver)
	}

	if config.MaxValueSize <= 0 {
		return fmt.Errorf("max_value_size must be positive, got %d", config.MaxValueSize)
	}

	return nil
}
