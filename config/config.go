package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel int `yaml:"log_level"`

	Server     ServerConfig     `yaml:"server"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Storage    StorageConfig    `yaml:"storage"`
	StateStore StateStoreConfig `yaml:"state_store"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type CatalogConfig struct {
	// Path to the YAML list of streams
	Path string `yaml:"path"`
}

type StorageConfig struct {
	// Type of storage: "local" or "gcs"
	Type string `yaml:"type"`

	// Local storage options
	OutputDir string `yaml:"output_dir"`

	// GCS options
	Bucket          string `yaml:"bucket"`
	ObjectPrefix    string `yaml:"object_prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

type StateStoreConfig struct {
	// Type of store: "memory", "sqlite" or "redis"
	Type string `yaml:"type"`

	// SQLite options
	DSN string `yaml:"dsn"`

	// Redis options
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config

	// Unmarshal the YAML data into the struct
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}

	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}

	if c.Catalog.Path == "" {
		c.Catalog.Path = "config/streams.yaml"
	}

	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}

	if c.Storage.OutputDir == "" {
		c.Storage.OutputDir = "output"
	}

	if c.StateStore.Type == "" {
		c.StateStore.Type = "memory"
	}

	if c.StateStore.Type == "sqlite" && c.StateStore.DSN == "" {
		c.StateStore.DSN = "download_states.db"
	}

	if c.StateStore.Type == "redis" && c.StateStore.RedisAddr == "" {
		c.StateStore.RedisAddr = "localhost:6379"
	}
}

// Validate reports unsupported backend selections.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "local":
	case "gcs":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("%w: gcs storage requires a bucket", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage type %q", ErrInvalidConfig, c.Storage.Type)
	}

	switch c.StateStore.Type {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("%w: unknown state store type %q", ErrInvalidConfig, c.StateStore.Type)
	}

	return nil
}
