package config

import (
	"fmt"
	"os"
	"time"

	"github.com/vjranagit/queryeditor/pkg/catalog"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	ListenAddr string        `yaml:"listen_addr"`
	Timeout    time.Duration `yaml:"timeout"`
}

// CatalogConfig holds scenario catalog configuration
type CatalogConfig struct {
	// Source is "builtin" for the compiled-in list or "store" for BadgerDB
	Source           string `yaml:"source"`
	Path             string `yaml:"path"`
	InMemory         bool   `yaml:"in_memory"`
	CompressionLevel int    `yaml:"compression_level"`
	// SeedBuiltin fills an empty store with the builtin scenarios on start
	SeedBuiltin bool `yaml:"seed_builtin"`
	// CacheTTL shares one catalog read between sessions; zero disables it
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
			Timeout:    getEnvDuration("SERVER_TIMEOUT", 30*time.Second),
		},
		Catalog: CatalogConfig{
			Source:           getEnv("CATALOG_SOURCE", "builtin"),
			Path:             getEnv("CATALOG_PATH", "./data"),
			InMemory:         getEnvBool("CATALOG_IN_MEMORY", false),
			CompressionLevel: getEnvInt("COMPRESSION_LEVEL", 3),
			SeedBuiltin:      getEnvBool("CATALOG_SEED_BUILTIN", true),
			CacheTTL:         getEnvDuration("CATALOG_CACHE_TTL", time.Minute),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvBool("LOG_DEVELOPMENT", false),
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path, if any
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// ToCatalogConfig converts to catalog.Config
func (c *Config) ToCatalogConfig() *catalog.Config {
	return &catalog.Config{
		Path:             c.Catalog.Path,
		InMemory:         c.Catalog.InMemory,
		CompressionLevel: c.Catalog.CompressionLevel,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server listen address is required")
	}

	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive")
	}

	switch c.Catalog.Source {
	case "builtin":
	case "store":
		if c.Catalog.Path == "" && !c.Catalog.InMemory {
			return fmt.Errorf("catalog path is required")
		}
	default:
		return fmt.Errorf("catalog source must be builtin or store, got %q", c.Catalog.Source)
	}

	if c.Catalog.CacheTTL < 0 {
		return fmt.Errorf("catalog cache ttl must not be negative")
	}

	if c.Catalog.CompressionLevel < 1 || c.Catalog.CompressionLevel > 4 {
		return fmt.Errorf("compression level must be between 1 and 4")
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
