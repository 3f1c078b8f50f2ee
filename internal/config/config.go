package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FMIVIEWER_CACHE_PATH.
const EnvPrefix = "FMIVIEWER"

// Config holds all configuration settings
type Config struct {
	// Output presentation
	Output OutputConfig `yaml:"output" mapstructure:"output"`

	// Result cache configuration
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`

	// Catalog database configuration
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`

	// Batch inspection settings
	Batch BatchConfig `yaml:"batch" mapstructure:"batch"`

	// Logging settings
	Log LogConfig `yaml:"log" mapstructure:"log"`
}

type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "auto", "quiet", "standard", "explain", "json", "yaml"
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

type CatalogConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite", "postgres"
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn" mapstructure:"postgres_dsn"`
}

type BatchConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"` // 0 = one per CPU
}

type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	File       string `yaml:"file" mapstructure:"file"`
	JSON       bool   `yaml:"json" mapstructure:"json"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
}

// Default returns default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	base := filepath.Join(homeDir, ".fmiviewer")
	return &Config{
		Output: OutputConfig{
			Format: "auto",
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    filepath.Join(base, "cache.db"),
		},
		Catalog: CatalogConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(base, "catalog.db"),
		},
		Batch: BatchConfig{
			Workers: 0,
		},
		Log: LogConfig{
			Level:      "warn",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load loads configuration from file, environment and defaults
func Load(path string) (*Config, error) {
	// Load .env files first (in order of precedence)
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	// Set defaults
	cfg := Default()
	setDefaults(v, cfg)

	// Load from environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to find config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Search for config in standard locations
		v.SetConfigName("config")
		v.AddConfigPath(".fmiviewer")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".fmiviewer"))
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	// Unmarshal into struct
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	return cfg, nil
}

// setDefaults registers every leaf key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.path", cfg.Cache.Path)
	v.SetDefault("catalog.driver", cfg.Catalog.Driver)
	v.SetDefault("catalog.sqlite_path", cfg.Catalog.SQLitePath)
	v.SetDefault("catalog.postgres_dsn", cfg.Catalog.PostgresDSN)
	v.SetDefault("batch.workers", cfg.Batch.Workers)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.json", cfg.Log.JSON)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("output", c.Output)
	v.Set("cache", c.Cache)
	v.Set("catalog", c.Catalog)
	v.Set("batch", c.Batch)
	v.Set("log", c.Log)

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write config file
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
