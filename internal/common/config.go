// Package common provides shared utilities for idxholders
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/idxholders/internal/models"
)

// Config holds all configuration for idxholders
type Config struct {
	Environment string          `toml:"environment"`
	Source      SourceConfig    `toml:"source"`
	Fields      models.FieldMap `toml:"fields"`
	Logging     LoggingConfig   `toml:"logging"`
}

// SourceConfig locates the parsed report snapshots
type SourceConfig struct {
	Dir string `toml:"dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// HasOutput reports whether the named output ("console" or "file") is enabled
func (c LoggingConfig) HasOutput(name string) bool {
	for _, o := range c.Outputs {
		if strings.EqualFold(strings.TrimSpace(o), name) {
			return true
		}
	}
	return false
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Source: SourceConfig{
			Dir: "data/reports",
		},
		Fields: models.DefaultFieldMap(),
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			Outputs:    []string{"console"},
			FilePath:   "./logs/idxholders.log",
			MaxSizeMB:  20,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	fillFieldDefaults(&config.Fields)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("IDXHOLDERS_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("IDXHOLDERS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if format := os.Getenv("IDXHOLDERS_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}

	if outputs := os.Getenv("IDXHOLDERS_LOG_OUTPUTS"); outputs != "" {
		config.Logging.Outputs = strings.Split(outputs, ",")
	}

	if v := os.Getenv("IDXHOLDERS_LOG_MAX_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Logging.MaxSizeMB = n
		}
	}

	if dir := os.Getenv("IDXHOLDERS_SOURCE_DIR"); dir != "" {
		config.Source.Dir = dir
	}

	if path := os.Getenv("IDXHOLDERS_DATA_PATH"); path != "" {
		config.Source.Dir = filepath.Join(path, "reports")
	}
}

// fillFieldDefaults restores any role left blank by a partial [fields] table
func fillFieldDefaults(f *models.FieldMap) {
	def := models.DefaultFieldMap()
	if f.Sequence == "" {
		f.Sequence = def.Sequence
	}
	if f.Issuer == "" {
		f.Issuer = def.Issuer
	}
	if f.Holder == "" {
		f.Holder = def.Holder
	}
	if f.Change == "" {
		f.Change = def.Change
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveConfigPath picks the config file: explicit path, IDXHOLDERS_CONFIG,
// idxholders.toml beside the binary, then config/idxholders.toml.
func ResolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("IDXHOLDERS_CONFIG"); env != "" {
		return env
	}
	if exe, err := os.Executable(); err == nil {
		path := filepath.Join(filepath.Dir(exe), "idxholders.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join("config", "idxholders.toml")
}
