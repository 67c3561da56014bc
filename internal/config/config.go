package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level bankmerge.yaml configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Logs     LogsConfig     `yaml:"logs"`
	Accounts []Account      `yaml:"accounts,omitempty"`
}

// DatabaseConfig locates the SQLite database file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogsConfig locates the import audit log.
type LogsConfig struct {
	Dir string `yaml:"dir"`
}

// Account maps an account name to the statement format its bank exports.
type Account struct {
	Name   string `yaml:"name"`
	Format string `yaml:"format"`
}

// FormatFor returns the configured default statement format for an
// account, or "" if the account is not configured.
func (c *Config) FormatFor(accountName string) string {
	for _, a := range c.Accounts {
		if a.Name == accountName {
			return a.Format
		}
	}
	return ""
}

// Load reads a bankmerge.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "bankmerge.db",
		},
		Logs: LogsConfig{
			Dir: "logs",
		},
	}
}
