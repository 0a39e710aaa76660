// Package config loads manifestctl's on-disk configuration.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gear6io/manifest/pkg/errors"
)

var (
	ErrConfigRead  = errors.MustNewCode("config.read_failed")
	ErrConfigParse = errors.MustNewCode("config.parse_failed")
	ErrConfigWrite = errors.MustNewCode("config.write_failed")
)

// WriterDefaults holds the flag defaults manifestctl's write command falls
// back to when a value isn't given on the command line.
type WriterDefaults struct {
	FormatVersion int    `yaml:"format_version"`
	Content       string `yaml:"content"`
	OutputDir     string `yaml:"output_dir"`
}

// Config is manifestctl's on-disk configuration file, conventionally named
// .manifestctl.yml.
type Config struct {
	Version string         `yaml:"version"`
	Writer  WriterDefaults `yaml:"writer"`
	Logging LogConfig      `yaml:"logging"`
}

// LogConfig holds a logging level and output format. It is loaded and saved
// with the rest of the file; manifestctl's logger is built from its
// --verbose flag and does not read these values.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration manifestctl uses when no config
// file is found.
func DefaultConfig() *Config {
	return &Config{
		Version: "0.1.0",
		Writer: WriterDefaults{
			FormatVersion: 2,
			Content:       "data",
			OutputDir:     ".",
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load searches the working directory, then $HOME, for .manifestctl.yml and
// falls back to DefaultConfig when neither is present.
func Load() (*Config, error) {
	path := findConfigFile()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFromFile(path)
}

// LoadFromFile reads and parses a specific configuration file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(ErrConfigRead, "failed to read config file", err).AddContext("path", path)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(ErrConfigParse, "failed to parse config file", err).AddContext("path", path)
	}

	return cfg, nil
}

// Save writes the configuration to path in YAML form.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New(ErrConfigWrite, "failed to marshal config", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(ErrConfigWrite, "failed to write config file", err).AddContext("path", path)
	}

	return nil
}

func findConfigFile() string {
	if _, err := os.Stat(".manifestctl.yml"); err == nil {
		return ".manifestctl.yml"
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(homeDir, ".manifestctl.yml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
