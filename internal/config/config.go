// Package config loads citydump settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andreiashu/citydump"
)

// DefaultFile is read when no config path is given and it exists.
const DefaultFile = "citydump.yaml"

// Config represents the full configuration for a run.
type Config struct {
	InputDir    string `yaml:"input_dir"`
	InputName   string `yaml:"input_name"`
	Output      string `yaml:"output"`
	Strict      bool   `yaml:"strict"`
	Compress    string `yaml:"compress"` // bzip2, gzip, zstd or none
	Download    bool   `yaml:"download"`
	DownloadURL string `yaml:"download_url"`
	MetricsFile string `yaml:"metrics_file"`
	Log         Log    `yaml:"log"`
}

// Log configures logging. An empty File logs to stderr only.
type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		InputName:   citydump.DefaultInputName,
		Output:      citydump.DefaultOutputPath,
		Compress:    "bzip2",
		DownloadURL: citydump.DefaultDownloadURL,
		Log: Log{
			Level:      "info",
			MaxSizeMB:  32,
			MaxBackups: 1,
		},
	}
}

// Load reads configuration from path. If path is empty, DefaultFile is
// used when present, otherwise defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		data, err := os.ReadFile(DefaultFile)
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", DefaultFile, err)
		}
		return parse(cfg, DefaultFile, data)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(cfg, path, data)
}

func parse(cfg *Config, path string, data []byte) (*Config, error) {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Compress {
	case "", "none", "bzip2", "gzip", "zstd":
	default:
		return fmt.Errorf("invalid compress %q (want bzip2, gzip, zstd or none)", c.Compress)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.InputName == "" {
		return errors.New("input_name must not be empty")
	}
	if c.Download && c.DownloadURL == "" {
		return errors.New("download is enabled but download_url is empty")
	}
	return nil
}
