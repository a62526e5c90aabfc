// Package config loads graphview.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/recera/graphview/pkg/validation"
)

// FileName is the config file looked up in a project directory
const FileName = "graphview.yaml"

// Config represents the graphview.yaml configuration
type Config struct {
	// Transition configuration
	Transition TransitionConfig `yaml:"transition"`

	// Viewport used when no browser reports a size
	Viewport ViewportConfig `yaml:"viewport"`

	// Live server configuration
	Server ServerConfig `yaml:"server"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// TransitionConfig controls animated renders
type TransitionConfig struct {
	// Duration of every animated render, fixed per view factory
	Duration time.Duration `yaml:"duration" validate:"gte=0"`

	// FrameInterval is the tick period of the transition scheduler
	FrameInterval time.Duration `yaml:"frameInterval" validate:"gt=0"`
}

// ViewportConfig is a fixed viewport size
type ViewportConfig struct {
	Width  int `yaml:"width" validate:"gte=0"`
	Height int `yaml:"height" validate:"gte=0"`
}

// ServerConfig contains live server configuration
type ServerConfig struct {
	// Server host
	Host string `yaml:"host" validate:"required"`

	// Server port
	Port int `yaml:"port" validate:"min=1,max=65535"`

	// Whether to expose /metrics
	Metrics bool `yaml:"metrics"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Addr returns host:port
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Transition: TransitionConfig{
			Duration:      750 * time.Millisecond,
			FrameInterval: 16 * time.Millisecond,
		},
		Viewport: ViewportConfig{
			Width:  1280,
			Height: 800,
		},
		Server: ServerConfig{
			Host:    "localhost",
			Port:    8080,
			Metrics: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from path. A missing file yields the defaults.
// Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	applyDefaults(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// LoadDir loads graphview.yaml from a project directory
func LoadDir(projectPath string) (*Config, error) {
	return Load(filepath.Join(projectPath, FileName))
}

// Save writes the configuration to path
func Save(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// applyDefaults fills values that were explicitly emptied in the file
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.Transition.FrameInterval == 0 {
		config.Transition.FrameInterval = defaults.Transition.FrameInterval
	}
	if config.Server.Host == "" {
		config.Server.Host = defaults.Server.Host
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Log.Level == "" {
		config.Log.Level = defaults.Log.Level
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	return validation.Struct(c)
}
