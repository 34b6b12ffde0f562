package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the demo configuration.
type Config struct {
	// TraceFile, if set, receives a CBOR registration trace.
	TraceFile string

	// Verbose echoes registration events to the console.
	Verbose bool

	// DefaultTimeout is used by the timeout command when no duration is
	// given.
	DefaultTimeout time.Duration

	// Prompt is the readline prompt.
	Prompt string
}

// rawConfig is the YAML shape; durations are strings like "2s".
type rawConfig struct {
	TraceFile      string `yaml:"trace_file"`
	Verbose        bool   `yaml:"verbose"`
	DefaultTimeout string `yaml:"default_timeout"`
	Prompt         string `yaml:"prompt"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		DefaultTimeout: 2 * time.Second,
		Prompt:         "crosstime> ",
	}
}

// LoadConfig reads a YAML configuration file, filling unset fields with
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg := DefaultConfig()
	cfg.TraceFile = raw.TraceFile
	cfg.Verbose = raw.Verbose
	if raw.Prompt != "" {
		cfg.Prompt = raw.Prompt
	}
	if raw.DefaultTimeout != "" {
		d, err := time.ParseDuration(raw.DefaultTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: default_timeout: %w", path, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("parsing %s: default_timeout must be positive", path)
		}
		cfg.DefaultTimeout = d
	}
	return cfg, nil
}
