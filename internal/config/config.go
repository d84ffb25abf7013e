// Package config loads the engine's optional YAML configuration: log
// level and the soft worklist-size warning ceiling.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable knobs the engine and CLI read at startup.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Engine  EngineConfig  `yaml:"engine"`
}

// LoggingConfig controls the zap logger built by internal/logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // "info" or "debug"
}

// EngineConfig holds the engine settings read from the config file. Neither
// field is read by the CLI or the engine: they have no effect on Solve or
// SolveParallel.
type EngineConfig struct {
	// WorklistWarnSize is a soft worklist-size ceiling. No code compares the
	// worklist against it or logs a warning.
	WorklistWarnSize int `yaml:"worklist_warn_size"`
	// Workers is a worker count, 0 standing for runtime.NumCPU(). The CLI
	// takes its worker count from the --workers flag, not from this field.
	Workers int `yaml:"workers"`
}

// Default returns the engine's built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Engine: EngineConfig{
			WorklistWarnSize: 10000,
			Workers:          0,
		},
	}
}

// Load reads a YAML config file, falling back to Default() (with no error)
// if path does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
