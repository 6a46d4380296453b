// ============================================================================
// Configuration
// ============================================================================
//
// Package: internal/executor
// File: config.go
//
// A small struct loaded once at process startup, with sensible
// zero-value defaults so in-process callers that never touch a config
// file still get correctly sized pools.
//
// ============================================================================

package executor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls the sizing and observability knobs of an Executor.
type Config struct {
	Executor struct {
		// DefaultPoolSize is the worker count new runners are created
		// with. 0 means DefaultPoolSize() (NumCPU, minimum 1).
		DefaultPoolSize int `yaml:"default_pool_size"`
		// TimerPoolSize is the helper pool size the Timer uses to hand
		// off due work. Recommended small: 1-4.
		TimerPoolSize int `yaml:"timer_pool_size"`
	} `yaml:"executor"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"`
	} `yaml:"metrics"`
}

// DefaultConfig returns the Config used when none is supplied.
func DefaultConfig() Config {
	var cfg Config
	cfg.Executor.DefaultPoolSize = 0 // resolved lazily to DefaultPoolSize()
	cfg.Executor.TimerPoolSize = 2
	cfg.Metrics.Enabled = false
	cfg.Metrics.Addr = ":9090"
	return cfg
}

// LoadConfig reads and parses a YAML config file at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("executor: failed to read config file: %w", err)
	}

	cfg = DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("executor: failed to parse config YAML: %w", err)
	}
	return cfg, nil
}

func (c Config) poolSize() int {
	if c.Executor.DefaultPoolSize > 0 {
		return c.Executor.DefaultPoolSize
	}
	return DefaultPoolSize()
}

func (c Config) timerPoolSize() int {
	if c.Executor.TimerPoolSize > 0 {
		return c.Executor.TimerPoolSize
	}
	return 2
}

func (c Config) metricsAddr() string {
	if c.Metrics.Addr != "" {
		return c.Metrics.Addr
	}
	return ":9090"
}
