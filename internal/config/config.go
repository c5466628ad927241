// Package config loads server configuration from a YAML file.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config is the full server configuration.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	Store      Store  `yaml:"store"`
	Engine     Engine `yaml:"engine"`
}

// Store selects and configures the graph storage backend.
type Store struct {
	Backend string `yaml:"backend"` // memory | sqlite | postgres
	Path    string `yaml:"path"`    // sqlite database file
	DSN     string `yaml:"dsn"`     // postgres connection string
}

// Engine configures the propagation engine and validation policy.
type Engine struct {
	MaxIterations int     `yaml:"max_iterations"`
	Epsilon       float64 `yaml:"epsilon"`
	// CyclesBlock makes a cyclic graph fail validation. Off by default:
	// the engine simulates cycles by relaxation.
	CyclesBlock bool `yaml:"cycles_block"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ListenAddr: ":3000",
		Store: Store{
			Backend: BackendMemory,
			Path:    "causalsim.db",
		},
		Engine: Engine{
			MaxIterations: 1000,
			Epsilon:       1e-6,
		},
	}
}

// Load reads a YAML config file on top of the defaults.
// Unknown keys are rejected so typos fail loudly.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Engine.MaxIterations < 0 {
		return fmt.Errorf("engine.max_iterations must not be negative")
	}
	if c.Engine.Epsilon < 0 {
		return fmt.Errorf("engine.epsilon must not be negative")
	}
	return nil
}
