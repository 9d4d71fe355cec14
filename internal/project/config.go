// Package project handles the typedlisp.yaml project configuration.
//
// The file is optional. It controls diagnostic rendering and lets a
// project declare extra builtin signatures that the checker seeds into
// the global scope before inference:
//
//	color: never
//	max_errors: 20
//	builtins:
//	  - name: mod
//	    type: int -> int -> int
//	  - name: const
//	    type: "'a -> 'b -> 'a"
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the top-level typedlisp.yaml configuration.
type Config struct {
	// Color controls diagnostic colorization: auto, always, or never.
	// Defaults to auto (color only on a terminal).
	Color string `yaml:"color,omitempty"`

	// MaxErrors caps the number of rendered diagnostics. Zero means
	// unlimited. Collection is never capped, only rendering.
	MaxErrors int `yaml:"max_errors,omitempty"`

	// Builtins lists extra global signatures seeded before inference.
	Builtins []BuiltinSig `yaml:"builtins,omitempty"`
}

// BuiltinSig declares one extra builtin: a name and a curried type
// expression such as "int -> int -> bool". Variables spelled 'a are
// generalized, so every use site instantiates fresh copies.
type BuiltinSig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// LoadConfig reads and parses a typedlisp.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses typedlisp.yaml content from bytes. The path argument
// is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for typedlisp.yaml starting from dir and walking up
// to parent directories. Returns the path and nil error if found, or an
// empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, "typedlisp.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		candidate = filepath.Join(dir, "typedlisp.yml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	switch c.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%s: color must be auto, always, or never (got %q)", path, c.Color)
	}

	if c.MaxErrors < 0 {
		return fmt.Errorf("%s: max_errors must not be negative", path)
	}

	seen := make(map[string]bool)
	for i, b := range c.Builtins {
		if b.Name == "" {
			return fmt.Errorf("%s: builtins[%d]: name is required", path, i)
		}
		if b.Type == "" {
			return fmt.Errorf("%s: builtins[%d] (%s): type is required", path, i, b.Name)
		}
		if seen[b.Name] {
			return fmt.Errorf("%s: builtins[%d]: duplicate builtin %q", path, i, b.Name)
		}
		seen[b.Name] = true
	}

	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if c.Color == "" {
		c.Color = ColorAuto
	}
}
