// Package config loads interpreter settings from TOML or YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Color modes for the diagnostics stream.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// MaxStackSize bounds StackSize so a typo cannot allocate gigabytes.
const MaxStackSize = 1 << 24

// Config holds interpreter settings.
type Config struct {
	// StackSize is the value stack capacity in slots.
	StackSize int `toml:"stack-size" yaml:"stack_size"`
	// Trace logs every executed instruction at debug level.
	Trace bool `toml:"trace" yaml:"trace"`
	// PrintCode writes a bytecode listing of each compiled chunk.
	PrintCode bool   `toml:"print-code" yaml:"print_code"`
	Color     string `toml:"color" yaml:"color"`
	// Verbosity is handed to the log backend.
	Verbosity int `toml:"verbosity" yaml:"verbosity"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		StackSize: 1 << 16,
		Color:     ColorAuto,
	}
}

// Load reads path, choosing the format by extension, and overlays it on the
// defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes data in the format implied by path's extension. The path is
// otherwise used only for error messages.
func Parse(data []byte, path string) (Config, error) {
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse error in %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the interpreter cannot honor.
func (c Config) Validate() error {
	if c.StackSize < 1 || c.StackSize > MaxStackSize {
		return fmt.Errorf("stack size %d out of range [1, %d]", c.StackSize, MaxStackSize)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be %q, %q or %q, got %q", ColorAuto, ColorAlways, ColorNever, c.Color)
	}
	if c.Verbosity < -4 || c.Verbosity > 2 {
		return fmt.Errorf("verbosity %d out of range [-4, 2]", c.Verbosity)
	}
	return nil
}
