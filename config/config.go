// Package config loads and saves the TOML settings file that tunes the
// CLI driver without recompiling: instruction budget, trace output, and
// color preference. The default_bits setting is loaded and saved, but the
// driver does not apply it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk settings shape.
type Config struct {
	Execution struct {
		MaxInstructions uint64 `toml:"max_instructions"`
		DefaultBits     uint   `toml:"default_bits"`
	} `toml:"execution"`

	Trace struct {
		Enabled    bool   `toml:"enabled"`
		OutputFile string `toml:"output_file"`
	} `toml:"trace"`

	Display struct {
		ColorOutput bool `toml:"color_output"`
	} `toml:"display"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Execution.MaxInstructions = 10_000_000
	cfg.Execution.DefaultBits = 8
	cfg.Trace.Enabled = false
	cfg.Trace.OutputFile = "trace.log"
	cfg.Display.ColorOutput = true
	return cfg
}

// DefaultPath returns the platform-specific config file path.
func DefaultPath() string {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dir = filepath.Join(dir, "urcl-vm")
	case "darwin", "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		dir = filepath.Join(home, ".config", "urcl-vm")
	default:
		return "config.toml"
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// Load reads the config file at the default path, falling back to
// DefaultConfig when it doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads the config file at path.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes c to the default config path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultPath())
}

// SaveTo writes c to path as TOML.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
