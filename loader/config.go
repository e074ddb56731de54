package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds configuration for loading a template directory.
// Zero values use sensible defaults where noted.
type Config struct {
	// Dir is the root directory searched for templates.
	// Required.
	Dir string `json:"dir" yaml:"dir" toml:"dir"`

	// Extension selects which files are templates.
	// Default: ".mustache"
	Extension string `json:"extension" yaml:"extension" toml:"extension"`

	// Compact moves each template's text into its own buffer after parsing
	// so file contents are not retained.
	// Default: true
	Compact bool `json:"compact" yaml:"compact" toml:"compact"`

	// Watch reloads templates when files under Dir change.
	// Default: false
	Watch bool `json:"watch" yaml:"watch" toml:"watch"`
}

// DefaultConfig returns a Config with sensible defaults.
// Dir must still be set before use.
func DefaultConfig() Config {
	return Config{
		Extension: ".mustache",
		Compact:   true,
	}
}

// LoadConfig reads a TOML (.toml) or YAML (.yaml, .yml) config file over
// DefaultConfig. A relative Dir is resolved against the file's directory.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, ext)
	}

	if cfg.Dir != "" && !filepath.IsAbs(cfg.Dir) {
		cfg.Dir = filepath.Join(filepath.Dir(path), cfg.Dir)
	}
	return cfg, nil
}

// LoadFromEnv populates config fields from environment variables.
// Environment variables use the STACHE_ prefix and take precedence over
// existing values.
//
// Supported variables:
//   - STACHE_DIR: Template directory
//   - STACHE_EXTENSION: Template file extension
//   - STACHE_COMPACT: Compact after parsing (bool)
//   - STACHE_WATCH: Reload on change (bool)
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("STACHE_DIR"); v != "" {
		c.Dir = v
	}
	if v := os.Getenv("STACHE_EXTENSION"); v != "" {
		c.Extension = v
	}
	if v := os.Getenv("STACHE_COMPACT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Compact = b
		}
	}
	if v := os.Getenv("STACHE_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Watch = b
		}
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("%w: dir is required", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
		return fmt.Errorf("%w: extension %q must start with a dot", ErrInvalidConfig, c.Extension)
	}
	return nil
}
