// Package config provides configuration types and defaults for rubymark.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/rubymark/internal/log"
)

// Output formats for rendering.
const (
	FormatHTML     = "html"
	FormatTerminal = "terminal"
	FormatFallback = "fallback"
)

// ErrInvalidFormat is returned for an unknown render format.
var ErrInvalidFormat = errors.New("invalid render format")

// Config holds all configuration options for rubymark.
type Config struct {
	Render   RenderConfig   `mapstructure:"render"`
	Terminal TerminalConfig `mapstructure:"terminal"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// RenderConfig controls how Markdown is converted.
type RenderConfig struct {
	Format    string `mapstructure:"format"`     // "html" (default), "terminal" or "fallback"
	XHTML     bool   `mapstructure:"xhtml"`      // Self-closing void elements
	Unsafe    bool   `mapstructure:"unsafe"`     // Pass raw HTML through
	HardWraps bool   `mapstructure:"hard_wraps"` // Render soft line breaks as <br>
	GFM       bool   `mapstructure:"gfm"`        // Tables, strikethrough, task lists, autolinks
}

// TerminalConfig holds terminal output options.
type TerminalConfig struct {
	Style string `mapstructure:"style"` // "dark" (default), "light", "notty" or a JSON style path
	Width int    `mapstructure:"width"` // Word wrap width
}

// WatchConfig holds --watch options.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// CacheConfig holds render cache options.
type CacheConfig struct {
	Disabled        bool          `mapstructure:"disabled"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Render: RenderConfig{
			Format: FormatHTML,
			GFM:    true,
		},
		Terminal: TerminalConfig{
			Style: "dark",
			Width: 80,
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
		Cache: CacheConfig{
			TTL:             10 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
	}
}

// ValidateFormat checks that format names a supported output.
func ValidateFormat(format string) error {
	switch format {
	case FormatHTML, FormatTerminal, FormatFallback:
		return nil
	}
	return fmt.Errorf("%w: render.format must be %q, %q, or %q, got %q",
		ErrInvalidFormat, FormatHTML, FormatTerminal, FormatFallback, format)
}

// Validate checks the configuration for errors.
// Zero values fall back to defaults and are accepted.
func Validate(cfg Config) error {
	if cfg.Render.Format != "" {
		if err := ValidateFormat(cfg.Render.Format); err != nil {
			return err
		}
	}
	if cfg.Terminal.Width < 0 {
		return fmt.Errorf("terminal.width must not be negative, got %d", cfg.Terminal.Width)
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %v", cfg.Watch.Debounce)
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %v", cfg.Cache.TTL)
	}
	if cfg.Cache.CleanupInterval < 0 {
		return fmt.Errorf("cache.cleanup_interval must not be negative, got %v", cfg.Cache.CleanupInterval)
	}
	return nil
}

// DefaultConfigPath returns ~/.config/rubymark/config.yaml, or an empty string
// if the home directory is unavailable.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rubymark", "config.yaml")
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# rubymark configuration

render:
  # Output format: html, terminal, or fallback (base（reading） plain text)
  format: html
  # Emit XHTML-style self-closing tags
  xhtml: false
  # Pass raw HTML in the source through to the output
  unsafe: false
  # Render soft line breaks as <br>
  hard_wraps: false
  # GitHub Flavored Markdown: tables, strikethrough, task lists, autolinks
  gfm: true

terminal:
  # Glamour style: dark, light, notty, or a path to a JSON style file
  style: dark
  # Word wrap width
  width: 80

watch:
  # Quiet period before re-rendering after a change
  debounce: 100ms

cache:
  # Skip the render cache entirely
  disabled: false
  # How long a rendered document stays cached
  ttl: 10m
  # How often expired entries are purged
  cleanup_interval: 5m
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
