// Package config provides configuration types and defaults for tokstore.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/tokstore/internal/log"
)

// HighlightConfig holds lexing and theming options.
type HighlightConfig struct {
	// Theme is the chroma style name used to resolve token colors.
	// Run 'tokstore themes' to list available styles.
	Theme string `mapstructure:"theme"`

	// Language forces a lexer instead of detecting one from the filename.
	// Empty means detect.
	Language string `mapstructure:"language"`

	// TabWidth is the column width of a tab character when printing.
	TabWidth int `mapstructure:"tab_width"`
}

// CacheConfig holds token cache configuration.
type CacheConfig struct {
	// Enabled controls whether serialized tokens are cached in sqlite.
	Enabled bool `mapstructure:"enabled"`

	// Path is the cache database location.
	// Default: ~/.config/tokstore/cache.db
	Path string `mapstructure:"path"`
}

// WatchConfig holds file watcher configuration.
type WatchConfig struct {
	// DebounceMs coalesces filesystem events that arrive within this window.
	DebounceMs int `mapstructure:"debounce_ms"`

	// Verify re-tokenizes the whole file after each incremental update and
	// compares the results. Slow; intended for debugging.
	Verify bool `mapstructure:"verify"`
}

// Config holds all configuration options for tokstore.
type Config struct {
	Highlight HighlightConfig `mapstructure:"highlight"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Watch     WatchConfig     `mapstructure:"watch"`
}

// DefaultCachePath returns the default token cache location.
// Returns ~/.config/tokstore/cache.db or empty string if home dir unavailable.
func DefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tokstore", "cache.db")
}

// Validate checks the configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func Validate(cfg Config) error {
	if cfg.Highlight.TabWidth < 0 {
		return fmt.Errorf("highlight.tab_width must be non-negative, got %d", cfg.Highlight.TabWidth)
	}
	if cfg.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must be non-negative, got %d", cfg.Watch.DebounceMs)
	}
	if cfg.Cache.Path != "" && !filepath.IsAbs(cfg.Cache.Path) {
		return fmt.Errorf("cache.path must be an absolute path, got %q", cfg.Cache.Path)
	}
	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Highlight: HighlightConfig{
			Theme:    "monokai",
			Language: "",
			TabWidth: 4,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    DefaultCachePath(),
		},
		Watch: WatchConfig{
			DebounceMs: 50,
			Verify:     false,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Tokstore Configuration

# Highlighting settings
highlight:
  theme: monokai    # Chroma style name (run 'tokstore themes' for the list)
  # language: go    # Force a lexer; omit to detect from the filename
  tab_width: 4      # Tab width when printing tokenized lines

# Token cache - serialized tokens keyed by file path + content hash
cache:
  enabled: true
  # path: /home/you/.config/tokstore/cache.db

# Watch mode settings
watch:
  debounce_ms: 50   # Coalesce filesystem events within this window
  verify: false     # Re-tokenize fully after each incremental update (slow)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
