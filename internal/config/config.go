// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and watches the obsidian-tui configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/obsidian-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete obsidian-tui configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	UI     UIConfig     `toml:"ui"`
	Chat   ChatConfig   `toml:"chat"`
}

// ServerConfig describes the backend the client talks to.
type ServerConfig struct {
	// URL is the backend base URL, e.g. "https://chat.example.com".
	URL string `toml:"url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries is the retry budget for transient failures.
	MaxRetries int `toml:"max_retries"`
}

// UIConfig controls presentation.
type UIConfig struct {
	// RevealCharsPerSec is the typed-reveal rate. Clamped to 50-2000.
	RevealCharsPerSec int `toml:"reveal_chars_per_sec"`
	// Markdown disables rich rendering when false.
	Markdown bool `toml:"markdown"`
	// WordWrap is the markdown wrap column.
	WordWrap int `toml:"word_wrap"`
}

// ChatConfig controls chat lifecycle behavior.
type ChatConfig struct {
	// GraceMinutes is how long a new chat may stay empty before it is
	// reclaimed. Clamped to 1-60.
	GraceMinutes int `toml:"grace_minutes"`
}

// =============================================================================
// DEFAULTS AND PATHS
// =============================================================================

const (
	minRevealRate = 50
	maxRevealRate = 2000
	minGraceMin   = 1
	maxGraceMin   = 60
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:         "http://localhost:8080",
			TimeoutSecs: 60,
			MaxRetries:  3,
		},
		UI: UIConfig{
			RevealCharsPerSec: 500,
			Markdown:          true,
			WordWrap:          80,
		},
		Chat: ChatConfig{
			GraceMinutes: 5,
		},
	}
}

// Dir returns the configuration directory, ~/.obsidian-tui.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".obsidian-tui"), nil
}

// Path returns the configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config file if present, applies environment
// overrides, and clamps values into their valid ranges. A missing
// file is not an error; the defaults stand.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath is Load against an explicit file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.Clamp()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to the default path atomically.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(sb.String()), 0644)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported variables:
//   - OBSIDIAN_SERVER_URL: overrides server.url
//   - OBSIDIAN_TIMEOUT_SECS: overrides server.timeout_secs
//   - OBSIDIAN_REVEAL_RATE: overrides ui.reveal_chars_per_sec
//   - OBSIDIAN_NO_MARKDOWN: "1" or "true" disables markdown rendering
//   - OBSIDIAN_GRACE_MINUTES: overrides chat.grace_minutes
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("OBSIDIAN_SERVER_URL"); u != "" {
		c.Server.URL = u
	}
	if t := os.Getenv("OBSIDIAN_TIMEOUT_SECS"); t != "" {
		if n, err := strconv.Atoi(t); err == nil {
			c.Server.TimeoutSecs = n
		}
	}
	if r := os.Getenv("OBSIDIAN_REVEAL_RATE"); r != "" {
		if n, err := strconv.Atoi(r); err == nil {
			c.UI.RevealCharsPerSec = n
		}
	}
	if m := os.Getenv("OBSIDIAN_NO_MARKDOWN"); m != "" {
		c.UI.Markdown = !(m == "1" || strings.EqualFold(m, "true"))
	}
	if g := os.Getenv("OBSIDIAN_GRACE_MINUTES"); g != "" {
		if n, err := strconv.Atoi(g); err == nil {
			c.Chat.GraceMinutes = n
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Clamp forces tunables into their valid ranges. Out-of-range values
// are corrected, not rejected, so a bad edit never blocks startup.
func (c *Config) Clamp() {
	if c.UI.RevealCharsPerSec < minRevealRate {
		c.UI.RevealCharsPerSec = minRevealRate
	}
	if c.UI.RevealCharsPerSec > maxRevealRate {
		c.UI.RevealCharsPerSec = maxRevealRate
	}
	if c.Chat.GraceMinutes < minGraceMin {
		c.Chat.GraceMinutes = minGraceMin
	}
	if c.Chat.GraceMinutes > maxGraceMin {
		c.Chat.GraceMinutes = maxGraceMin
	}
	if c.Server.TimeoutSecs <= 0 {
		c.Server.TimeoutSecs = Default().Server.TimeoutSecs
	}
	if c.Server.MaxRetries < 0 {
		c.Server.MaxRetries = 0
	}
	if c.UI.WordWrap <= 0 {
		c.UI.WordWrap = Default().UI.WordWrap
	}
}

// Validate rejects configurations that cannot be clamped into shape.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("server.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("server.url: missing host")
	}
	return nil
}
