// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and watches the obsidian-tui configuration.
package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	want := Default()
	if cfg.Server.URL != want.Server.URL || cfg.UI.RevealCharsPerSec != want.UI.RevealCharsPerSec {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadFromPath_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[server]
url = "https://chat.example.com"
timeout_secs = 30

[ui]
reveal_chars_per_sec = 200
markdown = false

[chat]
grace_minutes = 10
`)
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Server.URL != "https://chat.example.com" {
		t.Errorf("url = %s", cfg.Server.URL)
	}
	if cfg.Server.TimeoutSecs != 30 {
		t.Errorf("timeout = %d", cfg.Server.TimeoutSecs)
	}
	if cfg.UI.RevealCharsPerSec != 200 || cfg.UI.Markdown {
		t.Errorf("ui = %+v", cfg.UI)
	}
	if cfg.Chat.GraceMinutes != 10 {
		t.Errorf("grace = %d", cfg.Chat.GraceMinutes)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name       string
		reveal     int
		grace      int
		wantReveal int
		wantGrace  int
	}{
		{"below minimums", 10, 0, 50, 1},
		{"above maximums", 99999, 999, 2000, 60},
		{"in range untouched", 500, 5, 500, 5},
		{"at bounds untouched", 50, 60, 50, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.UI.RevealCharsPerSec = tt.reveal
			cfg.Chat.GraceMinutes = tt.grace
			cfg.Clamp()
			if cfg.UI.RevealCharsPerSec != tt.wantReveal {
				t.Errorf("reveal = %d, want %d", cfg.UI.RevealCharsPerSec, tt.wantReveal)
			}
			if cfg.Chat.GraceMinutes != tt.wantGrace {
				t.Errorf("grace = %d, want %d", cfg.Chat.GraceMinutes, tt.wantGrace)
			}
		})
	}
}

func TestValidate_URL(t *testing.T) {
	tests := []struct {
		url string
		ok  bool
	}{
		{"http://localhost:8080", true},
		{"https://chat.example.com", true},
		{"ftp://example.com", false},
		{"not a url", false},
		{"", false},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Server.URL = tt.url
		err := cfg.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("Validate(%q) err = %v, want ok=%v", tt.url, err, tt.ok)
		}
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("OBSIDIAN_SERVER_URL", "https://env.example.com")
	t.Setenv("OBSIDIAN_REVEAL_RATE", "750")
	t.Setenv("OBSIDIAN_NO_MARKDOWN", "1")
	t.Setenv("OBSIDIAN_GRACE_MINUTES", "2")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Server.URL != "https://env.example.com" {
		t.Errorf("url = %s", cfg.Server.URL)
	}
	if cfg.UI.RevealCharsPerSec != 750 {
		t.Errorf("reveal = %d", cfg.UI.RevealCharsPerSec)
	}
	if cfg.UI.Markdown {
		t.Error("markdown should be disabled")
	}
	if cfg.Chat.GraceMinutes != 2 {
		t.Errorf("grace = %d", cfg.Chat.GraceMinutes)
	}
}

func TestApplyEnvOverrides_BadNumbersIgnored(t *testing.T) {
	t.Setenv("OBSIDIAN_REVEAL_RATE", "fast")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if cfg.UI.RevealCharsPerSec != Default().UI.RevealCharsPerSec {
		t.Errorf("reveal = %d, want default kept", cfg.UI.RevealCharsPerSec)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[ui]\nreveal_chars_per_sec = 100\n")

	var (
		mu     sync.Mutex
		latest *Config
	)
	w, err := NewWatcher(path, func(cfg *Config) {
		mu.Lock()
		latest = cfg
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	writeConfig(t, dir, "[ui]\nreveal_chars_per_sec = 300\n")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		got := latest
		mu.Unlock()
		if got != nil && got.UI.RevealCharsPerSec == 300 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("reload never arrived")
}

func TestWatcher_BadConfigKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[ui]\nreveal_chars_per_sec = 100\n")

	var (
		mu    sync.Mutex
		calls int
	)
	w, err := NewWatcher(path, func(cfg *Config) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	writeConfig(t, dir, "[server]\nurl = \"ftp://nope\"\n")

	time.Sleep(500 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("reload callback ran %d times for an invalid config", calls)
	}
}
