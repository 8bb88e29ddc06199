// obsidian-tui - A terminal client for the ObsidianAI chat backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/jeranaias/obsidian-tui/internal/api"
	"github.com/jeranaias/obsidian-tui/internal/cli"
	"github.com/jeranaias/obsidian-tui/internal/config"
	"github.com/jeranaias/obsidian-tui/internal/model"
	"github.com/jeranaias/obsidian-tui/internal/storage"
	"github.com/jeranaias/obsidian-tui/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		serverURL = flag.String("server", "", "backend URL (overrides config)")
		plain     = flag.Bool("plain", false, "line-oriented mode instead of the TUI")
		chatID    = flag.String("chat", "", "open this chat id on startup")
		version   = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("obsidian-tui %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	api.Version = Version

	if err := run(*serverURL, *plain, model.ChatID(*chatID)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(serverURL string, plain bool, chatID model.ChatID) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	state, err := storage.Open(dir)
	if err != nil {
		return err
	}
	defer state.Close()

	client, err := api.New(cfg.Server.URL)
	if err != nil {
		return err
	}
	client.WithTimeout(time.Duration(cfg.Server.TimeoutSecs) * time.Second).
		WithMaxRetries(cfg.Server.MaxRetries)

	// Request logging goes to a file; both front ends own the
	// terminal.
	if f, err := os.OpenFile(filepath.Join(dir, "api.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); err == nil {
		defer f.Close()
		client.WithLogger(log.New(f, "", log.LstdFlags))
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		// Piped output gets no escape sequences.
		lipgloss.SetColorProfile(termenv.Ascii)
		return cli.Run(client, state, cfg, chatID)
	}
	if plain {
		return cli.Run(client, state, cfg, chatID)
	}
	return ui.Run(client, state, cfg, chatID)
}
