// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui wires the Bubble Tea front end over the session layer.
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/obsidian-tui/internal/api"
	"github.com/jeranaias/obsidian-tui/internal/attach"
	"github.com/jeranaias/obsidian-tui/internal/config"
	"github.com/jeranaias/obsidian-tui/internal/model"
	"github.com/jeranaias/obsidian-tui/internal/session"
	"github.com/jeranaias/obsidian-tui/internal/storage"
	"github.com/jeranaias/obsidian-tui/internal/ui/chat"
)

// =============================================================================
// APPLICATION
// =============================================================================

// Run assembles the session stack and runs the TUI until quit.
// initialChat, when non-empty, deep-links straight into that chat.
func Run(client *api.Client, state *storage.Store, cfg *config.Config, initialChat model.ChatID) error {
	surface := chat.NewSurface()
	tracker := attach.NewTracker(client)
	tracker.OnChange(surface.NotifyAttachments)

	store := session.NewStore(client, state, surface, tracker).
		WithGracePeriod(time.Duration(cfg.Chat.GraceMinutes) * time.Minute)

	m := chat.New(store, cfg, initialChat)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Session callbacks raised before the program loop starts are
	// buffered inside the surface and flushed on Bind.
	surface.Bind(p.Send)

	// Config edits reach the model as messages; a failed watch only
	// costs live reload.
	if path, err := config.Path(); err == nil {
		if w, err := config.NewWatcher(path, surface.NotifyConfig); err == nil {
			defer w.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
