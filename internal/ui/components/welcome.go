// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the obsidian-tui.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/obsidian-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME VIEW
// =============================================================================

var welcomeTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(styles.Violet)

// RenderWelcome renders the empty chat state shown before any message
// is sent, centered in a width-by-height box.
func RenderWelcome(width, height int) string {
	var sb strings.Builder
	sb.WriteString(welcomeTitle.Render("ObsidianAI"))
	sb.WriteString("\n\n")
	sb.WriteString(styles.MutedStyle.Render("Ask anything, or attach an image or PDF."))
	sb.WriteString("\n")
	sb.WriteString(styles.MutedStyle.Render("Enter to send · Ctrl+N new chat · Ctrl+L chats · Ctrl+C quit"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, sb.String())
}
