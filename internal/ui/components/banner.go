// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the obsidian-tui.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/obsidian-tui/internal/ui/styles"
)

// =============================================================================
// ALERT BANNER
// =============================================================================

var bannerStyle = lipgloss.NewStyle().
	Border(lipgloss.ThickBorder()).
	BorderForeground(styles.Rose).
	Foreground(styles.Rose).
	Padding(0, 2)

// RenderAlert renders the blocking alert banner used for
// account-level failures. The caller overlays it on the chat view
// until dismissed.
func RenderAlert(text string, width int) string {
	inner := bannerStyle.Render(text + "\n\n" + styles.MutedStyle.Render("press esc to dismiss"))
	return lipgloss.Place(width, lipgloss.Height(inner)+2, lipgloss.Center, lipgloss.Center, inner)
}
