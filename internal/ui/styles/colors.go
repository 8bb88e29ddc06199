// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for obsidian-tui.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Violet - Primary accent, assistant turns, selections
var Violet = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - User turns, links, active chat highlight
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Success states, resolved attachments
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, failed uploads, danger states
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, in-flight uploads, pending states
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE AND TEXT
// =============================================================================

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels, sidebar titles
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, placeholder text, timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle renders the chat title bar.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Violet)

	// UserLabelStyle renders the "You" label on user turns.
	UserLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(Cyan)

	// AssistantLabelStyle renders the assistant label.
	AssistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(Violet)

	// ErrorStyle renders inline errors and failed states.
	ErrorStyle = lipgloss.NewStyle().Foreground(Rose)

	// PendingStyle renders the thinking placeholder.
	PendingStyle = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	// MutedStyle renders hints and secondary chrome.
	MutedStyle = lipgloss.NewStyle().Foreground(TextMuted)

	// SelectedStyle highlights the selected sidebar row.
	SelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(Cyan)

	// BorderStyle frames panes.
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Overlay)
)
