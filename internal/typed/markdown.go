// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package typed reveals a complete assistant response incrementally at
// a fixed character rate.
package typed

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MarkdownRenderer renders accumulated text as styled terminal
// markdown through glamour. A partially revealed prefix is still
// valid markdown input; unterminated constructs render as literal
// text until their closing marker arrives.
type MarkdownRenderer struct {
	tr *glamour.TermRenderer
}

// NewMarkdownRenderer creates a glamour-backed renderer wrapped at the
// given width. Returns an error when glamour cannot initialize (e.g.
// an unusable TERM); callers fall back to PlainRenderer.
func NewMarkdownRenderer(wrap int) (*MarkdownRenderer, error) {
	if wrap <= 0 {
		wrap = 80
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil, err
	}
	return &MarkdownRenderer{tr: tr}, nil
}

// Render renders text as markdown, falling back to the input verbatim
// when rendering fails.
func (r *MarkdownRenderer) Render(text string) string {
	out, err := r.tr.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// =============================================================================
// PLAIN RENDERER
// =============================================================================

// PlainRenderer echoes text unchanged. Used for piped output and as
// the fallback when glamour cannot initialize.
type PlainRenderer struct{}

// Render returns text as-is.
func (PlainRenderer) Render(text string) string { return text }
