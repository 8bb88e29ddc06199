// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the obsidian-tui.
package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/obsidian-tui/internal/attach"
	"github.com/jeranaias/obsidian-tui/internal/ui/styles"
	"github.com/jeranaias/obsidian-tui/internal/util"
)

// =============================================================================
// ATTACHMENT STRIP
// =============================================================================

const maxAttachmentLabel = 28

// RenderAttachmentStrip renders the staged attachments above the
// compose box, one chip per entry in staging order. Returns "" when
// nothing is staged.
func RenderAttachmentStrip(entries []attach.Attachment) string {
	if len(entries) == 0 {
		return ""
	}

	chips := make([]string, 0, len(entries))
	for i, e := range entries {
		label := util.TruncateRunes(e.Label(), maxAttachmentLabel)
		chip := fmt.Sprintf("[%d] %s", i+1, label)
		switch {
		case e.Loading:
			chips = append(chips, styles.MutedStyle.Render(chip+" ⋯"))
		case e.Error != "":
			chips = append(chips, styles.ErrorStyle.Render(chip+" ✗"))
		default:
			chips = append(chips, chip+" ✓")
		}
	}
	return strings.Join(chips, "  ")
}

// AttachmentHint returns the footer hint for the strip, naming the
// first failure so the user knows what blocks sending.
func AttachmentHint(entries []attach.Attachment) string {
	for _, e := range entries {
		if e.Error != "" {
			return styles.ErrorStyle.Render(fmt.Sprintf("%s failed: %s (ctrl+x removes)", e.Name, e.Error))
		}
	}
	for _, e := range entries {
		if e.Loading {
			return styles.MutedStyle.Render("uploading…")
		}
	}
	return ""
}
