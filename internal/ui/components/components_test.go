// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the obsidian-tui.
package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/obsidian-tui/internal/attach"
)

func TestRenderAttachmentStrip_Empty(t *testing.T) {
	if got := RenderAttachmentStrip(nil); got != "" {
		t.Errorf("empty strip = %q, want empty", got)
	}
}

func TestRenderAttachmentStrip_States(t *testing.T) {
	entries := []attach.Attachment{
		{Name: "done.png", MediaType: "image/png", Filename: "d", URL: "/d"},
		{Name: "up.png", MediaType: "image/png", Loading: true},
		{Name: "bad.png", MediaType: "image/png", Error: "too large"},
	}
	out := RenderAttachmentStrip(entries)

	for _, want := range []string{"[1] done.png ✓", "up.png", "bad.png", "⋯", "✗"} {
		if !strings.Contains(out, want) {
			t.Errorf("strip missing %q in %q", want, out)
		}
	}

	// Chips keep staging order.
	if strings.Index(out, "done.png") > strings.Index(out, "up.png") {
		t.Error("chips out of staging order")
	}
}

func TestRenderAttachmentStrip_PDFLabel(t *testing.T) {
	entries := []attach.Attachment{
		{Name: "spec.pdf", MediaType: "application/pdf", Filename: "s", URL: "/s"},
	}
	if out := RenderAttachmentStrip(entries); !strings.Contains(out, "spec.pdf (PDF)") {
		t.Errorf("pdf chip = %q, want the (PDF) label", out)
	}
}

func TestAttachmentHint_FailureBeatsLoading(t *testing.T) {
	entries := []attach.Attachment{
		{Name: "up.png", Loading: true},
		{Name: "bad.png", Error: "too large"},
	}
	if hint := AttachmentHint(entries); !strings.Contains(hint, "bad.png failed") {
		t.Errorf("hint = %q, want the failure first", hint)
	}
}

func TestRenderWelcome_ContainsHints(t *testing.T) {
	out := RenderWelcome(80, 24)
	for _, want := range []string{"ObsidianAI", "Ctrl+N"} {
		if !strings.Contains(out, want) {
			t.Errorf("welcome missing %q", want)
		}
	}
}

func TestRenderAlert_ContainsMessage(t *testing.T) {
	out := RenderAlert("Insufficient balance", 80)
	if !strings.Contains(out, "Insufficient balance") {
		t.Errorf("alert missing message: %q", out)
	}
}
