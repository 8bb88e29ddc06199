// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jeranaias/obsidian-tui/internal/model"
	"github.com/jeranaias/obsidian-tui/internal/typed"
)

func TestTeletype_EmitsOnlySuffix(t *testing.T) {
	var buf bytes.Buffer
	tt := &teletype{out: &buf}

	tt.SetContent("he")
	tt.SetContent("hel")
	tt.SetContent("hello")

	if got := buf.String(); got != "hello" {
		t.Errorf("output = %q, want %q", got, "hello")
	}
}

func TestTeletype_IgnoresShrinkingContent(t *testing.T) {
	var buf bytes.Buffer
	tt := &teletype{out: &buf}

	tt.SetContent("hello")
	tt.SetContent("he")

	if got := buf.String(); got != "hello" {
		t.Errorf("output = %q, want %q", got, "hello")
	}
}

func TestTeletype_MultibyteRunes(t *testing.T) {
	var buf bytes.Buffer
	tt := &teletype{out: &buf}

	tt.SetContent("h")
	tt.SetContent("hé")
	tt.SetContent("héllo")

	if got := buf.String(); got != "héllo" {
		t.Errorf("output = %q, want %q", got, "héllo")
	}
}

func TestPrintTurn_LabelsAttachments(t *testing.T) {
	var buf bytes.Buffer
	r := &REPL{out: &buf, renderer: typed.PlainRenderer{}}

	r.printTurn(model.NewUserMessage("here you go", []model.FileData{
		{Name: "doc.pdf", Type: "application/pdf", Filename: "doc.pdf", URL: "/uploads/doc.pdf"},
		{Name: "a.png", Type: "image/png"},
	}))

	out := buf.String()
	if !strings.Contains(out, "doc.pdf (PDF)") {
		t.Errorf("PDF attachment line missing its suffix:\n%s", out)
	}
	if !strings.Contains(out, "a.png") || strings.Contains(out, "a.png (") {
		t.Errorf("image attachment line mislabeled:\n%s", out)
	}
}

func TestChatArg_ResolvesOneBasedIndex(t *testing.T) {
	var buf bytes.Buffer
	r := &REPL{
		out: &buf,
		chats: []model.ChatSummary{
			{ID: "11", Title: "first"},
			{ID: "22", Title: "second"},
		},
	}

	id, ok := r.chatArg([]string{"2"})
	if !ok || id != "22" {
		t.Errorf("chatArg(2) = %q, %v; want %q, true", id, ok, "22")
	}
}

func TestChatArg_RejectsBadInput(t *testing.T) {
	r := &REPL{
		chats: []model.ChatSummary{{ID: "11", Title: "only"}},
	}

	cases := [][]string{
		nil,
		{"0"},
		{"2"},
		{"x"},
		{"1", "2"},
	}
	for _, args := range cases {
		var buf bytes.Buffer
		r.out = &buf
		if _, ok := r.chatArg(args); ok {
			t.Errorf("chatArg(%v) accepted, want rejection", args)
		}
		if !strings.Contains(buf.String(), "usage") {
			t.Errorf("chatArg(%v) printed %q, want usage hint", args, buf.String())
		}
	}
}
