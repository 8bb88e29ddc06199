// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the plain-terminal chat front end.
package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/obsidian-tui/internal/config"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// Input wraps liner with persistent history under the config
// directory. Supports arrow keys for history navigation and line
// editing.
type Input struct {
	line        *liner.State
	historyFile string
}

// NewInput creates an Input with history loaded from disk.
func NewInput() *Input {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}

	in := &Input{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	in.loadHistory()
	return in
}

func (in *Input) loadHistory() {
	if f, err := os.Open(in.historyFile); err == nil {
		in.line.ReadHistory(f)
		f.Close()
	}
}

// Read reads one line with the given prompt. Non-blank lines join the
// history.
func (in *Input) Read(prompt string) (string, error) {
	text, err := in.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) != "" {
		in.line.AppendHistory(text)
	}
	return text, nil
}

// ReadSecret reads a line without echo. Not added to history.
func (in *Input) ReadSecret(prompt string) (string, error) {
	return in.line.PasswordPrompt(prompt)
}

func (in *Input) saveHistory() {
	f, err := os.OpenFile(in.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	in.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (in *Input) Close() {
	in.saveHistory()
	in.line.Close()
}
