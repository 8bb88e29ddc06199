// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the Bubble Tea message types the chat interface
// reacts to. Session state changes arrive as messages posted by the
// Surface adapter; async operation results arrive from commands.
package chat

import (
	"github.com/jeranaias/obsidian-tui/internal/config"
	"github.com/jeranaias/obsidian-tui/internal/model"
)

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// ChatListMsg replaces the sidebar list.
type ChatListMsg struct {
	Chats  []model.ChatSummary
	Active model.ChatID
}

// TitleMsg updates the title bar.
type TitleMsg struct {
	Title string
}

// HistoryMsg replaces the message view with a full chat history.
type HistoryMsg struct {
	Messages []model.Message
}

// AppendMsg adds one turn to the message view.
type AppendMsg struct {
	Message model.Message
}

// PendingMsg shows the thinking placeholder.
type PendingMsg struct{}

// ClearPendingMsg removes the thinking placeholder.
type ClearPendingMsg struct{}

// RevealMsg starts the typed reveal of an assistant reply.
type RevealMsg struct {
	Content string
}

// RevealTickMsg advances the typed reveal by one character.
type RevealTickMsg struct{}

// LocationMsg mirrors the active chat id for the footer deep link.
type LocationMsg struct {
	ID model.ChatID
}

// WelcomeMsg resets the message view to the empty state.
type WelcomeMsg struct{}

// ClearInputMsg empties the compose box.
type ClearInputMsg struct{}

// AlertMsg raises the blocking alert overlay.
type AlertMsg struct {
	Text string
}

// =============================================================================
// OPERATION RESULTS
// =============================================================================

// ErrMsg carries a failed operation's error into the status line.
type ErrMsg struct {
	Err error
}

// BootstrapDoneMsg signals that startup restoration finished.
type BootstrapDoneMsg struct {
	Err error
}

// OpDoneMsg signals that a fire-and-forget operation finished.
type OpDoneMsg struct{}

// TrackerChangedMsg signals that the attachment strip needs a repaint.
type TrackerChangedMsg struct{}

// ConfigMsg carries a live-reloaded configuration.
type ConfigMsg struct {
	Config *config.Config
}
