// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/obsidian-tui/internal/config"
	"github.com/jeranaias/obsidian-tui/internal/model"
)

// =============================================================================
// SURFACE ADAPTER
// =============================================================================

// Surface bridges session state changes into the Bubble Tea event
// loop. Session methods may run on command goroutines; every surface
// call becomes a message posted through the program's Send.
//
// The program does not exist yet when the session store is built, so
// Send is bound late; calls before Bind are buffered.
type Surface struct {
	mu     sync.Mutex
	send   func(tea.Msg)
	buffer []tea.Msg
}

// NewSurface creates an unbound surface.
func NewSurface() *Surface {
	return &Surface{}
}

// Bind connects the surface to a running program and flushes any
// buffered messages in order.
func (s *Surface) Bind(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	buffered := s.buffer
	s.buffer = nil
	s.mu.Unlock()

	for _, msg := range buffered {
		send(msg)
	}
}

func (s *Surface) post(msg tea.Msg) {
	s.mu.Lock()
	if s.send == nil {
		s.buffer = append(s.buffer, msg)
		s.mu.Unlock()
		return
	}
	send := s.send
	s.mu.Unlock()
	send(msg)
}

// =============================================================================
// session.Surface IMPLEMENTATION
// =============================================================================

func (s *Surface) SetChatList(chats []model.ChatSummary, active model.ChatID) {
	s.post(ChatListMsg{Chats: chats, Active: active})
}

func (s *Surface) SetTitle(title string) {
	s.post(TitleMsg{Title: title})
}

func (s *Surface) ShowMessages(msgs []model.Message) {
	s.post(HistoryMsg{Messages: msgs})
}

func (s *Surface) AppendMessage(msg model.Message) {
	s.post(AppendMsg{Message: msg})
}

func (s *Surface) ShowPending() {
	s.post(PendingMsg{})
}

func (s *Surface) ClearPending() {
	s.post(ClearPendingMsg{})
}

// RevealAssistant hands the reply to the model's tick-driven reveal
// and returns immediately; the animation runs on the event loop.
func (s *Surface) RevealAssistant(ctx context.Context, content string) {
	s.post(RevealMsg{Content: content})
}

func (s *Surface) SetLocation(id model.ChatID) {
	s.post(LocationMsg{ID: id})
}

func (s *Surface) ShowWelcome() {
	s.post(WelcomeMsg{})
}

func (s *Surface) ClearInput() {
	s.post(ClearInputMsg{})
}

func (s *Surface) Alert(text string) {
	s.post(AlertMsg{Text: text})
}

// NotifyAttachments reports a tracker change so the strip repaints.
// Wired to attach.Tracker.OnChange at startup.
func (s *Surface) NotifyAttachments() {
	s.post(TrackerChangedMsg{})
}

// NotifyConfig hands a live-reloaded configuration to the model.
// Wired to the config watcher at startup.
func (s *Surface) NotifyConfig(cfg *config.Config) {
	s.post(ConfigMsg{Config: cfg})
}
