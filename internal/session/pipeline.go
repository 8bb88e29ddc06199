// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the client-side chat state.
package session

import (
	"context"
	"errors"
	"strings"

	"github.com/jeranaias/obsidian-tui/internal/api"
	"github.com/jeranaias/obsidian-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNothingToSend means both the text and the tracker are empty.
	ErrNothingToSend = errors.New("enter a message or attach a file")

	// ErrUploadsInFlight means an attachment has not finished
	// uploading yet.
	ErrUploadsInFlight = errors.New("wait for attachments to finish uploading")

	// ErrFailedAttachment means a staged attachment failed its upload
	// and must be removed before sending.
	ErrFailedAttachment = errors.New("remove attachments that failed to upload")

	// ErrSendInFlight means a send is already running. Sends are
	// rejected rather than queued.
	ErrSendInFlight = errors.New("a message is already being sent")
)

// =============================================================================
// SEND PIPELINE
// =============================================================================

// Send runs one message through the pipeline: validate, create a chat
// if none is active, render the user turn optimistically, issue the
// request, then reveal the reply or append an error turn.
//
// Validation checks emptiness first, then in-flight uploads, then
// failed uploads, so the user always sees the most actionable reason.
// The optimistic turn is appended before the network call is issued;
// the pending placeholder is removed before either outcome renders.
func (s *Store) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return ErrSendInFlight
	}
	if text == "" && s.tracker.Empty() {
		s.mu.Unlock()
		return ErrNothingToSend
	}
	if s.tracker.AnyLoading() {
		s.mu.Unlock()
		return ErrUploadsInFlight
	}
	if s.tracker.AnyFailed() {
		s.mu.Unlock()
		return ErrFailedAttachment
	}
	s.sending = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sending = false
		s.mu.Unlock()
	}()

	// Snapshot the resolved attachments before anything can mutate
	// the tracker. The full copies feed the optimistic render; the
	// wire payload is reduced per entry to either the server
	// reference or the inline fallback, never both.
	files := s.tracker.Resolved()
	wire := model.FileList(files).Descriptors()

	s.mu.Lock()
	chatID := s.activeID
	s.mu.Unlock()

	// Sending is never blocked for lack of a chat.
	if chatID == "" {
		id, err := s.CreateChat(ctx)
		if err != nil {
			return err
		}
		chatID = id
	}

	s.surface.AppendMessage(model.NewUserMessage(text, files))
	s.surface.ShowPending()
	s.surface.ClearInput()
	s.tracker.Clear()

	result, err := s.backend.SendMessage(ctx, chatID, text, wire)

	s.surface.ClearPending()

	if err != nil {
		s.surface.AppendMessage(model.NewAssistantMessage("Error: " + userMessage(err)))
		if api.IsAccountLevel(err) {
			s.surface.Alert(userMessage(err))
		}
		return err
	}

	s.surface.RevealAssistant(ctx, result.AssistantMessage.Content)

	// The backend may have retitled the chat from the first message.
	if err := s.RefreshChats(ctx); err != nil {
		return err
	}
	if chat, err := s.backend.GetChat(ctx, chatID); err == nil {
		s.mu.Lock()
		s.title = chat.Title
		s.mu.Unlock()
		s.surface.SetTitle(chat.Title)
	}
	return nil
}

// Sending reports whether a send is currently in flight.
func (s *Store) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// userMessage extracts the text shown for a send failure, preferring
// the server's own message over transport detail.
func userMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Failed to send message"
}
