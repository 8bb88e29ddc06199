// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the client-side chat state.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jeranaias/obsidian-tui/internal/api"
	"github.com/jeranaias/obsidian-tui/internal/attach"
	"github.com/jeranaias/obsidian-tui/internal/debounce"
	"github.com/jeranaias/obsidian-tui/internal/model"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// NewChatTitle is the title a freshly created chat starts with.
	// The backend retitles it from the first message.
	NewChatTitle = "New Chat"

	// DefaultGracePeriod is how long a new chat may stay empty before
	// the cleanup check deletes it server-side.
	DefaultGracePeriod = 5 * time.Minute
)

// =============================================================================
// STORE
// =============================================================================

// Store owns the active chat id, the displayed title, the summary
// list, the list filter, and the attachment tracker. Every mutation
// of this state goes through a Store method; the Surface only ever
// observes.
type Store struct {
	mu      sync.Mutex
	backend Backend
	state   StateStore
	surface Surface
	tracker *attach.Tracker

	activeID model.ChatID
	title    string
	chats    []model.ChatSummary
	archived bool
	search   string

	gracePeriod time.Duration
	sending     bool

	// after schedules the deferred cleanup check. Tests replace it to
	// run the check synchronously.
	after func(d time.Duration, fn func()) *debounce.Handle
}

// NewStore creates a session store rendering onto surface. The
// tracker is owned by the store from here on; callers stage and
// remove attachments through it but must not clear it around sends.
func NewStore(backend Backend, state StateStore, surface Surface, tracker *attach.Tracker) *Store {
	return &Store{
		backend:     backend,
		state:       state,
		surface:     surface,
		tracker:     tracker,
		gracePeriod: DefaultGracePeriod,
		after:       debounce.After,
	}
}

// SetGracePeriod changes the cleanup delay for chats created after
// the call. Safe while the store is live; config reloads use it.
func (s *Store) SetGracePeriod(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	s.gracePeriod = d
	s.mu.Unlock()
}

// WithGracePeriod overrides the empty-chat cleanup delay.
func (s *Store) WithGracePeriod(d time.Duration) *Store {
	if d > 0 {
		s.gracePeriod = d
	}
	return s
}

// Tracker returns the attachment tracker feeding the send pipeline.
func (s *Store) Tracker() *attach.Tracker {
	return s.tracker
}

// ActiveChat returns the current chat id ("" when none) and title.
func (s *Store) ActiveChat() (model.ChatID, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID, s.title
}

// Chats returns a copy of the current summary list.
func (s *Store) Chats() []model.ChatSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ChatSummary(nil), s.chats...)
}

// =============================================================================
// CHAT LIST
// =============================================================================

// RefreshChats fetches the summary list for the current filter and
// replaces the in-memory list wholesale. No merging: the server's
// order is the display order. The unfiltered list is also cached for
// instant paint on the next startup.
func (s *Store) RefreshChats(ctx context.Context) error {
	s.mu.Lock()
	archived, search := s.archived, s.search
	s.mu.Unlock()

	chats, err := s.backend.ListChats(ctx, archived, search)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.chats = chats
	active := s.activeID
	s.mu.Unlock()

	if !archived && search == "" {
		if err := s.state.CacheChatList(chats); err != nil {
			return fmt.Errorf("refresh chats: %w", err)
		}
	}

	s.surface.SetChatList(chats, active)
	return nil
}

// SetArchivedFilter switches between the active and archived lists
// and refreshes.
func (s *Store) SetArchivedFilter(ctx context.Context, archived bool) error {
	s.mu.Lock()
	s.archived = archived
	s.mu.Unlock()
	return s.RefreshChats(ctx)
}

// SetSearch updates the sidebar search text and refreshes.
func (s *Store) SetSearch(ctx context.Context, text string) error {
	s.mu.Lock()
	s.search = text
	s.mu.Unlock()
	return s.RefreshChats(ctx)
}

// =============================================================================
// CHAT LIFECYCLE
// =============================================================================

// CreateChat requests a new chat, makes it current, and resets the
// view to the welcome state. A deferred check deletes the chat
// server-side if it is still empty after the grace period; each
// created chat gets its own check, so abandoning several in a row
// leaks none of them.
func (s *Store) CreateChat(ctx context.Context) (model.ChatID, error) {
	chat, err := s.backend.CreateChat(ctx, NewChatTitle)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.activeID = chat.ID
	s.title = chat.Title
	s.mu.Unlock()

	if err := s.state.SetLastChatID(chat.ID); err != nil {
		return chat.ID, fmt.Errorf("create chat: %w", err)
	}

	s.surface.SetTitle(chat.Title)
	s.surface.SetLocation(chat.ID)
	s.surface.ShowWelcome()
	s.surface.ClearInput()
	s.tracker.Clear()

	id := chat.ID
	s.mu.Lock()
	grace := s.gracePeriod
	s.mu.Unlock()
	s.after(grace, func() {
		s.cleanupCheck(context.Background(), id)
	})

	if err := s.RefreshChats(ctx); err != nil {
		return chat.ID, err
	}
	return chat.ID, nil
}

// cleanupCheck deletes chat id if it still exists and never received
// a message. If it was still the active chat, the view reverts to
// the welcome state.
func (s *Store) cleanupCheck(ctx context.Context, id model.ChatID) {
	chat, err := s.backend.GetChat(ctx, id)
	if err != nil || !chat.Empty() {
		return
	}
	if err := s.backend.DeleteChat(ctx, id); err != nil {
		return
	}

	s.mu.Lock()
	wasActive := s.activeID == id
	if wasActive {
		s.activeID = ""
		s.title = ""
	}
	s.mu.Unlock()

	if wasActive {
		s.surface.ShowWelcome()
		s.surface.SetLocation("")
	}
	s.RefreshChats(ctx)
}

// LoadChat fetches the full chat, makes it current, renders its
// history, and persists the id as last-active. A not-found response
// clears the persisted id and location instead of presenting stale
// state.
func (s *Store) LoadChat(ctx context.Context, id model.ChatID) error {
	chat, err := s.backend.GetChat(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			if clearErr := s.state.ClearLastChatID(); clearErr != nil {
				return fmt.Errorf("load chat: %w", clearErr)
			}
			s.surface.SetLocation("")
		}
		return err
	}

	s.mu.Lock()
	s.activeID = chat.ID
	s.title = chat.Title
	s.mu.Unlock()

	if err := s.state.SetLastChatID(chat.ID); err != nil {
		return fmt.Errorf("load chat: %w", err)
	}

	s.surface.SetTitle(chat.Title)
	s.surface.SetLocation(chat.ID)
	s.surface.ShowMessages(chat.Messages)

	return s.RefreshChats(ctx)
}

// RenameChat updates a chat's title server-side and refreshes the
// list; the displayed title follows when the renamed chat is active.
func (s *Store) RenameChat(ctx context.Context, id model.ChatID, title string) error {
	if err := s.backend.RenameChat(ctx, id, title); err != nil {
		return err
	}

	s.mu.Lock()
	active := s.activeID == id
	if active {
		s.title = title
	}
	s.mu.Unlock()

	if active {
		s.surface.SetTitle(title)
	}
	return s.RefreshChats(ctx)
}

// ArchiveChat moves a chat to the archived list. Archiving the
// active chat clears it and resets the view.
func (s *Store) ArchiveChat(ctx context.Context, id model.ChatID) error {
	if err := s.backend.ArchiveChat(ctx, id, true); err != nil {
		return err
	}
	s.clearIfActive(id)
	return s.RefreshChats(ctx)
}

// DeleteChat removes a chat permanently. Deleting the active chat
// clears it and resets the view; the persisted last-active id is
// dropped so the next startup does not chase it.
func (s *Store) DeleteChat(ctx context.Context, id model.ChatID) error {
	if err := s.backend.DeleteChat(ctx, id); err != nil {
		return err
	}

	if last, err := s.state.LastChatID(); err == nil && last == id {
		if err := s.state.ClearLastChatID(); err != nil {
			return fmt.Errorf("delete chat: %w", err)
		}
	}

	s.clearIfActive(id)
	return s.RefreshChats(ctx)
}

// clearIfActive resets the view when id is the active chat.
func (s *Store) clearIfActive(id model.ChatID) {
	s.mu.Lock()
	active := s.activeID == id
	if active {
		s.activeID = ""
		s.title = ""
	}
	s.mu.Unlock()

	if active {
		s.surface.SetTitle(NewChatTitle)
		s.surface.ShowWelcome()
		s.surface.SetLocation("")
	}
}
