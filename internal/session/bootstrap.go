// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the client-side chat state.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeranaias/obsidian-tui/internal/api"
	"github.com/jeranaias/obsidian-tui/internal/model"
)

// ErrNotAuthenticated means the session cookie is missing or expired
// and the caller must run the login flow.
var ErrNotAuthenticated = errors.New("not authenticated")

// Bootstrap brings the session up from a cold start. It verifies
// authentication, paints the cached chat list while the authoritative
// one is fetched, then opens a chat resolved by strict priority:
// explicit deep-link id, then location fragment, then the persisted
// last-active id, then none (welcome view).
//
// queryID is the id given on the command line; fragmentID is the one
// restored from the saved location. Either may be empty.
func (s *Store) Bootstrap(ctx context.Context, queryID, fragmentID model.ChatID) error {
	status, err := s.backend.CheckAuth(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return ErrNotAuthenticated
		}
		return fmt.Errorf("bootstrap: %w", err)
	}
	if !status.Authenticated {
		return ErrNotAuthenticated
	}

	// Instant paint from the cache; RefreshChats replaces it with the
	// server's answer.
	if cached, err := s.state.CachedChatList(); err == nil && len(cached) > 0 {
		s.surface.SetChatList(cached, "")
	}
	if err := s.RefreshChats(ctx); err != nil {
		return err
	}

	id := queryID
	if id == "" {
		id = fragmentID
	}
	if id == "" {
		persisted, err := s.state.LastChatID()
		if err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
		id = persisted
	}

	if id == "" {
		s.surface.ShowWelcome()
		return nil
	}

	if err := s.LoadChat(ctx, id); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			s.surface.ShowWelcome()
			return nil
		}
		return err
	}
	return nil
}
