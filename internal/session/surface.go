// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the client-side chat state.
package session

import (
	"context"

	"github.com/jeranaias/obsidian-tui/internal/api"
	"github.com/jeranaias/obsidian-tui/internal/model"
)

// =============================================================================
// SURFACE
// =============================================================================

// Surface is what the session layer renders onto. The TUI and the
// plain-terminal front end both implement it; tests implement it with
// a recorder. Calls arrive on whatever goroutine invoked the store
// operation, so implementations bridge to their own event loop as
// needed.
type Surface interface {
	// SetChatList replaces the sidebar list. active may be empty.
	SetChatList(chats []model.ChatSummary, active model.ChatID)

	// SetTitle updates the displayed chat title.
	SetTitle(title string)

	// ShowMessages replaces the message view with a full history.
	ShowMessages(msgs []model.Message)

	// AppendMessage adds one turn to the message view.
	AppendMessage(msg model.Message)

	// ShowPending displays the transient assistant placeholder.
	ShowPending()

	// ClearPending removes the placeholder. Always called before the
	// reply reveal or the error turn, success or failure.
	ClearPending()

	// RevealAssistant types the assistant reply into the view. The
	// full text is already persisted server-side; cancelling ctx
	// abandons the animation.
	RevealAssistant(ctx context.Context, content string)

	// SetLocation mirrors the active chat id into the shareable
	// location (the web client's URL fragment). Empty id clears it.
	SetLocation(id model.ChatID)

	// ShowWelcome resets the message view to the empty state.
	ShowWelcome()

	// ClearInput empties the compose box after a send.
	ClearInput()

	// Alert raises a blocking notice for account-level failures the
	// user cannot diagnose from the chat view.
	Alert(text string)
}

// =============================================================================
// BACKEND
// =============================================================================

// Backend is the slice of the API client the session layer uses.
// *api.Client satisfies it; tests substitute fakes.
type Backend interface {
	CheckAuth(ctx context.Context) (*api.AuthStatus, error)
	ListChats(ctx context.Context, archived bool, search string) ([]model.ChatSummary, error)
	CreateChat(ctx context.Context, title string) (*model.ChatSummary, error)
	GetChat(ctx context.Context, id model.ChatID) (*model.Chat, error)
	DeleteChat(ctx context.Context, id model.ChatID) error
	ArchiveChat(ctx context.Context, id model.ChatID, archived bool) error
	RenameChat(ctx context.Context, id model.ChatID, title string) error
	SendMessage(ctx context.Context, id model.ChatID, content string, files []model.FileData) (*api.SendResult, error)
}

// StateStore is the durable client state the session layer reads and
// writes. *storage.Store satisfies it.
type StateStore interface {
	LastChatID() (model.ChatID, error)
	SetLastChatID(id model.ChatID) error
	ClearLastChatID() error
	CacheChatList(summaries []model.ChatSummary) error
	CachedChatList() ([]model.ChatSummary, error)
}
