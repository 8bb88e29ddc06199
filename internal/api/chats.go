// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the ObsidianAI backend.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jeranaias/obsidian-tui/internal/model"
)

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// ListChats fetches chat summaries. The archived flag selects which
// list the backend returns; search filters by title when non-empty.
// Ordering is the backend's (reverse-chronological).
func (c *Client) ListChats(ctx context.Context, archived bool, search string) ([]model.ChatSummary, error) {
	q := url.Values{}
	q.Set("archived", strconv.FormatBool(archived))
	if search != "" {
		q.Set("search", search)
	}

	var chats []model.ChatSummary
	err := c.getJSON(ctx, "list chats", "Failed to load chats", "/chats?"+q.Encode(), &chats)
	if err != nil {
		return nil, err
	}
	return chats, nil
}

// CreateChat requests a new chat with the given title.
func (c *Client) CreateChat(ctx context.Context, title string) (*model.ChatSummary, error) {
	in := struct {
		Title string `json:"title"`
	}{Title: title}

	var chat model.ChatSummary
	err := c.sendJSON(ctx, "create chat", "Failed to create new chat", http.MethodPost, "/chats", in, &chat)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetChat fetches full chat detail, including the message history.
func (c *Client) GetChat(ctx context.Context, id model.ChatID) (*model.Chat, error) {
	var chat model.Chat
	err := c.getJSON(ctx, "get chat", "Failed to load chat", "/chats/"+url.PathEscape(id.String()), &chat)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// DeleteChat removes a chat server-side.
func (c *Client) DeleteChat(ctx context.Context, id model.ChatID) error {
	return c.do(ctx, "delete chat", "Failed to delete chat", func() (*http.Request, error) {
		return http.NewRequest(http.MethodDelete, c.url("/chats/"+url.PathEscape(id.String())), nil)
	}, nil)
}

// ArchiveChat sets a chat's archived flag.
func (c *Client) ArchiveChat(ctx context.Context, id model.ChatID, archived bool) error {
	in := struct {
		Archived bool `json:"archived"`
	}{Archived: archived}
	return c.sendJSON(ctx, "archive chat", "Failed to archive chat",
		http.MethodPost, "/chats/"+url.PathEscape(id.String())+"/archive", in, nil)
}

// RenameChat sets a chat's title.
func (c *Client) RenameChat(ctx context.Context, id model.ChatID, title string) error {
	in := struct {
		Title string `json:"title"`
	}{Title: title}
	return c.sendJSON(ctx, "rename chat", "Failed to update chat title",
		http.MethodPut, "/chats/"+url.PathEscape(id.String())+"/title", in, nil)
}

// =============================================================================
// SEND MESSAGE
// =============================================================================

// SendResult is the backend's reply to a sent message.
type SendResult struct {
	AssistantMessage model.Message `json:"assistant_message"`
}

// sendMessageRequest is the outgoing message body. A nil Files slice
// marshals as "image_data": null, which is what the backend expects
// for text-only messages.
type sendMessageRequest struct {
	Content string           `json:"content"`
	Files   []model.FileData `json:"image_data"`
}

// SendMessage posts one user turn and returns the assistant's reply.
// Attachment descriptors must already be in wire form (see
// model.FileData.Descriptor) and are sent in order.
func (c *Client) SendMessage(ctx context.Context, id model.ChatID, content string, files []model.FileData) (*SendResult, error) {
	in := sendMessageRequest{Content: content, Files: files}

	var result SendResult
	err := c.sendJSON(ctx, "send message", "Failed to send message",
		http.MethodPost, "/chats/"+url.PathEscape(id.String())+"/messages", in, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
