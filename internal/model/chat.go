// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the wire types exchanged with the ObsidianAI backend.
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// =============================================================================
// CHAT IDENTIFIERS
// =============================================================================

// ChatID is an opaque server-assigned chat identifier.
//
// The backend serializes ids as JSON numbers; older responses used
// strings. The client never interprets the value, so both decode into
// the same string form.
type ChatID string

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (id *ChatID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty chat id")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ChatID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("chat id must be a number or string: %w", err)
	}
	*id = ChatID(n.String())
	return nil
}

// MarshalJSON emits the id as a number when it is numeric, matching
// what the backend produced, and as a string otherwise.
func (id ChatID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String returns the id in its canonical string form.
func (id ChatID) String() string {
	return string(id)
}

// =============================================================================
// CHAT TYPES
// =============================================================================

// ChatSummary is the lightweight record used for the chat list.
type ChatSummary struct {
	ID    ChatID `json:"id"`
	Title string `json:"title"`
}

// Chat is the full detail of one chat, including its message history.
type Chat struct {
	ID       ChatID    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

// Empty reports whether the chat has no messages. A chat that stays
// empty past the creation grace period is eligible for cleanup.
func (c *Chat) Empty() bool {
	return len(c.Messages) == 0
}
