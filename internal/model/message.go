// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the wire types exchanged with the ObsidianAI backend.
package model

// Message roles. The backend only ever produces these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in a chat. Messages are immutable once rendered;
// the pipeline only ever appends new ones.
type Message struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Files   FileList `json:"image_data,omitempty"`
}

// NewUserMessage builds a user turn carrying the given attachments.
func NewUserMessage(content string, files []FileData) Message {
	return Message{Role: RoleUser, Content: content, Files: files}
}

// NewAssistantMessage builds an assistant turn.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// HasFiles reports whether the message carries any attachments.
func (m *Message) HasFiles() bool {
	return len(m.Files) > 0
}
