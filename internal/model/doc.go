// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the wire types exchanged with the ObsidianAI
// backend: chats, messages, and file attachment payloads.
//
// The attachment payload (the "image_data" field) has accumulated three
// shapes over the life of the backend and all three must decode:
//
//   - an ordered array of file objects (current)
//   - a single file object (older clients)
//   - a bare base64 string, implying image/jpeg (legacy)
//
// FileList handles all of them; writers always produce the array form.
package model
