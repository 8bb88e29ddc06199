// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the client-side state that survives
// restarts: the last active chat and a cached copy of the chat list
// for instant sidebar paint before the server responds.
package storage
