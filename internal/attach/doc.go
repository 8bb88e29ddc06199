// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attach tracks the files staged for the next outgoing
// message.
//
// Each staged file moves through its own upload lifecycle: it appears
// in loading state the instant it is staged, then resolves to a
// server-assigned reference or records a per-file error. Uploads run
// concurrently and independently; display order is always insertion
// order regardless of completion order.
//
// Entries are addressed internally by identity, not index, so a file
// removed mid-upload makes its late-arriving result a no-op instead
// of corrupting a neighbour.
package attach
