// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package typed reveals a complete assistant response incrementally at
// a fixed character rate. The full text is already persisted before a
// reveal starts, so cancelling one simply abandons it; nothing is
// written to the surface after cancellation.
package typed
