// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the client-side chat state: which chat is
// active, the sidebar summary list, the staged attachments, and the
// send pipeline that turns user input into server round trips.
//
// The Store is the single owner of this state. Front ends implement
// Surface and react to its calls; they never mutate session state
// directly. All ordering guarantees live here: the optimistic user
// turn is rendered before the network call is issued, and the pending
// placeholder is removed before either the reply reveal or the error
// turn appears.
package session
