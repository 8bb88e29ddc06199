// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package debounce provides explicit, cancellable timer handles.
//
// Every deferred action in the client owns its handle: restarting a
// debounced action cancels the prior handle before scheduling a new
// one, and cooldowns answer how long until they reopen. Used by the
// username availability check, the resend-code cooldown, the config
// watcher, and the empty-chat cleanup.
package debounce
