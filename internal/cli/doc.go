// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the plain-terminal chat front end, used when
// stdout is not a TTY or --plain is given. It implements the session
// surface directly over line-oriented output, with liner for input
// history and the typewriter for reply reveal.
package cli
