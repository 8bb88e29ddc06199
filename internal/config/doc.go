// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and watches the obsidian-tui configuration.
//
// Configuration comes from ~/.obsidian-tui/config.toml with built-in
// defaults, environment variable overrides, and value clamping so a
// hand-edited file cannot put the UI in an unusable state.
package config
