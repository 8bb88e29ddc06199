// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the ObsidianAI backend.
//
// All calls carry the session cookie (the backend uses cookie-based
// auth), retry transient failures with exponential backoff, and read
// responses through a size limit. Server-reported errors surface the
// server's message verbatim; each operation supplies its own generic
// fallback for unparseable failures.
//
// Request logging records method, path, status, and duration only.
// Bodies and cookies never reach the log.
package api
