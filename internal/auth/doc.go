// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth drives the login, registration, and password reset
// flows. It validates form input client-side before touching the
// network and owns the two timers those screens need: the debounced
// username availability check and the resend-code cooldown.
package auth
