// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package debounce provides explicit, cancellable timer handles.
package debounce

import (
	"sync"
	"time"
)

// =============================================================================
// DEBOUNCER
// =============================================================================

// Debouncer coalesces rapid triggers into one deferred call.
// Each Trigger cancels the previously scheduled call before arming a
// new one; only the last trigger within a burst fires.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the delay, cancelling any
// previously scheduled call first.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending call. Safe to call when nothing is pending.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// =============================================================================
// COOLDOWN
// =============================================================================

// Cooldown gates an action behind a fixed reopening window, such as
// the resend-verification-code button.
type Cooldown struct {
	mu     sync.Mutex
	window time.Duration
	until  time.Time
	now    func() time.Time // injectable for tests
}

// NewCooldown creates a cooldown with the given window.
func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{window: window, now: time.Now}
}

// Try starts the cooldown if it is not active. It returns true when
// the action may proceed and false while the window is still closed.
func (c *Cooldown) Try() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if now.Before(c.until) {
		return false
	}
	c.until = now.Add(c.window)
	return true
}

// Active reports whether the window is currently closed.
func (c *Cooldown) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().Before(c.until)
}

// Remaining returns how long until the action reopens, or zero.
func (c *Cooldown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	rem := c.until.Sub(c.now())
	if rem < 0 {
		return 0
	}
	return rem
}

// Reset reopens the cooldown immediately.
func (c *Cooldown) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.until = time.Time{}
}

// =============================================================================
// SINGLE-SHOT HANDLE
// =============================================================================

// Handle is a cancellable single-shot timer. Unlike a bare
// time.AfterFunc, the owner can ask whether it already fired.
type Handle struct {
	mu    sync.Mutex
	timer *time.Timer
	fired bool
	done  bool
}

// After schedules fn to run once after d and returns its handle.
func After(d time.Duration, fn func()) *Handle {
	h := &Handle{}
	h.timer = time.AfterFunc(d, func() {
		h.mu.Lock()
		if h.done {
			h.mu.Unlock()
			return
		}
		h.fired = true
		h.done = true
		h.mu.Unlock()
		fn()
	})
	return h
}

// Stop cancels the pending call. It returns true if the call was
// cancelled before firing.
func (h *Handle) Stop() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return false
	}
	h.done = true
	return h.timer.Stop()
}

// Fired reports whether the scheduled call has run.
func (h *Handle) Fired() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fired
}
