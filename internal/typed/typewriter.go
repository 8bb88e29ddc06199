// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package typed reveals a complete assistant response incrementally at
// a fixed character rate.
package typed

import (
	"context"
	"time"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultCharsPerSecond is the reveal rate when none is configured.
	DefaultCharsPerSecond = 500

	// scrollEvery is how many characters pass between viewport scrolls.
	// Scrolling on every character makes long replies unwatchable on
	// slow terminals, so it happens periodically and once at the end.
	scrollEvery = 20
)

// =============================================================================
// INTERFACES
// =============================================================================

// Renderer turns accumulated text into its display form. The glamour
// renderer produces styled markdown; the plain renderer echoes input.
type Renderer interface {
	Render(text string) string
}

// Surface receives the reveal output. SetContent replaces the message
// body with the rendered prefix; ScrollToEnd brings the latest output
// into view.
type Surface interface {
	SetContent(rendered string)
	ScrollToEnd()
}

// =============================================================================
// TYPEWRITER
// =============================================================================

// Typewriter reveals strings onto a surface one character per time
// quantum. It holds no per-reveal state; a single Typewriter may be
// reused across messages, one reveal at a time.
type Typewriter struct {
	renderer Renderer
	interval time.Duration
}

// New creates a typewriter revealing at the given rate through the
// given renderer. Rates outside a usable range fall back to the
// default.
func New(renderer Renderer, charsPerSecond int) *Typewriter {
	if charsPerSecond <= 0 {
		charsPerSecond = DefaultCharsPerSecond
	}
	return &Typewriter{
		renderer: renderer,
		interval: time.Second / time.Duration(charsPerSecond),
	}
}

// Interval returns the delay between revealed characters.
func (tw *Typewriter) Interval() time.Duration {
	return tw.interval
}

// Reveal types text onto the surface, re-rendering the accumulated
// prefix after every character and scrolling periodically. It blocks
// until the reveal completes or ctx is cancelled. Cancellation stops
// mid-word; the surface is not touched again afterward.
func (tw *Typewriter) Reveal(ctx context.Context, text string, surface Surface) error {
	runes := []rune(text)
	if len(runes) == 0 {
		surface.SetContent(tw.renderer.Render(""))
		surface.ScrollToEnd()
		return nil
	}

	ticker := time.NewTicker(tw.interval)
	defer ticker.Stop()

	for i := 1; i <= len(runes); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		surface.SetContent(tw.renderer.Render(string(runes[:i])))
		if i%scrollEvery == 0 {
			surface.ScrollToEnd()
		}
	}

	surface.ScrollToEnd()
	return nil
}

// RevealAll skips the animation: one render, one scroll. Used when
// the reveal is disabled or the message arrives during catch-up.
func (tw *Typewriter) RevealAll(text string, surface Surface) {
	surface.SetContent(tw.renderer.Render(text))
	surface.ScrollToEnd()
}

// =============================================================================
// STEPPER
// =============================================================================

// Stepper is the pull-driven form of a reveal for event-loop front
// ends. Each Step consumes one character; the caller owns the timing
// (e.g. a Bubble Tea tick per interval).
type Stepper struct {
	renderer Renderer
	runes    []rune
	pos      int
}

// NewStepper starts a stepped reveal over text.
func NewStepper(renderer Renderer, text string) *Stepper {
	return &Stepper{renderer: renderer, runes: []rune(text)}
}

// Step advances one character and returns the rendered prefix, whether
// the surface should scroll now, and whether the reveal is finished.
func (s *Stepper) Step() (rendered string, scroll, done bool) {
	if s.pos >= len(s.runes) {
		return s.renderer.Render(string(s.runes)), true, true
	}
	s.pos++
	done = s.pos == len(s.runes)
	scroll = done || s.pos%scrollEvery == 0
	return s.renderer.Render(string(s.runes[:s.pos])), scroll, done
}

// Done reports whether every character has been revealed.
func (s *Stepper) Done() bool {
	return s.pos >= len(s.runes)
}
