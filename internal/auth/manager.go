// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth drives the login, registration, and password reset
// flows.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/obsidian-tui/internal/api"
	"github.com/jeranaias/obsidian-tui/internal/debounce"
)

// =============================================================================
// CONSTANTS AND ERRORS
// =============================================================================

const (
	// MinPasswordLen matches the backend's password policy.
	MinPasswordLen = 6

	// MinUsernameLen is the shortest accepted username.
	MinUsernameLen = 3

	// usernameCheckDelay is the debounce on availability checks while
	// the user is still typing.
	usernameCheckDelay = 500 * time.Millisecond

	// resendWindow is how long the resend-code button stays locked
	// after a code is sent.
	resendWindow = 60 * time.Second
)

var (
	ErrMissingFields    = errors.New("complete all fields before continuing")
	ErrUsernameTooShort = errors.New("username must be at least 3 characters")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrNotVerified      = errors.New("verify your email before signing up")
	ErrEmailMismatch    = errors.New("verify the same email you intend to register with")
	ErrCooldownActive   = errors.New("wait before requesting another code")
	ErrUsernameTaken    = errors.New("username already taken, choose another one")
)

// =============================================================================
// BACKEND
// =============================================================================

// Backend is the slice of the API client the auth flows use.
type Backend interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, email, password, verificationToken string) error
	CheckUsername(ctx context.Context, username string) (*api.UsernameAvailability, error)
	SendVerificationCode(ctx context.Context, email string) error
	VerifyEmailCode(ctx context.Context, email, code string) (string, error)
	ForgotPasswordReset(ctx context.Context, email, code, newPassword string) error
	Logout(ctx context.Context) error
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager carries the state a registration screen accumulates: the
// verification token earned by confirming the emailed code, the email
// it was earned for, and the two timers.
type Manager struct {
	backend Backend

	mu                sync.Mutex
	verificationToken string
	verifiedEmail     string

	usernameCheck *debounce.Debouncer
	resend        *debounce.Cooldown
}

// NewManager creates an auth manager over the given backend.
func NewManager(backend Backend) *Manager {
	return &Manager{
		backend:       backend,
		usernameCheck: debounce.NewDebouncer(usernameCheckDelay),
		resend:        debounce.NewCooldown(resendWindow),
	}
}

// Close cancels any pending debounced work.
func (m *Manager) Close() {
	m.usernameCheck.Stop()
}

// =============================================================================
// LOGIN / LOGOUT
// =============================================================================

// Login validates and submits the login form.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrMissingFields
	}
	return m.backend.Login(ctx, username, password)
}

// Logout ends the session server-side.
func (m *Manager) Logout(ctx context.Context) error {
	return m.backend.Logout(ctx)
}

// =============================================================================
// REGISTRATION
// =============================================================================

// CheckUsernameSoon schedules a debounced availability check. Rapid
// retyping replaces the pending check; only the final spelling hits
// the network. The result callback runs on the check's goroutine.
func (m *Manager) CheckUsernameSoon(ctx context.Context, username string, result func(available bool, err error)) {
	username = strings.TrimSpace(username)
	if username == "" {
		m.usernameCheck.Stop()
		return
	}
	m.usernameCheck.Trigger(func() {
		avail, err := m.backend.CheckUsername(ctx, username)
		if err != nil {
			result(false, err)
			return
		}
		result(avail.Available, nil)
	})
}

// SendCode requests a verification code for email, subject to the
// resend cooldown. Changing the email resets any earlier
// verification.
func (m *Manager) SendCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrMissingFields
	}
	if !m.resend.Try() {
		return ErrCooldownActive
	}

	m.mu.Lock()
	m.verificationToken = ""
	m.verifiedEmail = ""
	m.mu.Unlock()

	if err := m.backend.SendVerificationCode(ctx, email); err != nil {
		// A failed send should not lock the button for a minute.
		m.resend.Reset()
		return err
	}
	return nil
}

// ResendRemaining reports how long until another code may be sent.
func (m *Manager) ResendRemaining() time.Duration {
	return m.resend.Remaining()
}

// VerifyCode confirms the emailed code and stores the verification
// token for Register.
func (m *Manager) VerifyCode(ctx context.Context, email, code string) error {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return ErrMissingFields
	}

	token, err := m.backend.VerifyEmailCode(ctx, email, code)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.verificationToken = token
	m.verifiedEmail = email
	m.mu.Unlock()
	return nil
}

// Verified reports whether an email has been confirmed this session.
func (m *Manager) Verified() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verificationToken != ""
}

// Register validates the registration form and submits it. The email
// must match the one verified by VerifyCode.
func (m *Manager) Register(ctx context.Context, username, email, password, confirm string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	m.mu.Lock()
	token, verified := m.verificationToken, m.verifiedEmail
	m.mu.Unlock()

	if username == "" || email == "" || password == "" {
		return ErrMissingFields
	}
	if token == "" {
		return ErrNotVerified
	}
	if email != verified {
		return ErrEmailMismatch
	}
	if len(username) < MinUsernameLen {
		return ErrUsernameTooShort
	}
	if len(password) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	if password != strings.TrimSpace(confirm) {
		return ErrPasswordMismatch
	}

	err := m.backend.Register(ctx, username, email, password, token)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && strings.Contains(apiErr.Message, "Username already exists") {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

// =============================================================================
// PASSWORD RESET
// =============================================================================

// ForgotPassword completes the emailed-code reset flow.
func (m *Manager) ForgotPassword(ctx context.Context, email, code, newPassword, confirm string) error {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	newPassword = strings.TrimSpace(newPassword)

	if email == "" || code == "" || newPassword == "" {
		return ErrMissingFields
	}
	if len(newPassword) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	if newPassword != strings.TrimSpace(confirm) {
		return ErrPasswordMismatch
	}
	return m.backend.ForgotPasswordReset(ctx, email, code, newPassword)
}
