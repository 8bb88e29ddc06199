// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the ObsidianAI backend.
package api

import (
	"context"
	"net/http"
	"net/url"
)

// =============================================================================
// AUTH OPERATIONS
// =============================================================================

// AuthStatus is the backend's view of the current session.
type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	UserMemory    string `json:"user_memory"`
}

// CheckAuth reports whether the session cookie is valid and returns
// account details when it is.
func (c *Client) CheckAuth(ctx context.Context) (*AuthStatus, error) {
	var status AuthStatus
	err := c.getJSON(ctx, "check auth", "Failed to verify session", "/check-auth", &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// Login authenticates with username and password. On success the
// backend sets the session cookie on the client's jar.
func (c *Client) Login(ctx context.Context, username, password string) error {
	in := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}
	return c.sendJSON(ctx, "login", "Login failed", http.MethodPost, "/login", in, nil)
}

// Register creates a new account. verificationToken comes from a
// successful VerifyEmailCode for the same email.
func (c *Client) Register(ctx context.Context, username, email, password, verificationToken string) error {
	in := struct {
		Username          string `json:"username"`
		Email             string `json:"email"`
		Password          string `json:"password"`
		VerificationToken string `json:"verification_token"`
	}{Username: username, Email: email, Password: password, VerificationToken: verificationToken}
	return c.sendJSON(ctx, "register", "Registration failed", http.MethodPost, "/register", in, nil)
}

// UsernameAvailability is the backend's answer to an availability check.
type UsernameAvailability struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// CheckUsername asks whether a username is free. Calls are paced by
// the client's rate limiter; the caller is expected to debounce too.
func (c *Client) CheckUsername(ctx context.Context, username string) (*UsernameAvailability, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var avail UsernameAvailability
	err := c.getJSON(ctx, "check username", "Failed to check username",
		"/check-username?username="+url.QueryEscape(username), &avail)
	if err != nil {
		return nil, err
	}
	return &avail, nil
}

// SendVerificationCode asks the backend to email a verification code.
func (c *Client) SendVerificationCode(ctx context.Context, email string) error {
	in := struct {
		Email string `json:"email"`
	}{Email: email}
	return c.sendJSON(ctx, "send verification code", "Failed to send verification code",
		http.MethodPost, "/send-verification-code", in, nil)
}

// VerifyEmailCode confirms the emailed code and returns the
// verification token Register needs.
func (c *Client) VerifyEmailCode(ctx context.Context, email, code string) (string, error) {
	in := struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}{Email: email, Code: code}
	var out struct {
		VerificationToken string `json:"verification_token"`
	}
	err := c.sendJSON(ctx, "verify email", "Verification failed",
		http.MethodPost, "/verify-email-code", in, &out)
	if err != nil {
		return "", err
	}
	return out.VerificationToken, nil
}

// ForgotPasswordReset completes the emailed-code password reset flow.
func (c *Client) ForgotPasswordReset(ctx context.Context, email, code, newPassword string) error {
	in := struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	}{Email: email, Code: code, NewPassword: newPassword}
	return c.sendJSON(ctx, "reset forgotten password", "Failed to reset password",
		http.MethodPost, "/forgot-password-reset", in, nil)
}

// ResetPassword changes the password of the logged-in account.
func (c *Client) ResetPassword(ctx context.Context, currentPassword, newPassword string) error {
	in := struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}{CurrentPassword: currentPassword, NewPassword: newPassword}
	return c.sendJSON(ctx, "reset password", "Failed to reset password",
		http.MethodPost, "/reset-password", in, nil)
}

// UpdateUserMemory replaces the persistent memory the assistant keeps
// about the account.
func (c *Client) UpdateUserMemory(ctx context.Context, memory string) error {
	in := struct {
		Memory string `json:"memory"`
	}{Memory: memory}
	return c.sendJSON(ctx, "update memory", "Failed to save memory",
		http.MethodPut, "/user-memory", in, nil)
}

// Logout invalidates the session server-side. The cookie jar is left
// as-is; the backend's expired cookie supersedes the stale one.
func (c *Client) Logout(ctx context.Context) error {
	return c.sendJSON(ctx, "logout", "Logout failed", http.MethodPost, "/logout", struct{}{}, nil)
}
