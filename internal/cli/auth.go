// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the plain-terminal chat front end.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// AUTH SCREENS
// =============================================================================

// authenticate is the pre-chat auth screen: it loops between sign-in,
// registration and password recovery until a login succeeds.
func (r *REPL) authenticate(ctx context.Context) error {
	fmt.Fprintln(r.out, infoStyle.Render("sign in to "+r.client.BaseURL()))
	for {
		choice, err := r.input.Read("login, register or forgot? [login]: ")
		if err != nil {
			return err
		}
		switch strings.TrimSpace(choice) {
		case "", "login", "l":
			if err := r.login(ctx); err == nil {
				return nil
			} else if errors.Is(err, errAborted) {
				continue
			} else {
				return err
			}
		case "register", "r":
			if err := r.register(ctx); err != nil {
				return err
			}
		case "forgot", "f":
			if err := r.forgotPassword(ctx); err != nil {
				return err
			}
		default:
			fmt.Fprintln(r.out, infoStyle.Render("choose login, register or forgot"))
		}
	}
}

// errAborted sends the user back to the auth menu without quitting.
var errAborted = errors.New("too many failed attempts")

// login prompts for credentials, three attempts per visit.
func (r *REPL) login(ctx context.Context) error {
	for attempt := 0; attempt < 3; attempt++ {
		username, err := r.input.Read("username: ")
		if err != nil {
			return err
		}
		password, err := r.input.ReadSecret("password: ")
		if err != nil {
			return err
		}
		if err := r.auth.Login(ctx, username, password); err != nil {
			fmt.Fprintln(r.out, errorStyle.Render(err.Error()))
			continue
		}
		return nil
	}
	return errAborted
}

// register walks the email-verification flow: code to the address
// first, then the account form carrying the earned token.
func (r *REPL) register(ctx context.Context) error {
	email, err := r.input.Read("email: ")
	if err != nil {
		return err
	}
	if err := r.auth.SendCode(ctx, email); err != nil {
		r.printErr(err)
		return nil
	}
	fmt.Fprintln(r.out, infoStyle.Render("verification code sent"))

	code, err := r.input.Read("code: ")
	if err != nil {
		return err
	}
	if err := r.auth.VerifyCode(ctx, email, code); err != nil {
		r.printErr(err)
		return nil
	}

	username, err := r.input.Read("username: ")
	if err != nil {
		return err
	}
	if taken := r.usernameTaken(ctx, username); taken {
		fmt.Fprintln(r.out, errorStyle.Render("that username is already taken"))
		return nil
	}

	password, err := r.input.ReadSecret("password: ")
	if err != nil {
		return err
	}
	confirm, err := r.input.ReadSecret("confirm password: ")
	if err != nil {
		return err
	}

	if err := r.auth.Register(ctx, username, email, password, confirm); err != nil {
		r.printErr(err)
		return nil
	}
	fmt.Fprintln(r.out, infoStyle.Render("account created, sign in to continue"))
	return nil
}

// usernameTaken runs the debounced availability check and waits for
// its answer. Lookup failures do not block registration; the backend
// rejects collisions anyway.
func (r *REPL) usernameTaken(ctx context.Context, username string) bool {
	done := make(chan bool, 1)
	r.auth.CheckUsernameSoon(ctx, username, func(available bool, err error) {
		done <- err == nil && !available
	})
	select {
	case taken := <-done:
		return taken
	case <-time.After(3 * time.Second):
		return false
	}
}

// forgotPassword resets a forgotten password with an emailed code.
func (r *REPL) forgotPassword(ctx context.Context) error {
	email, err := r.input.Read("email: ")
	if err != nil {
		return err
	}
	if err := r.auth.SendCode(ctx, email); err != nil {
		r.printErr(err)
		return nil
	}
	fmt.Fprintln(r.out, infoStyle.Render("reset code sent"))

	code, err := r.input.Read("code: ")
	if err != nil {
		return err
	}
	password, err := r.input.ReadSecret("new password: ")
	if err != nil {
		return err
	}
	confirm, err := r.input.ReadSecret("confirm password: ")
	if err != nil {
		return err
	}

	if err := r.auth.ForgotPassword(ctx, email, code, password, confirm); err != nil {
		r.printErr(err)
		return nil
	}
	fmt.Fprintln(r.out, infoStyle.Render("password reset, sign in to continue"))
	return nil
}

// =============================================================================
// ACCOUNT COMMANDS
// =============================================================================

// logout ends the server session.
func (r *REPL) logout(ctx context.Context) bool {
	if err := r.auth.Logout(ctx); err != nil {
		r.printErr(err)
		return false
	}
	fmt.Fprintln(r.out, infoStyle.Render("signed out"))
	return true
}

// changePassword rotates the password of the signed-in account.
func (r *REPL) changePassword(ctx context.Context) {
	current, err := r.input.ReadSecret("current password: ")
	if err != nil {
		return
	}
	next, err := r.input.ReadSecret("new password: ")
	if err != nil {
		return
	}
	confirm, err := r.input.ReadSecret("confirm password: ")
	if err != nil {
		return
	}
	if next != confirm {
		fmt.Fprintln(r.out, errorStyle.Render("passwords do not match"))
		return
	}
	if err := r.client.ResetPassword(ctx, current, next); err != nil {
		r.printErr(err)
		return
	}
	fmt.Fprintln(r.out, infoStyle.Render("password changed"))
}

// updateMemory replaces the assistant's persistent user memory.
func (r *REPL) updateMemory(ctx context.Context, memory string) {
	if err := r.client.UpdateUserMemory(ctx, memory); err != nil {
		r.printErr(err)
		return
	}
	fmt.Fprintln(r.out, infoStyle.Render("memory updated"))
}
