// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jeranaias/obsidian-tui/internal/api"
	"github.com/jeranaias/obsidian-tui/internal/auth"
)

// stubAuthBackend answers the auth flows with scripted results.
type stubAuthBackend struct {
	available bool
	checkErr  error
	logoutErr error
}

func (b *stubAuthBackend) Login(ctx context.Context, username, password string) error { return nil }
func (b *stubAuthBackend) Register(ctx context.Context, username, email, password, token string) error {
	return nil
}
func (b *stubAuthBackend) CheckUsername(ctx context.Context, username string) (*api.UsernameAvailability, error) {
	if b.checkErr != nil {
		return nil, b.checkErr
	}
	return &api.UsernameAvailability{Available: b.available}, nil
}
func (b *stubAuthBackend) SendVerificationCode(ctx context.Context, email string) error { return nil }
func (b *stubAuthBackend) VerifyEmailCode(ctx context.Context, email, code string) (string, error) {
	return "tok", nil
}
func (b *stubAuthBackend) ForgotPasswordReset(ctx context.Context, email, code, newPassword string) error {
	return nil
}
func (b *stubAuthBackend) Logout(ctx context.Context) error { return b.logoutErr }

func newAuthREPL(backend auth.Backend) (*REPL, *bytes.Buffer) {
	var buf bytes.Buffer
	mgr := auth.NewManager(backend)
	return &REPL{out: &buf, auth: mgr}, &buf
}

func TestUsernameTaken(t *testing.T) {
	tests := []struct {
		name    string
		backend *stubAuthBackend
		want    bool
	}{
		{"taken", &stubAuthBackend{available: false}, true},
		{"free", &stubAuthBackend{available: true}, false},
		{"lookup failure does not block", &stubAuthBackend{checkErr: errors.New("check username: boom")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newAuthREPL(tt.backend)
			defer r.auth.Close()

			if got := r.usernameTaken(context.Background(), "morgan"); got != tt.want {
				t.Errorf("usernameTaken = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogout_SignalsExitOnSuccess(t *testing.T) {
	r, buf := newAuthREPL(&stubAuthBackend{})
	defer r.auth.Close()

	if !r.logout(context.Background()) {
		t.Error("successful logout should end the loop")
	}
	if !strings.Contains(buf.String(), "signed out") {
		t.Errorf("output = %q, want sign-out notice", buf.String())
	}
}

func TestLogout_StaysOnFailure(t *testing.T) {
	r, buf := newAuthREPL(&stubAuthBackend{logoutErr: errors.New("logout: 500")})
	defer r.auth.Close()

	if r.logout(context.Background()) {
		t.Error("failed logout must not end the loop")
	}
	if !strings.Contains(buf.String(), "logout") {
		t.Errorf("output = %q, want the failure", buf.String())
	}
}

func TestUpdateMemory_SendsReplacement(t *testing.T) {
	var got struct {
		Memory string `json:"memory"`
	}
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		method, path = req.Method, req.URL.Path
		json.NewDecoder(req.Body).Decode(&got)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, err := api.New(srv.URL)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var buf bytes.Buffer
	r := &REPL{out: &buf, client: client}
	r.updateMemory(context.Background(), "prefers short answers")

	if method != http.MethodPut || path != "/api/user-memory" {
		t.Errorf("request = %s %s, want PUT /api/user-memory", method, path)
	}
	if got.Memory != "prefers short answers" {
		t.Errorf("memory = %q", got.Memory)
	}
	if !strings.Contains(buf.String(), "memory updated") {
		t.Errorf("output = %q, want confirmation", buf.String())
	}
}
