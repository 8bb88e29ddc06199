// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the client-side chat state.
package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/obsidian-tui/internal/api"
	"github.com/jeranaias/obsidian-tui/internal/attach"
	"github.com/jeranaias/obsidian-tui/internal/debounce"
	"github.com/jeranaias/obsidian-tui/internal/model"
)

// blockedUploader never resolves, keeping staged entries loading.
type blockedUploader struct{ release chan struct{} }

func (u *blockedUploader) UploadFile(ctx context.Context, name, mediaType string, src io.Reader) (*api.UploadResult, error) {
	<-u.release
	return nil, errors.New("upload file: connection reset")
}

// newTrackerHarness is newHarness with a caller-chosen uploader.
func newTrackerHarness(t *testing.T, up attach.Uploader) *harness {
	t.Helper()
	log := &eventLog{}
	h := &harness{
		backend: newFakeBackend(log),
		state:   &fakeState{},
		log:     log,
	}
	h.store = NewStore(h.backend, h.state, &fakeSurface{log: log}, attach.NewTracker(up))
	h.store.after = func(d time.Duration, fn func()) *debounce.Handle {
		h.cleanups = append(h.cleanups, fn)
		return debounce.After(time.Hour, func() {})
	}
	return h
}

func waitNotLoading(t *testing.T, tr *attach.Tracker) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !tr.AnyLoading() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("uploads never settled")
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestSend_RejectsEmpty(t *testing.T) {
	h := newHarness(t)

	err := h.store.Send(context.Background(), "   ")
	if !errors.Is(err, ErrNothingToSend) {
		t.Fatalf("err = %v, want ErrNothingToSend", err)
	}
	if h.log.indexOf("net:") != -1 {
		t.Error("rejected send must not touch the network")
	}
}

func TestSend_ValidationOrder(t *testing.T) {
	up := &blockedUploader{release: make(chan struct{})}
	h := newTrackerHarness(t, up)
	tr := h.store.Tracker()

	// Empty beats in-flight: nothing staged yet and no text.
	if err := h.store.Send(context.Background(), ""); !errors.Is(err, ErrNothingToSend) {
		t.Fatalf("err = %v, want ErrNothingToSend first", err)
	}

	// In-flight beats failed: the upload is still running.
	if err := tr.Stage(context.Background(), "a.png", "image/png", strings.NewReader("x")); err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	if err := h.store.Send(context.Background(), "hi"); !errors.Is(err, ErrUploadsInFlight) {
		t.Fatalf("err = %v, want ErrUploadsInFlight", err)
	}

	// Failed reported once nothing is loading.
	close(up.release)
	waitNotLoading(t, tr)
	if err := h.store.Send(context.Background(), "hi"); !errors.Is(err, ErrFailedAttachment) {
		t.Fatalf("err = %v, want ErrFailedAttachment", err)
	}

	if h.log.indexOf("net:send") != -1 {
		t.Error("no send request may be issued while validation fails")
	}
}

func TestSend_SingleFlight(t *testing.T) {
	h := newHarness(t)
	h.backend.seed("1", "chat", model.NewUserMessage("prior", nil))
	if err := h.store.LoadChat(context.Background(), "1"); err != nil {
		t.Fatalf("LoadChat failed: %v", err)
	}

	// Attempt a second send while the first is inside the backend.
	var (
		once      sync.Once
		secondErr error
	)
	h.backend.onSend = func() {
		once.Do(func() {
			secondErr = h.store.Send(context.Background(), "second")
		})
	}

	if err := h.store.Send(context.Background(), "first"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !errors.Is(secondErr, ErrSendInFlight) {
		t.Errorf("concurrent send err = %v, want ErrSendInFlight", secondErr)
	}
	if h.store.Sending() {
		t.Error("Sending should clear after completion")
	}
}

// =============================================================================
// HAPPY PATH ORDERING
// =============================================================================

func TestSend_OptimisticBeforeNetwork(t *testing.T) {
	h := newHarness(t)
	h.backend.seed("1", "chat", model.NewUserMessage("prior", nil))
	if err := h.store.LoadChat(context.Background(), "1"); err != nil {
		t.Fatalf("LoadChat failed: %v", err)
	}

	if err := h.store.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	optimistic := h.log.indexOf("append:user:hello")
	pending := h.log.indexOf("pending")
	network := h.log.indexOf("net:send")
	cleared := h.log.indexOf("clearPending")
	reveal := h.log.indexOf("reveal:")

	if optimistic == -1 || pending == -1 || network == -1 || cleared == -1 || reveal == -1 {
		t.Fatalf("missing pipeline events: %v", h.log.list())
	}
	if !(optimistic < pending && pending < network && network < cleared && cleared < reveal) {
		t.Errorf("pipeline out of order: optimistic=%d pending=%d net=%d cleared=%d reveal=%d",
			optimistic, pending, network, cleared, reveal)
	}
}

func TestSend_ImplicitChatCreation(t *testing.T) {
	h := newHarness(t)

	if err := h.store.Send(context.Background(), "first words"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	create := h.log.indexOf("net:create")
	send := h.log.indexOf("net:send")
	if create == -1 || send == -1 || create > send {
		t.Fatalf("implicit creation missing or misordered: %v", h.log.list())
	}
	if active, _ := h.store.ActiveChat(); active == "" {
		t.Error("created chat should be active after the send")
	}
}

func TestSend_AttachmentsSnapshotBeforeImplicitCreate(t *testing.T) {
	h := newHarness(t)
	tr := h.store.Tracker()

	if err := tr.Stage(context.Background(), "doc.pdf", "application/pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	waitNotLoading(t, tr)

	// No text: attachments alone carry the message.
	if err := h.store.Send(context.Background(), ""); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if h.log.indexOf("net:send:1:files=1") == -1 {
		t.Errorf("send lost the attachment across the implicit create: %v", h.log.list())
	}
	if !tr.Empty() {
		t.Error("tracker should be cleared by the send")
	}
}

// echoUploader resolves with a server reference and the inline echo
// the upload endpoint also returns.
type echoUploader struct{}

func (echoUploader) UploadFile(ctx context.Context, name, mediaType string, src io.Reader) (*api.UploadResult, error) {
	return &api.UploadResult{Filename: name, URL: "/uploads/" + name, Base64: "QUFBQQ=="}, nil
}

// inlineUploader resolves with inline content only, no server
// reference.
type inlineUploader struct{}

func (inlineUploader) UploadFile(ctx context.Context, name, mediaType string, src io.Reader) (*api.UploadResult, error) {
	return &api.UploadResult{Base64: "QUFBQQ=="}, nil
}

func TestSend_ResolvedAttachmentOmitsInlineData(t *testing.T) {
	h := newTrackerHarness(t, echoUploader{})
	tr := h.store.Tracker()

	if err := tr.Stage(context.Background(), "a.png", "image/png", strings.NewReader("x")); err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	waitNotLoading(t, tr)

	if err := h.store.Send(context.Background(), "look"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if n := len(h.backend.sentFiles); n != 1 {
		t.Fatalf("sent files = %d, want 1", n)
	}
	sent := h.backend.sentFiles[0]
	if sent.Data != "" {
		t.Errorf("server-resolved attachment carried inline data on the wire: %q", sent.Data)
	}
	if sent.Filename != "a.png" || sent.URL != "/uploads/a.png" {
		t.Errorf("wire reference = {%q, %q}, want the server's", sent.Filename, sent.URL)
	}
}

func TestSend_UnresolvedAttachmentFallsBackToInline(t *testing.T) {
	h := newTrackerHarness(t, inlineUploader{})
	tr := h.store.Tracker()

	if err := tr.Stage(context.Background(), "a.png", "image/png", strings.NewReader("x")); err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	waitNotLoading(t, tr)

	if err := h.store.Send(context.Background(), "look"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if n := len(h.backend.sentFiles); n != 1 {
		t.Fatalf("sent files = %d, want 1", n)
	}
	sent := h.backend.sentFiles[0]
	if sent.Data != "QUFBQQ==" || sent.Name != "a.png" {
		t.Errorf("inline fallback = {name %q, data %q}, want the staged content", sent.Name, sent.Data)
	}
	if sent.Filename != "" || sent.URL != "" {
		t.Errorf("inline fallback carried a server reference: {%q, %q}", sent.Filename, sent.URL)
	}
}

func TestSend_RefreshesTitleAfterReply(t *testing.T) {
	h := newHarness(t)

	if err := h.store.Send(context.Background(), "name me"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	// The backend retitles from the first message; simulate and send
	// again to observe the refetch.
	h.backend.RenameChat(context.Background(), "1", "Named By Server")
	if err := h.store.Send(context.Background(), "again"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if _, title := h.store.ActiveChat(); title != "Named By Server" {
		t.Errorf("title = %q, want the server's", title)
	}
	if h.log.indexOf("title:Named By Server") == -1 {
		t.Error("surface title was not refreshed")
	}
}

// =============================================================================
// FAILURE PATH
// =============================================================================

func TestSend_FailureAppendsErrorTurn(t *testing.T) {
	h := newHarness(t)
	h.backend.seed("1", "chat", model.NewUserMessage("prior", nil))
	if err := h.store.LoadChat(context.Background(), "1"); err != nil {
		t.Fatalf("LoadChat failed: %v", err)
	}
	h.backend.sendErr = &api.APIError{Status: 500, Message: "model overloaded", Op: "send message"}

	err := h.store.Send(context.Background(), "hello")
	if err == nil {
		t.Fatal("Send should surface the failure")
	}

	cleared := h.log.indexOf("clearPending")
	errTurn := h.log.indexOf("append:assistant:Error: model overloaded")
	if cleared == -1 || errTurn == -1 || cleared > errTurn {
		t.Fatalf("error turn missing or before placeholder removal: %v", h.log.list())
	}
	if h.log.indexOf("alert:") != -1 {
		t.Error("ordinary failures must not raise a blocking alert")
	}
	if h.log.indexOf("reveal:") != -1 {
		t.Error("failed send must not reveal a reply")
	}
}

func TestSend_AccountLevelFailureAlerts(t *testing.T) {
	h := newHarness(t)
	h.backend.seed("1", "chat", model.NewUserMessage("prior", nil))
	if err := h.store.LoadChat(context.Background(), "1"); err != nil {
		t.Fatalf("LoadChat failed: %v", err)
	}
	h.backend.sendErr = &api.APIError{Status: 402, Message: "Insufficient balance", Op: "send message"}

	if err := h.store.Send(context.Background(), "hello"); err == nil {
		t.Fatal("Send should surface the failure")
	}
	if h.log.indexOf("alert:Insufficient balance") == -1 {
		t.Errorf("balance failures escalate to an alert: %v", h.log.list())
	}
	if h.log.indexOf("append:assistant:Error: Insufficient balance") == -1 {
		t.Error("the inline error turn still appears alongside the alert")
	}
}
