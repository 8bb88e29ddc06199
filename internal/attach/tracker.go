// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attach tracks the files staged for the next outgoing message.
package attach

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/obsidian-tui/internal/api"
	"github.com/jeranaias/obsidian-tui/internal/model"
)

// Error variables for staging failures.
var (
	// ErrUnsupportedType rejects anything that is not an image or PDF.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrIndexOutOfRange indicates a removal of a nonexistent entry.
	ErrIndexOutOfRange = errors.New("attachment index out of range")
)

// Uploader sends a staged file to the backend. *api.Client satisfies it.
type Uploader interface {
	UploadFile(ctx context.Context, name, mediaType string, src io.Reader) (*api.UploadResult, error)
}

// =============================================================================
// ATTACHMENT
// =============================================================================

// Attachment is one staged file. Exactly one of these holds at any
// time: Loading is true, Error is non-empty, or the entry is resolved
// (a server reference and/or inline content is present).
type Attachment struct {
	ID        uuid.UUID
	Name      string
	MediaType string
	Data      string // base64 content, empty until resolved
	Filename  string // server-assigned, empty until resolved
	URL       string // server-assigned, empty until resolved
	Loading   bool
	Error     string
}

// Resolved reports whether the upload completed successfully.
func (a *Attachment) Resolved() bool {
	return !a.Loading && a.Error == "" && (a.Filename != "" && a.URL != "" || a.Data != "")
}

// IsImage reports whether the declared media type is an image type.
func (a *Attachment) IsImage() bool {
	return strings.HasPrefix(a.MediaType, "image/")
}

// IsPDF reports whether the declared media type is application/pdf.
func (a *Attachment) IsPDF() bool {
	return a.MediaType == "application/pdf"
}

// FileData converts the entry to its wire representation.
func (a *Attachment) FileData() model.FileData {
	return model.FileData{
		Name:     a.Name,
		Data:     a.Data,
		Type:     a.MediaType,
		Filename: a.Filename,
		URL:      a.URL,
	}
}

// Label returns the display label for non-image entries, e.g.
// "doc.pdf (PDF)".
func (a *Attachment) Label() string {
	if a.IsPDF() {
		return a.Name + " (PDF)"
	}
	return a.Name
}

// supportedType gates staging to images and PDFs.
func supportedType(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/") || mediaType == "application/pdf"
}

// =============================================================================
// TRACKER
// =============================================================================

// Tracker owns the staged attachment list. All mutation goes through
// its methods; upload goroutines re-enter through resolve, which drops
// results for entries that were removed in the meantime.
type Tracker struct {
	mu       sync.Mutex
	uploader Uploader
	entries  []*Attachment
	onChange func()
}

// NewTracker creates an empty tracker uploading through the given
// uploader.
func NewTracker(uploader Uploader) *Tracker {
	return &Tracker{uploader: uploader}
}

// OnChange registers a callback invoked after every visible mutation
// (staging, resolution, removal, clear). Surfaces use it to re-render
// the attachment strip.
func (t *Tracker) OnChange(fn func()) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// notify runs the change callback outside the lock.
func (t *Tracker) notify() {
	t.mu.Lock()
	fn := t.onChange
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Stage validates and appends a new entry in loading state, then
// starts its upload in the background. It returns before the upload
// resolves; the entry is already visible to Entries when it does.
//
// Files that are neither images nor PDFs are rejected per-file and
// never staged.
func (t *Tracker) Stage(ctx context.Context, name, mediaType string, src io.Reader) error {
	if !supportedType(mediaType) {
		return fmt.Errorf("%w: %q (%s): only images and PDF files are supported",
			ErrUnsupportedType, name, mediaType)
	}

	entry := &Attachment{
		ID:        uuid.New(),
		Name:      name,
		MediaType: mediaType,
		Loading:   true,
	}

	t.mu.Lock()
	t.entries = append(t.entries, entry)
	t.mu.Unlock()
	t.notify()

	go t.upload(ctx, entry.ID, name, mediaType, src)
	return nil
}

// StagePasted stages clipboard image bytes under a synthesized name.
func (t *Tracker) StagePasted(ctx context.Context, data []byte, mediaType string) error {
	if mediaType == "" {
		mediaType = "image/png"
	}
	name := fmt.Sprintf("pasted-image-%d.png", time.Now().UnixMilli())
	return t.Stage(ctx, name, mediaType, bytes.NewReader(data))
}

// upload performs one upload and applies its outcome.
func (t *Tracker) upload(ctx context.Context, id uuid.UUID, name, mediaType string, src io.Reader) {
	result, err := t.uploader.UploadFile(ctx, name, mediaType, src)
	t.resolve(id, result, err)
}

// resolve applies an upload outcome to the entry, if it still exists.
// A removed entry's result is dropped without a re-render.
func (t *Tracker) resolve(id uuid.UUID, result *api.UploadResult, err error) {
	t.mu.Lock()
	entry := t.findLocked(id)
	if entry == nil {
		t.mu.Unlock()
		return
	}
	if err != nil {
		entry.Error = err.Error()
	} else {
		entry.Filename = result.Filename
		entry.URL = result.URL
		entry.Data = result.Base64
	}
	entry.Loading = false
	t.mu.Unlock()
	t.notify()
}

// findLocked returns the tracked entry with the given id, or nil.
func (t *Tracker) findLocked(id uuid.UUID) *Attachment {
	for _, e := range t.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Remove deletes the entry at the given display index. Removal works
// mid-upload; the in-flight result becomes a no-op.
func (t *Tracker) Remove(index int) error {
	t.mu.Lock()
	if index < 0 || index >= len(t.entries) {
		t.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	t.entries = append(t.entries[:index], t.entries[index+1:]...)
	t.mu.Unlock()
	t.notify()
	return nil
}

// Clear empties the tracker. In-flight uploads resolve into nothing.
func (t *Tracker) Clear() {
	t.mu.Lock()
	t.entries = nil
	t.mu.Unlock()
	t.notify()
}

// =============================================================================
// QUERIES
// =============================================================================

// Entries returns a snapshot of the staged files in insertion order.
func (t *Tracker) Entries() []Attachment {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Attachment, len(t.entries))
	for i, e := range t.entries {
		out[i] = *e
	}
	return out
}

// Len returns the number of staged files.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Empty reports whether nothing is staged.
func (t *Tracker) Empty() bool {
	return t.Len() == 0
}

// AnyLoading reports whether any upload is still in flight.
func (t *Tracker) AnyLoading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.entries {
		if e.Loading {
			return true
		}
	}
	return false
}

// AnyFailed reports whether any entry is in an error state.
func (t *Tracker) AnyFailed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.entries {
		if e.Error != "" {
			return true
		}
	}
	return false
}

// Resolved returns copies of the staged files' wire representations in
// insertion order. Callers validate AnyLoading/AnyFailed first; the
// copies stay valid after Clear.
func (t *Tracker) Resolved() []model.FileData {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.entries) == 0 {
		return nil
	}
	out := make([]model.FileData, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.FileData())
	}
	return out
}
