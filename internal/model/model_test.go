// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the wire types exchanged with the ObsidianAI backend.
package model

import (
	"encoding/json"
	"testing"
)

// =============================================================================
// CHAT ID TESTS
// =============================================================================

func TestChatID_UnmarshalNumber(t *testing.T) {
	var c ChatSummary
	if err := json.Unmarshal([]byte(`{"id": 7, "title": "Notes"}`), &c); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if c.ID != "7" {
		t.Errorf("ID = %q, want %q", c.ID, "7")
	}
	if c.Title != "Notes" {
		t.Errorf("Title = %q, want %q", c.Title, "Notes")
	}
}

func TestChatID_UnmarshalString(t *testing.T) {
	var c ChatSummary
	if err := json.Unmarshal([]byte(`{"id": "abc-123", "title": "T"}`), &c); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if c.ID != "abc-123" {
		t.Errorf("ID = %q, want %q", c.ID, "abc-123")
	}
}

func TestChatID_MarshalRoundTrip(t *testing.T) {
	data, err := json.Marshal(ChatSummary{ID: "42", Title: "x"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	// Numeric ids stay numbers on the wire.
	if string(data) != `{"id":42,"title":"x"}` {
		t.Errorf("Marshal = %s", data)
	}
}

// =============================================================================
// FILE LIST DECODE TESTS
// =============================================================================

func TestFileList_DecodeArray(t *testing.T) {
	raw := `{"role":"user","content":"hi","image_data":[
		{"filename":"a.png","url":"/uploads/a.png","type":"image/png","name":"a.png"},
		{"name":"doc.pdf","data":"JVBERi0=","type":"application/pdf"}
	]}`

	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(msg.Files) != 2 {
		t.Fatalf("Files count = %d, want 2", len(msg.Files))
	}
	if !msg.Files[0].Resolved() {
		t.Error("first file should be server-resolved")
	}
	if !msg.Files[1].IsPDF() {
		t.Error("second file should be a PDF")
	}
}

func TestFileList_DecodeSingleObject(t *testing.T) {
	raw := `{"role":"user","content":"","image_data":{"name":"a.png","data":"AAAA","type":"image/png"}}`

	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(msg.Files) != 1 {
		t.Fatalf("Files count = %d, want 1", len(msg.Files))
	}
	if msg.Files[0].Name != "a.png" {
		t.Errorf("Name = %q, want %q", msg.Files[0].Name, "a.png")
	}
}

func TestFileList_DecodeLegacyBase64String(t *testing.T) {
	raw := `{"role":"user","content":"","image_data":"iVBORw0KGgo="}`

	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(msg.Files) != 1 {
		t.Fatalf("Files count = %d, want 1", len(msg.Files))
	}
	f := msg.Files[0]
	if f.Data != "iVBORw0KGgo=" {
		t.Errorf("Data = %q", f.Data)
	}
	if f.Type != "image/jpeg" {
		t.Errorf("Type = %q, want image/jpeg for legacy payloads", f.Type)
	}
}

func TestFileList_DecodeJSONEncodedString(t *testing.T) {
	// The backend stored the array as a JSON string column for a while.
	raw := `{"role":"user","content":"","image_data":"[{\"name\":\"a.png\",\"type\":\"image/png\",\"data\":\"AAAA\"}]"}`

	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(msg.Files) != 1 {
		t.Fatalf("Files count = %d, want 1", len(msg.Files))
	}
	if msg.Files[0].Type != "image/png" {
		t.Errorf("Type = %q, want image/png", msg.Files[0].Type)
	}
}

func TestFileList_DecodeNull(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"role":"user","content":"hi","image_data":null}`), &msg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if msg.HasFiles() {
		t.Error("expected no files")
	}
}

// =============================================================================
// DESCRIPTOR TESTS
// =============================================================================

func TestFileData_DescriptorPrefersServerReference(t *testing.T) {
	f := FileData{
		Name:     "a.png",
		Data:     "AAAA", // content also present
		Type:     "image/png",
		Filename: "a.png",
		URL:      "/uploads/a.png",
	}

	d := f.Descriptor()
	if d.Data != "" {
		t.Error("resolved descriptor must not carry inline data")
	}
	if d.Filename != "a.png" || d.URL != "/uploads/a.png" {
		t.Errorf("descriptor = %+v", d)
	}
}

func TestFileData_DescriptorInlineFallback(t *testing.T) {
	f := FileData{Name: "doc.pdf", Data: "JVBERi0=", Type: "application/pdf"}

	d := f.Descriptor()
	if d.Filename != "" || d.URL != "" {
		t.Errorf("unresolved descriptor must not carry a server reference: %+v", d)
	}
	if d.Data != "JVBERi0=" {
		t.Errorf("Data = %q", d.Data)
	}
}

func TestFileData_Label(t *testing.T) {
	tests := []struct {
		name string
		file FileData
		want string
	}{
		{"pdf gets suffix", FileData{Name: "doc.pdf", Type: "application/pdf"}, "doc.pdf (PDF)"},
		{"image stays bare", FileData{Name: "a.png", Type: "image/png"}, "a.png"},
		{"server filename fallback", FileData{Filename: "b.pdf", Type: "application/pdf"}, "b.pdf (PDF)"},
		{"nameless", FileData{Data: "AAAA", Type: "image/jpeg"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.file.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileData_Source(t *testing.T) {
	tests := []struct {
		name string
		file FileData
		want string
	}{
		{"filename wins", FileData{Filename: "a.png", URL: "/other", Data: "x", Type: "image/png"}, "/uploads/a.png"},
		{"url next", FileData{URL: "/uploads/b.png", Data: "x", Type: "image/png"}, "/uploads/b.png"},
		{"data uri last", FileData{Data: "AAAA", Type: "image/png"}, "data:image/png;base64,AAAA"},
		{"nothing", FileData{Type: "image/png"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.file.Source(); got != tt.want {
				t.Errorf("Source() = %q, want %q", got, tt.want)
			}
		})
	}
}
