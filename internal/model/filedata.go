// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the wire types exchanged with the ObsidianAI backend.
package model

import (
	"encoding/json"
	"strings"
)

// =============================================================================
// FILE DATA
// =============================================================================

// FileData is one attachment element of a message payload.
//
// Two forms travel on the wire. A server-resolved reference carries
// Filename and URL; an inline fallback carries base64 Data. Descriptor
// reduces a populated FileData to whichever form applies.
type FileData struct {
	Name     string `json:"name,omitempty"`
	Data     string `json:"data,omitempty"` // base64 content
	Type     string `json:"type,omitempty"` // declared media type
	Filename string `json:"filename,omitempty"`
	URL      string `json:"url,omitempty"`
}

// IsImage reports whether the declared media type is an image type.
func (f *FileData) IsImage() bool {
	return strings.HasPrefix(f.Type, "image/")
}

// IsPDF reports whether the declared media type is application/pdf.
func (f *FileData) IsPDF() bool {
	return f.Type == "application/pdf"
}

// Resolved reports whether the server assigned a retrievable reference.
func (f *FileData) Resolved() bool {
	return f.Filename != "" && f.URL != ""
}

// Descriptor returns the wire form for an outgoing send request:
// the server-resolved reference when available, else the inline
// fallback. Preferring the reference keeps request bodies small even
// when the base64 content is also held locally.
func (f FileData) Descriptor() FileData {
	if f.Resolved() {
		return FileData{Filename: f.Filename, URL: f.URL, Type: f.Type, Name: f.Name}
	}
	return FileData{Name: f.Name, Data: f.Data, Type: f.Type}
}

// Label returns the display name for a rendered message turn, e.g.
// "doc.pdf (PDF)". Falls back to the server filename when the
// user-facing name is missing.
func (f *FileData) Label() string {
	name := f.Name
	if name == "" {
		name = f.Filename
	}
	if name == "" {
		return ""
	}
	if f.IsPDF() {
		return name + " (PDF)"
	}
	return name
}

// Source returns the best retrieval source for display: the uploads
// path derived from the server filename, then the server URL, then an
// inline data URI. Empty when nothing is available yet.
func (f *FileData) Source() string {
	switch {
	case f.Filename != "":
		return "/uploads/" + f.Filename
	case f.URL != "":
		return f.URL
	case f.Data != "":
		return "data:" + f.Type + ";base64," + f.Data
	}
	return ""
}

// =============================================================================
// FILE LIST (LEGACY-TOLERANT DECODE)
// =============================================================================

// FileList is the ordered attachment payload of a message.
type FileList []FileData

// UnmarshalJSON accepts the three historical shapes of "image_data":
// an array of file objects, a single file object, or a bare base64
// string (implying image/jpeg). A string value that itself contains
// JSON is unwrapped first; the backend stored the payload as a JSON
// string column for a while.
func (l *FileList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*l = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var files []FileData
		if err := json.Unmarshal(data, &files); err != nil {
			return err
		}
		*l = files
		return nil
	case '{':
		var single FileData
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*l = FileList{single}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return l.decodeString(s)
	}
	return &json.UnmarshalTypeError{Value: "image_data", Type: nil}
}

// decodeString handles string payloads: embedded JSON first, bare
// base64 as the last resort.
func (l *FileList) decodeString(s string) error {
	inner := strings.TrimSpace(s)
	if inner == "" {
		*l = nil
		return nil
	}
	if inner[0] == '[' || inner[0] == '{' {
		var nested FileList
		if err := json.Unmarshal([]byte(inner), &nested); err == nil {
			*l = nested
			return nil
		}
		// Fall through: treat unparseable content as legacy base64.
	}
	*l = FileList{{Data: s, Type: "image/jpeg"}}
	return nil
}

// Descriptors returns the outgoing wire forms in order.
func (l FileList) Descriptors() []FileData {
	if len(l) == 0 {
		return nil
	}
	out := make([]FileData, 0, len(l))
	for _, f := range l {
		out = append(out, f.Descriptor())
	}
	return out
}
