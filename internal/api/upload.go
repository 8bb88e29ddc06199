// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the ObsidianAI backend.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// =============================================================================
// FILE UPLOAD
// =============================================================================

// UploadResult is the backend's response to a file upload: a
// server-assigned filename, a retrieval URL, and the base64 content
// echoed back for local preview.
type UploadResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Base64   string `json:"base64"`
}

// quoteEscaper escapes filename metadata in the multipart header.
var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, `\"`)

// UploadFile sends one file as multipart form data under the "file"
// field and returns the server-assigned reference.
//
// The whole payload is buffered before sending: the retry loop needs a
// re-readable body, and uploads are capped well below memory concern
// by the media-type gate upstream (images and PDFs only).
func (c *Client) UploadFile(ctx context.Context, name, mediaType string, src io.Reader) (*UploadResult, error) {
	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("upload file: failed to read source: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(name)))
	header.Set("Content-Type", mediaType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	body := buf.Bytes()
	contentType := w.FormDataContentType()

	var result UploadResult
	err = c.do(ctx, "upload file", "Failed to upload file", func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, c.url("/upload-image"), bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
