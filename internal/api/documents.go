// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// =============================================================================
// DOCUMENT OPERATIONS
// =============================================================================

// ListDocuments returns every document in the library.
func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	var docs []Document
	if err := c.getJSON(ctx, "/api/documents", &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

// GetDocument fetches metadata for a single document.
func (c *Client) GetDocument(ctx context.Context, id int64) (*Document, error) {
	var doc Document
	if err := c.getJSON(ctx, fmt.Sprintf("/api/documents/%d", id), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Chunks returns the chunk previews for a document, in document order.
func (c *Client) Chunks(ctx context.Context, id int64) ([]Chunk, error) {
	var chunks []Chunk
	if err := c.getJSON(ctx, fmt.Sprintf("/api/documents/%d/chunks", id), &chunks); err != nil {
		return nil, err
	}
	if chunks == nil {
		chunks = []Chunk{}
	}
	return chunks, nil
}

// Download streams the original file bytes of a document. The caller owns
// the returned ReadCloser and must close it.
func (c *Client) Download(ctx context.Context, id int64) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.config.BaseURL+fmt.Sprintf("/api/documents/%d/download", id), nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.wrapTransportError(err, ctx)
	}
	if err := checkStatus(resp); err != nil {
		drainAndClose(resp.Body)
		return nil, err
	}
	return resp.Body, nil
}

// DeleteDocument removes a document and its chunks from the library.
func (c *Client) DeleteDocument(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/documents/%d", id), nil)
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)
	return checkStatus(resp)
}

// =============================================================================
// UPLOAD
// =============================================================================

// Upload sends one or more files for ingestion. The backend processes each
// file independently, so a partial failure returns both the documents that
// succeeded and a per-file error list.
func (c *Client) Upload(ctx context.Context, paths []string) (*UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for _, path := range paths {
		if err := addFilePart(writer, path); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to finalize upload body", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/api/documents/upload", &body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	// Ingestion can outlive the default request timeout on large files.
	client := &http.Client{Timeout: 0}
	resp, err := client.Do(req)
	if err != nil {
		return nil, c.wrapTransportError(err, ctx)
	}
	defer drainAndClose(resp.Body)

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var result UploadResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, err
	}
	if result.Success == nil {
		result.Success = []Document{}
	}
	if result.Errors == nil {
		result.Errors = []UploadError{}
	}
	return &result, nil
}

// addFilePart appends one file to the multipart body under the "files"
// field the backend expects.
func addFilePart(writer *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &ClientError{
			Type:    ErrTypeBadRequest,
			Message: fmt.Sprintf("cannot read %s", path),
			Cause:   err,
		}
	}
	defer f.Close()

	part, err := writer.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to build upload body", Cause: err}
	}
	if _, err := io.Copy(part, f); err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to buffer upload body", Cause: err}
	}
	return nil
}
