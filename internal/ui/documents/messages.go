// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package documents provides the document library, viewer, and upload views
// for the docsage TUI.
package documents

import (
	"github.com/docsage/docsage-tui/internal/api"
)

// =============================================================================
// LIBRARY MESSAGES
// =============================================================================

// ListFetchedMsg delivers the document library listing.
type ListFetchedMsg struct {
	Documents []api.Document
	Err       error
}

// DeletedMsg reports the outcome of a document delete.
type DeletedMsg struct {
	DocID int64
	Err   error
}

// =============================================================================
// VIEWER MESSAGES
// =============================================================================

// OpenDocumentMsg asks the viewer to show a document, optionally scrolled
// to one highlighted chunk (deep link from a chat citation).
type OpenDocumentMsg struct {
	DocID          int64
	HighlightChunk string
}

// DocumentOpenedMsg delivers a document and its chunks to the viewer.
type DocumentOpenedMsg struct {
	Document       api.Document
	Chunks         []api.Chunk
	HighlightChunk string
	Err            error
}

// DownloadedMsg reports the outcome of saving a document's original file.
type DownloadedMsg struct {
	Path string
	Err  error
}

// =============================================================================
// UPLOAD MESSAGES
// =============================================================================

// UploadProgressMsg reports one file finishing during a bulk upload.
type UploadProgressMsg struct {
	Filename string
	Err      error
}

// UploadDoneMsg reports the outcome of a bulk upload.
type UploadDoneMsg struct {
	Result *api.UploadResult
	Err    error
}
