// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package documents

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/ui/styles"
)

func testLibrary(t *testing.T) Library {
	t.Helper()

	m := NewLibrary(api.NewClient(), styles.NewTheme())
	m.SetSize(60, 20)
	return m
}

func withDocuments(m Library, names ...string) Library {
	var docs []api.Document
	for i, name := range names {
		docs = append(docs, api.Document{ID: int64(i + 1), Filename: name})
	}
	m.documents = docs
	return m
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// =============================================================================
// LIBRARY
// =============================================================================

func TestLibrary_ListFetched(t *testing.T) {
	m := testLibrary(t)

	m, _ = m.Update(ListFetchedMsg{Documents: []api.Document{
		{ID: 1, Filename: "report.pdf", ChunkCount: 12},
	}})

	if len(m.Documents()) != 1 {
		t.Fatalf("got %d documents, want 1", len(m.Documents()))
	}
	if m.lastError != nil {
		t.Errorf("lastError = %v, want nil", m.lastError)
	}
}

func TestLibrary_ListFetched_Error(t *testing.T) {
	m := withDocuments(testLibrary(t), "a.pdf")

	m, _ = m.Update(ListFetchedMsg{Err: api.ErrUnreachable})

	if m.lastError == nil {
		t.Error("fetch failure should be surfaced")
	}
	if len(m.Documents()) != 1 {
		t.Error("fetch failure should not discard the previous listing")
	}
}

func TestLibrary_ListFetched_ClampsCursor(t *testing.T) {
	m := withDocuments(testLibrary(t), "a.pdf", "b.pdf", "c.pdf")
	m.cursor = 2

	m, _ = m.Update(ListFetchedMsg{Documents: []api.Document{{ID: 1, Filename: "a.pdf"}}})

	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestLibrary_Navigation(t *testing.T) {
	m := withDocuments(testLibrary(t), "a.pdf", "b.pdf")

	m, _ = m.Update(keyMsg("j"))
	if m.cursor != 1 {
		t.Errorf("cursor after j = %d, want 1", m.cursor)
	}

	m, _ = m.Update(keyMsg("j"))
	if m.cursor != 1 {
		t.Error("cursor should not move past the last document")
	}

	m, _ = m.Update(keyMsg("k"))
	if m.cursor != 0 {
		t.Errorf("cursor after k = %d, want 0", m.cursor)
	}
}

func TestLibrary_DeleteRequiresConfirmation(t *testing.T) {
	m := withDocuments(testLibrary(t), "a.pdf")

	m, cmd := m.Update(keyMsg("d"))
	if cmd != nil {
		t.Fatal("d alone must not delete")
	}
	if m.confirmDelete != 1 {
		t.Fatalf("confirmDelete = %d, want 1", m.confirmDelete)
	}

	m, cmd = m.Update(keyMsg("y"))
	if cmd == nil {
		t.Error("y should run the delete command")
	}
	if m.confirmDelete != 0 {
		t.Error("confirmation should be cleared after y")
	}
}

func TestLibrary_DeleteAborted(t *testing.T) {
	m := withDocuments(testLibrary(t), "a.pdf")

	m, _ = m.Update(keyMsg("d"))
	m, cmd := m.Update(keyMsg("n"))

	if cmd != nil {
		t.Error("n must not delete")
	}
	if m.confirmDelete != 0 {
		t.Error("n should clear the pending confirmation")
	}
}

func TestLibrary_OpenEmitsOpenDocument(t *testing.T) {
	m := withDocuments(testLibrary(t), "a.pdf", "b.pdf")
	m.cursor = 1

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should emit a command")
	}

	msg, ok := cmd().(OpenDocumentMsg)
	if !ok {
		t.Fatalf("got %T, want OpenDocumentMsg", cmd())
	}
	if msg.DocID != 2 {
		t.Errorf("DocID = %d, want 2", msg.DocID)
	}
}

func TestLibrary_Downloaded(t *testing.T) {
	m := withDocuments(testLibrary(t), "a.pdf")

	m, _ = m.Update(DownloadedMsg{Path: "a.pdf"})
	if m.lastSaved != "a.pdf" {
		t.Errorf("lastSaved = %q, want %q", m.lastSaved, "a.pdf")
	}

	m, _ = m.Update(DownloadedMsg{Err: errors.New("disk full")})
	if m.lastError == nil {
		t.Error("download failure should be surfaced")
	}
}

func TestLibrary_DeletedRefetches(t *testing.T) {
	m := withDocuments(testLibrary(t), "a.pdf")

	_, cmd := m.Update(DeletedMsg{DocID: 1})
	if cmd == nil {
		t.Error("a successful delete should refetch the listing")
	}
}

// =============================================================================
// VIEWER
// =============================================================================

func page(n int) *int { return &n }

func TestViewer_DocumentOpened(t *testing.T) {
	m := NewViewer(styles.NewTheme())
	m.SetSize(60, 20)

	m, _ = m.Update(DocumentOpenedMsg{
		Document: api.Document{ID: 1, Filename: "report.pdf"},
		Chunks: []api.Chunk{
			{ID: "c1", TextPreview: "first chunk", Page: page(1)},
			{ID: "c2", TextPreview: "second chunk", Page: page(2)},
		},
	})

	if m.Document().Filename != "report.pdf" {
		t.Errorf("Filename = %q, want %q", m.Document().Filename, "report.pdf")
	}
	if len(m.chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(m.chunks))
	}
}

func TestViewer_HighlightScrollsIntoView(t *testing.T) {
	m := NewViewer(styles.NewTheme())
	m.SetSize(60, 8)

	chunks := make([]api.Chunk, 20)
	for i := range chunks {
		chunks[i] = api.Chunk{ID: "c" + string(rune('a'+i)), TextPreview: "chunk body"}
	}

	m, _ = m.Update(DocumentOpenedMsg{
		Document:       api.Document{ID: 1, Filename: "big.pdf"},
		Chunks:         chunks,
		HighlightChunk: chunks[15].ID,
	})

	if m.viewport.YOffset == 0 {
		t.Error("highlighted chunk near the end should scroll the viewport down")
	}
}

func TestViewer_BackEmitsClosed(t *testing.T) {
	m := NewViewer(styles.NewTheme())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should emit a command")
	}
	if _, ok := cmd().(ClosedViewerMsg); !ok {
		t.Fatalf("got %T, want ClosedViewerMsg", cmd())
	}
}

func TestViewer_OpenError(t *testing.T) {
	m := NewViewer(styles.NewTheme())
	m.SetSize(60, 20)

	m, _ = m.Update(DocumentOpenedMsg{Err: errors.New("boom")})

	if m.lastError == nil {
		t.Error("open failure should be surfaced")
	}
}

// =============================================================================
// UPLOAD
// =============================================================================

func TestUpload_SubmitEmptyIgnored(t *testing.T) {
	m := NewUpload(api.NewClient(), styles.NewTheme())
	m.SetSize(60, 20)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("submitting an empty path list should do nothing")
	}
	if m.Uploading() {
		t.Error("empty submit must not start an upload")
	}
}

func TestUpload_SubmitStartsUpload(t *testing.T) {
	m := NewUpload(api.NewClient(), styles.NewTheme())
	m.SetSize(60, 20)
	m.input.SetValue("no-such-file.pdf")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("submit should start the upload command")
	}
	if !m.Uploading() {
		t.Error("submit should mark the view as uploading")
	}
	if m.input.Value() != "" {
		t.Error("submit should clear the input")
	}
}

func TestUpload_SubmitWhileUploadingIgnored(t *testing.T) {
	m := NewUpload(api.NewClient(), styles.NewTheme())
	m.uploading = true
	m.input.SetValue("a.pdf")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("a second submit during an upload must be ignored")
	}
}

func TestUpload_Done(t *testing.T) {
	m := NewUpload(api.NewClient(), styles.NewTheme())
	m.uploading = true
	m.progress = []string{"a.pdf"}

	m, _ = m.Update(UploadDoneMsg{Result: &api.UploadResult{
		Success: []api.Document{{ID: 1, Filename: "a.pdf"}},
		Errors:  []api.UploadError{},
	}})

	if m.Uploading() {
		t.Error("done should clear the uploading flag")
	}
	if m.lastResult == nil || len(m.lastResult.Success) != 1 {
		t.Error("done should record the merged result")
	}
}

func TestExpandPaths(t *testing.T) {
	paths := expandPaths("  a.pdf   b.md ")
	if len(paths) != 2 || paths[0] != "a.pdf" || paths[1] != "b.md" {
		t.Errorf("expandPaths = %v, want [a.pdf b.md]", paths)
	}

	if got := expandPaths("   "); got != nil {
		t.Errorf("expandPaths(blank) = %v, want nil", got)
	}
}

func TestViewer_CodeChunksHighlighted(t *testing.T) {
	m := NewViewer(styles.NewTheme())
	m.SetSize(80, 20)

	m, _ = m.Update(DocumentOpenedMsg{
		Document: api.Document{ID: 1, Filename: "main.go"},
		Chunks:   []api.Chunk{{ID: "c1", TextPreview: "package main"}},
	})

	if !strings.Contains(m.viewport.View(), "\x1b[") {
		t.Error("code chunks should carry syntax highlighting escapes")
	}
}
