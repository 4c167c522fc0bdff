// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package sessions

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/ui/chat"
	"github.com/docsage/docsage-tui/internal/ui/styles"
)

func testPanel(t *testing.T) Model {
	t.Helper()

	m := New(api.NewClient(), nil, styles.NewTheme())
	m.SetSize(60, 20)
	return m
}

func withSessions(m Model, titles ...string) Model {
	var sessions []api.SessionInfo
	for i, title := range titles {
		sessions = append(sessions, api.SessionInfo{
			SessionID: "s" + string(rune('1'+i)),
			Title:     title,
		})
	}
	m.sessions = sessions
	return m
}

func TestUpdate_Fetched(t *testing.T) {
	m := testPanel(t)

	m, _ = m.Update(FetchedMsg{Sessions: []api.SessionInfo{
		{SessionID: "s1", Title: "First"},
	}})

	if len(m.Sessions()) != 1 {
		t.Fatalf("got %d sessions, want 1", len(m.Sessions()))
	}
	if m.Offline() {
		t.Error("backend fetch should not mark the panel offline")
	}
}

func TestUpdate_Fetched_FromCache(t *testing.T) {
	m := testPanel(t)

	m, _ = m.Update(FetchedMsg{Sessions: []api.SessionInfo{{SessionID: "s1"}}, FromCache: true})

	if !m.Offline() {
		t.Error("cache fetch should mark the panel offline")
	}
}

func TestUpdate_Fetched_ClampsCursor(t *testing.T) {
	m := withSessions(testPanel(t), "a", "b", "c")
	m.cursor = 2

	m, _ = m.Update(FetchedMsg{Sessions: []api.SessionInfo{{SessionID: "s1", Title: "a"}}})

	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestUpdate_RefreshTrigger(t *testing.T) {
	m := testPanel(t)

	_, cmd := m.Update(chat.HistoryRefreshMsg{Trigger: 1})
	if cmd == nil {
		t.Error("changed trigger should refetch")
	}

	m.lastTrigger = 1
	_, cmd = m.Update(chat.HistoryRefreshMsg{Trigger: 1})
	if cmd != nil {
		t.Error("unchanged trigger should not refetch")
	}
}

func TestHandleKey_Navigation(t *testing.T) {
	m := withSessions(testPanel(t), "a", "b", "c")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}

	// Does not run off the end.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestHandleKey_DeleteRequiresConfirmation(t *testing.T) {
	m := withSessions(testPanel(t), "a", "b")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	if cmd != nil {
		t.Error("delete should not run before confirmation")
	}
	if m.confirmDelete != "s1" {
		t.Errorf("confirmDelete = %q, want 's1'", m.confirmDelete)
	}

	// Abort leaves the list untouched.
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if cmd != nil {
		t.Error("abort should not run a command")
	}
	if m.confirmDelete != "" {
		t.Error("abort should clear the pending confirmation")
	}
}

func TestHandleKey_ConfirmDelete(t *testing.T) {
	m := withSessions(testPanel(t), "a")
	m.confirmDelete = "s1"

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	if cmd == nil {
		t.Error("confirm should run the delete command")
	}
	if m.confirmDelete != "" {
		t.Error("confirm should clear the pending confirmation")
	}
}

func TestUpdate_DeletedRefetches(t *testing.T) {
	m := testPanel(t)

	_, cmd := m.Update(DeletedMsg{SessionID: "s1"})
	if cmd == nil {
		t.Error("successful delete should refetch the list")
	}
}

func TestHandleKey_OpenEmitsLoad(t *testing.T) {
	m := withSessions(testPanel(t), "a")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("open should run the load command")
	}
}
