// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sessions provides the conversation history panel for the docsage TUI.
//
// The panel lists persisted sessions, refetching whenever the chat view's
// refresh counter changes. Fetched lists and transcripts are written to the
// local transcript cache so the panel still works when the backend is down.
package sessions

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/cache"
	"github.com/docsage/docsage-tui/internal/ui/chat"
	"github.com/docsage/docsage-tui/internal/ui/styles"
)

const fetchTimeout = 10 * time.Second

// =============================================================================
// MESSAGES
// =============================================================================

// FetchedMsg delivers the session list, from the backend or the cache.
type FetchedMsg struct {
	Sessions  []api.SessionInfo
	FromCache bool
	Err       error
}

// DeletedMsg reports the outcome of a session delete.
type DeletedMsg struct {
	SessionID string
	Err       error
}

// =============================================================================
// KEY MAP
// =============================================================================

// KeyMap defines the keyboard bindings for the history panel.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Delete  key.Binding
	Confirm key.Binding
	Abort   key.Binding
	Refresh key.Binding
}

// DefaultKeyMap returns the default key bindings for the history panel.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "open")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
		Abort:   key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/Esc", "cancel")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the history panel.
type Model struct {
	theme *styles.Theme

	width  int
	height int

	client *api.Client
	cache  *cache.TranscriptCache

	sessions  []api.SessionInfo
	cursor    int
	offline   bool
	lastError error

	// confirmDelete holds the session awaiting delete confirmation,
	// empty when no confirmation is pending.
	confirmDelete string

	// lastTrigger is the refresh counter value the list was fetched at.
	lastTrigger int

	keyMap KeyMap
}

// New creates a history panel. The cache may be nil, which disables the
// offline fallback.
func New(client *api.Client, transcripts *cache.TranscriptCache, theme *styles.Theme) Model {
	return Model{
		theme:  theme,
		client: client,
		cache:  transcripts,
		keyMap: DefaultKeyMap(),
	}
}

// Init fetches the session list on startup.
func (m Model) Init() tea.Cmd {
	return m.fetchCmd()
}

// SetSize updates the layout dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Sessions exposes the current list to the app root and tests.
func (m Model) Sessions() []api.SessionInfo {
	return m.sessions
}

// Offline reports whether the list came from the local cache.
func (m Model) Offline() bool {
	return m.offline
}

// =============================================================================
// COMMANDS
// =============================================================================

// fetchCmd loads the session list, falling back to the cache when the
// backend is unreachable.
func (m Model) fetchCmd() tea.Cmd {
	client, transcripts := m.client, m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		sessions, err := client.ListSessions(ctx)
		if err == nil {
			if transcripts != nil {
				transcripts.PutSessions(ctx, sessions)
			}
			return FetchedMsg{Sessions: sessions}
		}

		if transcripts != nil && api.IsUnreachable(err) {
			if cached, cacheErr := transcripts.Sessions(ctx); cacheErr == nil {
				return FetchedMsg{Sessions: cached, FromCache: true}
			}
		}
		return FetchedMsg{Err: err}
	}
}

// openCmd fetches one session's transcript for the chat view, caching it
// on the way through.
func (m Model) openCmd(sessionID string) tea.Cmd {
	client, transcripts := m.client, m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		history, err := client.History(ctx, sessionID)
		if err == nil {
			if transcripts != nil {
				transcripts.PutHistory(ctx, sessionID, history)
			}
			return chat.SessionLoadedMsg{SessionID: sessionID, History: history}
		}

		if transcripts != nil && api.IsUnreachable(err) {
			if cached, cacheErr := transcripts.History(ctx, sessionID); cacheErr == nil {
				return chat.SessionLoadedMsg{SessionID: sessionID, History: cached}
			}
		}
		return chat.SessionLoadFailedMsg{SessionID: sessionID, Err: err}
	}
}

// deleteCmd deletes one session on the backend and in the cache.
func (m Model) deleteCmd(sessionID string) tea.Cmd {
	client, transcripts := m.client, m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := client.DeleteSession(ctx, sessionID); err != nil && !api.IsNotFound(err) {
			return DeletedMsg{SessionID: sessionID, Err: err}
		}
		if transcripts != nil {
			transcripts.DeleteSession(ctx, sessionID)
		}
		return DeletedMsg{SessionID: sessionID}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the history panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case chat.HistoryRefreshMsg:
		// Only refetch when the counter actually moved.
		if msg.Trigger != m.lastTrigger {
			m.lastTrigger = msg.Trigger
			return m, m.fetchCmd()
		}
		return m, nil

	case FetchedMsg:
		if msg.Err != nil {
			m.lastError = msg.Err
			return m, nil
		}
		m.sessions = msg.Sessions
		m.offline = msg.FromCache
		m.lastError = nil
		if m.cursor >= len(m.sessions) {
			m.cursor = len(m.sessions) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case DeletedMsg:
		if msg.Err != nil {
			m.lastError = msg.Err
			return m, nil
		}
		return m, m.fetchCmd()
	}

	return m, nil
}

// handleKey processes keyboard input, including the delete confirmation.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.confirmDelete != "" {
		switch {
		case key.Matches(msg, m.keyMap.Confirm):
			id := m.confirmDelete
			m.confirmDelete = ""
			return m, m.deleteCmd(id)
		case key.Matches(msg, m.keyMap.Abort):
			m.confirmDelete = ""
			return m, nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keyMap.Down):
		if m.cursor < len(m.sessions)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keyMap.Open):
		if m.cursor < len(m.sessions) {
			return m, m.openCmd(m.sessions[m.cursor].SessionID)
		}
	case key.Matches(msg, m.keyMap.Delete):
		if m.cursor < len(m.sessions) {
			m.confirmDelete = m.sessions[m.cursor].SessionID
		}
	case key.Matches(msg, m.keyMap.Refresh):
		return m, m.fetchCmd()
	}
	return m, nil
}
