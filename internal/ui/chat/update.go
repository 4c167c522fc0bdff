// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the docsage TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docsage/docsage-tui/internal/api"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the chat view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamSourcesMsg:
		return m.handleStreamSources(msg)

	case StreamTokenMsg:
		return m.handleStreamToken(msg)

	case StreamDoneMsg:
		return m.handleStreamDone(msg)

	case SessionLoadedMsg:
		return m.handleSessionLoaded(msg)

	case SessionLoadFailedMsg:
		m.conversation.AddErrorMessage("Could not load that conversation. Is the backend running?")
		m.refreshViewport(true)
		return m, nil

	case NewChatMsg:
		return m.startNewChat()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.Cancel):
		if m.state == StateStreaming && m.cancelStream != nil {
			m.cancelStream()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.NewChat):
		return m.startNewChat()

	case key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down),
		key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// SUBMIT
// =============================================================================

// submit sends the current input as a query and starts the answer stream.
func (m Model) submit() (Model, tea.Cmd) {
	query := strings.TrimSpace(m.input.Value())
	if query == "" || m.state == StateStreaming {
		return m, nil
	}

	m.input.Reset()
	m.conversation.AddUserMessage(query)
	m.conversation.StartLoading()
	m.state = StateStreaming
	m.sourcesSeen = false
	m.refreshViewport(true)

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelStream = cancel

	return m, tea.Batch(
		m.spinner.Tick,
		streamCmd(m.client, ctx, m.conversation.SessionID, query, m.send),
	)
}

// =============================================================================
// STREAM EVENT HANDLERS
// =============================================================================

// isStale reports whether a stream event belongs to a session that is no
// longer live. Events from an abandoned session must not touch the store.
func (m Model) isStale(sessionID string) bool {
	return sessionID != m.conversation.SessionID
}

// handleStreamSources applies a sources event: at most once per turn it
// clears the loading indicator and opens the bot answer.
func (m Model) handleStreamSources(msg StreamSourcesMsg) (Model, tea.Cmd) {
	if m.isStale(msg.SessionID) || m.sourcesSeen {
		return m, nil
	}
	m.sourcesSeen = true
	m.conversation.BeginBotAnswer(msg.Sources)
	m.refreshViewport(true)
	return m, nil
}

// handleStreamToken appends an answer fragment. The store synthesizes the
// bot message if the sources event has not arrived yet.
func (m Model) handleStreamToken(msg StreamTokenMsg) (Model, tea.Cmd) {
	if m.isStale(msg.SessionID) {
		return m, nil
	}
	if !m.sourcesSeen {
		// Token raced ahead of the sources event: the synthesized answer
		// counts as the turn's one bot message.
		m.sourcesSeen = true
	}
	m.conversation.AppendToLast(msg.Token)
	m.refreshViewport(false)
	return m, nil
}

// handleStreamDone finishes the turn: on failure it appends one synthetic
// error message — even when part of the answer already arrived — and in
// every case it fires the history refresh exactly once and returns the
// view to the ready state.
func (m Model) handleStreamDone(msg StreamDoneMsg) (Model, tea.Cmd) {
	if m.isStale(msg.SessionID) {
		return m, nil
	}

	if msg.Err != nil {
		m.conversation.AddErrorMessage(errorText(msg.Err))
	}
	m.conversation.StopLoading()
	m.conversation.TriggerHistoryRefresh()
	m.state = StateReady
	m.sourcesSeen = false
	m.cancelStream = nil
	m.refreshViewport(true)

	return m, func() tea.Msg {
		return HistoryRefreshMsg{Trigger: m.conversation.HistoryRefreshTrigger}
	}
}

// errorText maps a stream failure to the message shown in the transcript.
// Mid-stream cancellation surfaces the raw context error, so both forms
// map to the same note.
func errorText(err error) string {
	switch {
	case api.IsCanceled(err), errors.Is(err, context.Canceled):
		return "Answer cancelled."
	case api.IsUnreachable(err):
		return "Sorry, I couldn't reach the backend. Please check that it is running and try again."
	case api.IsTimeout(err):
		return "Sorry, the request timed out. Please try again."
	default:
		return "Sorry, something went wrong while answering: " + err.Error()
	}
}

// =============================================================================
// SESSION MANAGEMENT
// =============================================================================

// startNewChat abandons any in-flight stream and resets to a fresh session.
func (m Model) startNewChat() (Model, tea.Cmd) {
	if m.cancelStream != nil {
		m.cancelStream()
		m.cancelStream = nil
	}
	m.conversation.StartNewChat()
	m.state = StateReady
	m.sourcesSeen = false
	m.refreshViewport(true)
	return m, nil
}

// handleSessionLoaded swaps in a persisted session fetched by the history
// panel. Any in-flight stream belongs to the old session and is cancelled;
// its remaining events fail the staleness check.
func (m Model) handleSessionLoaded(msg SessionLoadedMsg) (Model, tea.Cmd) {
	if m.cancelStream != nil {
		m.cancelStream()
		m.cancelStream = nil
	}
	m.conversation.LoadConversation(msg.SessionID, msg.History)
	m.state = StateReady
	m.sourcesSeen = false
	m.refreshViewport(true)
	return m, nil
}
