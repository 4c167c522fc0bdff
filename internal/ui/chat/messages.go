// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the docsage TUI.
//
// This file defines the Bubble Tea message types used by the chat view.
// Stream messages carry the session ID of the turn that produced them so
// the Update function can discard events that outlive their session.
package chat

import (
	"github.com/docsage/docsage-tui/internal/api"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamSourcesMsg delivers the sources payload that starts a bot answer.
type StreamSourcesMsg struct {
	SessionID string
	Sources   []api.Source
}

// StreamTokenMsg delivers an incremental answer fragment.
type StreamTokenMsg struct {
	SessionID string
	Token     string
}

// StreamDoneMsg signals that the stream terminated. Err is nil on a clean
// end of stream; a transport or backend failure sets it.
type StreamDoneMsg struct {
	SessionID string
	Err       error
}

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// SessionLoadedMsg replaces the live conversation with a persisted session.
// Emitted by the history panel after fetching the session's messages.
type SessionLoadedMsg struct {
	SessionID string
	History   []api.HistoryMessage
}

// SessionLoadFailedMsg reports that fetching a persisted session failed.
type SessionLoadFailedMsg struct {
	SessionID string
	Err       error
}

// NewChatMsg requests a fresh conversation.
type NewChatMsg struct{}

// =============================================================================
// HISTORY REFRESH
// =============================================================================

// HistoryRefreshMsg announces that the conversation's refresh counter
// changed; the history panel refetches the session list when it sees one.
type HistoryRefreshMsg struct {
	Trigger int
}
