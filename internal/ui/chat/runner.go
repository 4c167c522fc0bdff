// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the docsage TUI.
package chat

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docsage/docsage-tui/internal/api"
)

// =============================================================================
// STREAM RUNNER
// =============================================================================

// streamCmd returns a command that runs one streaming query. Decoded events
// are forwarded to the event loop through send as they arrive; the command
// itself resolves to the terminal StreamDoneMsg. Every message carries the
// session ID so stale events can be discarded after a session switch.
func streamCmd(client *api.Client, ctx context.Context, sessionID, query string, send func(tea.Msg)) tea.Cmd {
	return func() tea.Msg {
		err := client.QueryStream(ctx, sessionID, query, func(event api.StreamEvent) {
			if send == nil {
				return
			}
			if event.HasSources() {
				send(StreamSourcesMsg{SessionID: sessionID, Sources: event.Sources})
			}
			if event.Token != "" {
				send(StreamTokenMsg{SessionID: sessionID, Token: event.Token})
			}
		})

		// A cancelled stream was abandoned on purpose; its terminal event
		// would be stale anyway, so report a clean end.
		if errors.Is(err, context.Canceled) {
			err = nil
		}

		return StreamDoneMsg{SessionID: sessionID, Err: err}
	}
}
