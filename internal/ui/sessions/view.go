// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sessions provides the conversation history panel for the docsage TUI.
package sessions

import (
	"strings"

	"github.com/docsage/docsage-tui/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the history panel.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	title := "Conversations"
	if m.offline {
		title += "  " + m.theme.Warning("offline copy")
	}
	b.WriteString(m.theme.PanelTitle.Render(title))
	b.WriteString("\n\n")

	if m.lastError != nil {
		b.WriteString(m.theme.Error("Could not load conversations. Is the backend running?"))
		b.WriteString("\n")
		return b.String()
	}

	if len(m.sessions) == 0 {
		b.WriteString(m.theme.ListMeta.Render("No saved conversations yet."))
		b.WriteString("\n")
		return b.String()
	}

	visible := m.height - 4
	if visible < 1 {
		visible = len(m.sessions)
	}

	for i, s := range m.sessions {
		if i >= visible {
			b.WriteString(m.theme.ListMeta.Render("  …"))
			b.WriteString("\n")
			break
		}

		label := components.TruncateWidth(s.Title, m.width-6)
		if label == "" {
			label = s.SessionID
		}

		if s.SessionID == m.confirmDelete {
			b.WriteString(m.theme.ErrorStyle.Render("  delete \"" + label + "\"? (y/n)"))
		} else if i == m.cursor {
			b.WriteString(m.theme.ListItemSelected.Render("▸ " + label))
		} else {
			b.WriteString(m.theme.ListItem.Render("  " + label))
		}
		b.WriteString("\n")
	}

	return b.String()
}
