// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the docsage TUI.
package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/docsage/docsage-tui/internal/model"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the chat view: transcript viewport on top, input below.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	transcript := m.viewport.View()
	input := m.renderInput()

	return lipgloss.JoinVertical(lipgloss.Left, transcript, input)
}

// renderInput renders the input line, showing the spinner while waiting.
func (m Model) renderInput() string {
	var prompt string
	if m.conversation.IsLoading {
		prompt = m.spinner.View() + " " + m.theme.ThinkingText.Render("searching documents...")
	} else {
		prompt = m.theme.InputPrompt.Render("> ") + m.input.View()
	}

	return m.theme.InputContainer.Width(m.width).Render(prompt)
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// refreshViewport re-renders the transcript into the viewport. goToBottom
// forces a scroll to the end; token appends only follow the stream when the
// user is already at the bottom, so scrollback stays put while reading.
func (m *Model) refreshViewport(goToBottom bool) {
	atBottom := m.viewport.AtBottom()

	var blocks []string
	for _, msg := range m.conversation.Messages {
		blocks = append(blocks, m.renderMessage(msg))
	}
	m.viewport.SetContent(strings.Join(blocks, "\n"))

	if goToBottom || atBottom {
		m.viewport.GotoBottom()
	}
}

// renderMessage renders one transcript message as a styled bubble.
func (m Model) renderMessage(msg model.Message) string {
	if m.compact {
		return m.renderMessageCompact(msg)
	}

	label := m.theme.ListMeta.Render(msg.Role.DisplayName())

	switch {
	case msg.IsError:
		return label + "\n" + m.theme.ErrorBubble.Render(msg.Text)

	case msg.Role == model.RoleUser:
		return label + "\n" + m.theme.UserBubble.Render(msg.Text)

	default:
		body := m.renderer.Render(msg.Text)
		if msg.Text == "" {
			body = m.theme.ThinkingText.Render("...")
		}
		bubble := m.theme.BotBubble.Render(body)
		if sources := m.renderSources(msg); sources != "" {
			bubble += "\n" + sources
		}
		return label + "\n" + bubble
	}
}

// renderMessageCompact renders a message without bubble borders or
// margins, for small terminals.
func (m Model) renderMessageCompact(msg model.Message) string {
	label := m.theme.ListMeta.Render(msg.Role.DisplayName())

	switch {
	case msg.IsError:
		return label + "\n" + m.theme.ErrorStyle.Render(msg.Text)

	case msg.Role == model.RoleUser:
		return label + "\n" + msg.Text

	default:
		body := m.renderer.Render(msg.Text)
		if msg.Text == "" {
			body = m.theme.ThinkingText.Render("...")
		}
		out := label + "\n" + body
		if sources := m.renderSources(msg); sources != "" {
			out += "\n" + sources
		}
		return out
	}
}

// renderSources renders the citation line under a bot answer. Returns ""
// when citations are disabled in the config.
func (m Model) renderSources(msg model.Message) string {
	if !m.showSources || !msg.HasSources() {
		return ""
	}

	var tags []string
	for _, src := range msg.Sources {
		tag := src.Filename
		if src.Page != nil {
			tag += " p." + strconv.Itoa(*src.Page)
		}
		tags = append(tags, tag)
	}
	return m.theme.SourceTag.Render("  sources: " + strings.Join(tags, ", "))
}
