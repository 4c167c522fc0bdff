// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides shared UI components for the docsage TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/docsage/docsage-tui/internal/ui/styles"
)

// =============================================================================
// HEADER
// =============================================================================

// Header renders the application header with the view tabs.
type Header struct {
	Title string
	Tabs  []string
	Width int
}

// NewHeader creates a header with the given tab labels.
func NewHeader(title string, tabs []string) Header {
	return Header{Title: title, Tabs: tabs}
}

// Render renders the header line with the active tab highlighted.
func (h Header) Render(theme *styles.Theme, active int) string {
	title := theme.HeaderTitle.Render(h.Title)

	var tabs []string
	for i, label := range h.Tabs {
		if i == active {
			tabs = append(tabs, theme.TabActive.Render(label))
		} else {
			tabs = append(tabs, theme.Tab.Render(label))
		}
	}

	line := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", strings.Join(tabs, " "))
	if h.Width > 0 {
		line = lipgloss.NewStyle().Width(h.Width).Background(styles.SurfaceDim).Render(line)
	}
	return line
}
