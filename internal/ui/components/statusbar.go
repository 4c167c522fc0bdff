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
// STATUS BAR
// =============================================================================

// Shortcut is one key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom status line: backend health on the left,
// key hints on the right.
type StatusBar struct {
	Width     int
	Healthy   bool
	Message   string
	Shortcuts []Shortcut
}

// Render renders the status bar for the given width.
func (s StatusBar) Render(theme *styles.Theme) string {
	var left string
	if s.Healthy {
		left = theme.StatusHealthy.Render("● backend")
	} else {
		left = theme.StatusDown.Render("○ backend")
	}
	if s.Message != "" {
		left += "  " + theme.ShortcutDesc.Render(s.Message)
	}

	var hints []string
	for _, sc := range s.Shortcuts {
		hints = append(hints, theme.ShortcutKey.Render(sc.Key)+" "+theme.ShortcutDesc.Render(sc.Desc))
	}
	right := strings.Join(hints, "  ")

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return theme.StatusBar.Width(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}
