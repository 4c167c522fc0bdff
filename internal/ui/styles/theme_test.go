// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the docsage TUI.
package styles

import (
	"strings"
	"testing"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()

	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}
}

func TestNewThemeForMode(t *testing.T) {
	if theme := NewThemeForMode("dark"); !theme.IsDark {
		t.Error(`NewThemeForMode("dark").IsDark = false, want true`)
	}
	if theme := NewThemeForMode("light"); theme.IsDark {
		t.Error(`NewThemeForMode("light").IsDark = true, want false`)
	}
}

func TestTheme_SetModeRestyles(t *testing.T) {
	theme := NewThemeForMode("light")

	theme.SetMode("dark")
	if !theme.IsDark {
		t.Error("SetMode(dark) should flip IsDark on a live theme")
	}
}

func TestTheme_StatusIndicators(t *testing.T) {
	theme := NewTheme()

	tests := []struct {
		name   string
		render func(string) string
		symbol string
	}{
		{"success", theme.Success, "✓"},
		{"error", theme.Error, "✗"},
		{"warning", theme.Warning, "⚠"},
		{"info", theme.Info, "ℹ"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := tc.render("message")
			if !strings.Contains(out, tc.symbol) {
				t.Errorf("output %q missing indicator %q", out, tc.symbol)
			}
			if !strings.Contains(out, "message") {
				t.Errorf("output %q missing text", out)
			}
		})
	}
}
