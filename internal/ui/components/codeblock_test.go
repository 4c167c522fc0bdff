// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides shared UI components for the docsage TUI.
package components

import (
	"strings"
	"testing"
)

func TestCodeBlock_Render(t *testing.T) {
	block := NewCodeBlock("go", "package main\n\nfunc main() {}\n")
	out := block.Render()

	if out == "" {
		t.Fatal("Render() returned nothing")
	}
	if !strings.Contains(out, "go") {
		t.Error("rendered block should include the language header")
	}
	if !strings.Contains(out, "3") {
		t.Error("rendered block should include line numbers")
	}
}

func TestCodeBlock_RenderUnknownLanguage(t *testing.T) {
	block := NewCodeBlock("", "just some words")
	if block.Render() == "" {
		t.Error("unknown language should still render the text")
	}
}

func TestHighlightSnippet(t *testing.T) {
	out := HighlightSnippet("SELECT * FROM sessions", "sql")
	if out == "" {
		t.Fatal("HighlightSnippet() returned nothing")
	}
	if !strings.Contains(out, "sessions") {
		t.Errorf("output %q lost the snippet text", out)
	}
}

func TestLanguageForFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"main.go", "go"},
		{"script.PY", "python"},
		{"schema.sql", "sql"},
		{"report.pdf", ""},
		{"notes.md", ""},
	}
	for _, tt := range tests {
		if got := LanguageForFilename(tt.filename); got != tt.want {
			t.Errorf("LanguageForFilename(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
