// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/model"
)

func page(n int) *int { return &n }

func testConversation() *model.Conversation {
	conv := model.NewConversation()
	conv.AddUserMessage("What does the warranty cover?")
	conv.BeginBotAnswer([]api.Source{{Filename: "warranty.pdf", Page: page(3)}})
	conv.AppendToLast("Parts and labor for two years.")
	return conv
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(testConversation())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	text := string(out)
	for _, want := range []string{
		"What does the warranty cover?",
		"Parts and labor for two years.",
		"warranty.pdf",
		"(p. 3)",
		"**You**",
		"**Docsage**",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("markdown missing %q:\n%s", want, text)
		}
	}
}

func TestMarkdownExport_NoSources(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeSources = false

	out, err := NewMarkdownExporter(opts).Export(testConversation())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if strings.Contains(string(out), "warranty.pdf") {
		t.Error("sources should be omitted when IncludeSources is false")
	}
}

func TestJSONExport_RoundTrips(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(testConversation())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var decoded model.Conversation
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded.Messages) != 2 {
		t.Errorf("got %d messages, want 2", len(decoded.Messages))
	}
}

func TestExportToFile(t *testing.T) {
	opts := DefaultOptions()
	opts.OutputDir = t.TempDir()

	path, err := ExportMarkdown(testConversation(), opts)
	if err != nil {
		t.Fatalf("ExportMarkdown: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "warranty.pdf") {
		t.Error("exported file missing conversation content")
	}
	if !strings.HasSuffix(path, ".md") {
		t.Errorf("path = %q, want .md suffix", path)
	}
	if !strings.Contains(path, "what_does_the_warranty") {
		t.Errorf("path = %q, want sanitized title in filename", path)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"What does the warranty cover?", "what_does_the_warranty_cover"},
		{"", "untitled"},
		{"///???", "untitled"},
		{"Mixed CASE 123", "mixed_case_123"},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
