// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/docsage/docsage-tui/internal/model"
)

// MarkdownExporter renders a conversation as a Markdown document.
type MarkdownExporter struct {
	opts *Options
}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{opts: opts}
}

// Export renders the conversation.
func (e *MarkdownExporter) Export(conv *model.Conversation) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# " + conv.Title() + "\n\n")
	b.WriteString(fmt.Sprintf("*Session %s, started %s*\n\n",
		conv.SessionID, formatTimestamp(conv.CreatedAt)))
	b.WriteString("---\n\n")

	for _, msg := range conv.Messages {
		header := "**" + msg.Role.DisplayName() + "**"
		if e.opts.IncludeTimestamps && !msg.Timestamp.IsZero() {
			header += " · " + formatTimestamp(msg.Timestamp)
		}
		b.WriteString(header + "\n\n")

		if msg.IsError {
			b.WriteString("> " + msg.Text + "\n\n")
			continue
		}
		b.WriteString(msg.Text + "\n\n")

		if e.opts.IncludeSources && len(msg.Sources) > 0 {
			b.WriteString("Sources:\n")
			for _, src := range msg.Sources {
				line := "- " + src.Filename
				if src.Page != nil {
					line += fmt.Sprintf(" (p. %d)", *src.Page)
				}
				b.WriteString(line + "\n")
			}
			b.WriteString("\n")
		}
	}

	return []byte(b.String()), nil
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}
