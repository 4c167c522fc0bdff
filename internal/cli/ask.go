// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command handler.
//
// Handles "docsage ask", which sends one question to the backend and
// streams the answer to stdout.
//
// Examples:
//
//	docsage ask "What does the warranty cover?"
//	docsage ask --json "Summarize chapter 3"
//	docsage ask --top-k 8 "Which clause limits liability?"
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"

	"github.com/docsage/docsage-tui/internal/api"
)

// HandleAsk sends a single question and prints the streamed answer.
func HandleAsk(args Args) {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		fmt.Fprintln(os.Stderr, "Usage: docsage ask \"question\"")
		os.Exit(1)
	}

	client, _ := NewAPIClient(args)
	ctx := context.Background()
	sessionID := uuid.NewString()

	if args.JSON {
		askJSON(ctx, client, sessionID, query)
		return
	}

	acc := api.NewStreamAccumulator()
	renderPretty := IsStdoutTTY() && !args.Quiet

	err := client.QueryStream(ctx, sessionID, query, func(event api.StreamEvent) {
		acc.Add(event)
		if !renderPretty {
			fmt.Print(event.Token)
		}
	})
	if err != nil {
		exitErr(err)
	}

	if !renderPretty {
		fmt.Println()
		return
	}

	fmt.Println(renderMarkdown(acc.Text()))
	printSources(acc.Sources())
}

// askJSON uses the non-streaming endpoint and emits the raw response.
func askJSON(ctx context.Context, client *api.Client, sessionID, query string) {
	resp, err := client.Query(ctx, sessionID, query)
	if err != nil {
		exitErr(err)
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		exitErr(err)
	}
	fmt.Println(string(out))
}

// renderMarkdown renders an answer with glamour, falling back to plain
// text when the renderer cannot be built.
func renderMarkdown(text string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()),
	)
	if err != nil {
		return text
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}
