// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions_cmd.go - Conversation management command handlers.
//
// Handles "docsage sessions" subcommands:
//
//	list                 List saved conversations (default)
//	show ID              Print a conversation transcript
//	export ID [FORMAT]   Write a transcript to a file (md or json)
//	delete ID            Delete a conversation
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/export"
	"github.com/docsage/docsage-tui/internal/model"
)

// HandleSessions routes the sessions subcommands.
func HandleSessions(args Args) {
	client, _ := NewAPIClient(args)
	ctx := context.Background()

	switch args.Subcommand {
	case "", "list", "ls":
		sessionsList(ctx, client, args)
	case "show", "history":
		sessionsShow(ctx, client, args)
	case "export":
		sessionsExport(ctx, client, args)
	case "delete", "rm":
		sessionsDelete(ctx, client, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown sessions subcommand %q\n", args.Subcommand)
		fmt.Fprintln(os.Stderr, "Usage: docsage sessions [list|show|export|delete]")
		os.Exit(1)
	}
}

func sessionsList(ctx context.Context, client *api.Client, args Args) {
	sessions, err := client.ListSessions(ctx)
	if err != nil {
		exitErr(err)
	}

	if args.JSON {
		out, _ := json.MarshalIndent(sessions, "", "  ")
		fmt.Println(string(out))
		return
	}

	if len(sessions) == 0 {
		fmt.Println(MetaStyle.Render("No saved conversations."))
		return
	}

	fmt.Println(TitleStyle.Render("Conversations"))
	for _, info := range sessions {
		fmt.Printf("  %s  %s\n", info.SessionID, info.Title)
	}
}

func sessionsShow(ctx context.Context, client *api.Client, args Args) {
	if len(args.Raw) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: docsage sessions show SESSION_ID")
		os.Exit(1)
	}

	history, err := client.History(ctx, args.Raw[0])
	if err != nil {
		exitErr(err)
	}

	if args.JSON {
		out, _ := json.MarshalIndent(history, "", "  ")
		fmt.Println(string(out))
		return
	}

	for _, msg := range history {
		label := "You"
		style := PromptStyle
		if msg.Role == "bot" {
			label = "Docsage"
			style = SuccessStyle
		}
		fmt.Printf("%s %s\n\n", style.Render(label+":"), msg.Text)
		if len(msg.Sources) > 0 && !args.Quiet {
			printSources(msg.Sources)
			fmt.Println()
		}
	}
}

func sessionsExport(ctx context.Context, client *api.Client, args Args) {
	if len(args.Raw) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: docsage sessions export SESSION_ID [md|json]")
		os.Exit(1)
	}
	sessionID := args.Raw[0]

	format := "md"
	if len(args.Raw) > 1 {
		format = args.Raw[1]
	}

	history, err := client.History(ctx, sessionID)
	if err != nil {
		exitErr(err)
	}

	conv := model.NewConversation()
	conv.LoadConversation(sessionID, history)

	var path string
	switch format {
	case "md", "markdown":
		path, err = export.ExportMarkdown(conv, nil)
	case "json":
		path, err = export.ExportJSON(conv, nil)
	default:
		fmt.Fprintf(os.Stderr, "Unknown format %q (want md or json)\n", format)
		os.Exit(1)
	}
	if err != nil {
		exitErr(err)
	}
	fmt.Printf("%s wrote %s\n", SuccessStyle.Render("✓"), path)
}

func sessionsDelete(ctx context.Context, client *api.Client, args Args) {
	if len(args.Raw) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: docsage sessions delete SESSION_ID")
		os.Exit(1)
	}

	if err := client.DeleteSession(ctx, args.Raw[0]); err != nil {
		exitErr(err)
	}
	fmt.Printf("%s deleted conversation %s\n", SuccessStyle.Render("✓"), args.Raw[0])
}
