// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive REPL command handler.
//
// Handles "docsage chat": a readline-style loop with input history,
// streamed answers, and slash commands for session management.
//
// Slash commands:
//
//	/new        Start a fresh conversation
//	/sessions   List saved conversations
//	/load ID    Resume a conversation
//	/sources    Show the sources of the last answer
//	/export     Write the conversation to a Markdown file
//	/help       Show slash command help
//	/quit       Exit
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/peterh/liner"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/config"
	"github.com/docsage/docsage-tui/internal/export"
	"github.com/docsage/docsage-tui/internal/model"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for the REPL.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with persistent input history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line with history navigation.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// CHAT SESSION
// =============================================================================

type chatSession struct {
	client      *api.Client
	input       *ChatCLI
	sessionID   string
	lastSources []api.Source
	quiet       bool
	cancel      context.CancelFunc
}

// HandleChat runs the interactive chat REPL.
func HandleChat(args Args) {
	client, _ := NewAPIClient(args)

	session := &chatSession{
		client:    client,
		input:     NewChatCLI(),
		sessionID: uuid.NewString(),
		quiet:     args.Quiet,
	}
	defer session.input.Close()

	if err := client.Health(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n",
			WarningStyle.Render("Warning:"),
			"backend is not reachable; answers will fail until it comes up.")
	}

	if !session.quiet {
		fmt.Println(TitleStyle.Render("docsage chat"))
		fmt.Println(MetaStyle.Render("Ask about your documents. /help for commands, /quit to exit."))
		fmt.Println()
	}

	// First Ctrl+C cancels the in-flight answer instead of exiting.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		for range sigChan {
			if session.cancel != nil {
				session.cancel()
				session.cancel = nil
				fmt.Fprintln(os.Stderr, "\n"+WarningStyle.Render("[Cancelled]"))
			}
		}
	}()

	for {
		input, err := session.input.ReadInput(PromptStyle.Render("docsage> "))
		if err != nil {
			// liner.ErrPromptAborted (Ctrl+C) or EOF (Ctrl+D)
			fmt.Println()
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if !session.handleSlashCommand(input) {
				return
			}
			continue
		}

		session.ask(input)
	}
}

func (s *chatSession) ask(query string) {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	defer func() {
		cancel()
		s.cancel = nil
	}()

	acc := api.NewStreamAccumulator()
	err := s.client.QueryStream(ctx, s.sessionID, query, func(event api.StreamEvent) {
		acc.Add(event)
		fmt.Print(event.Token)
	})
	fmt.Println()

	if err != nil {
		if ctx.Err() == context.Canceled {
			return
		}
		fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), friendlyError(err))
		return
	}

	s.lastSources = acc.Sources()
	if !s.quiet && len(s.lastSources) > 0 {
		fmt.Println(MetaStyle.Render(fmt.Sprintf("[%d sources, /sources to list]", len(s.lastSources))))
	}
	fmt.Println()
}

// handleSlashCommand returns false when the REPL should exit.
func (s *chatSession) handleSlashCommand(input string) bool {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "/quit", "/exit", "/q":
		return false

	case "/new":
		s.sessionID = uuid.NewString()
		s.lastSources = nil
		fmt.Println(SuccessStyle.Render("Started a new conversation."))

	case "/sessions", "/list":
		s.listSessions()

	case "/load":
		if len(fields) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: /load SESSION_ID")
			return true
		}
		s.loadSession(fields[1])

	case "/sources":
		if len(s.lastSources) == 0 {
			fmt.Println(MetaStyle.Render("No sources yet."))
			return true
		}
		printSources(s.lastSources)
		fmt.Println()

	case "/export":
		s.exportConversation()

	case "/help", "/?":
		fmt.Println("  /new        Start a fresh conversation")
		fmt.Println("  /sessions   List saved conversations")
		fmt.Println("  /load ID    Resume a conversation")
		fmt.Println("  /sources    Show the sources of the last answer")
		fmt.Println("  /export     Write the conversation to a Markdown file")
		fmt.Println("  /quit       Exit")

	default:
		fmt.Fprintf(os.Stderr, "Unknown command %s (try /help)\n", cmd)
	}
	return true
}

func (s *chatSession) exportConversation() {
	history, err := s.client.History(context.Background(), s.sessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), friendlyError(err))
		return
	}
	if len(history) == 0 {
		fmt.Println(MetaStyle.Render("Nothing to export yet."))
		return
	}

	conv := model.NewConversation()
	conv.LoadConversation(s.sessionID, history)

	path, err := export.ExportMarkdown(conv, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("Error:"), err)
		return
	}
	fmt.Println(SuccessStyle.Render("Wrote " + path))
}

func (s *chatSession) listSessions() {
	sessions, err := s.client.ListSessions(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), friendlyError(err))
		return
	}
	if len(sessions) == 0 {
		fmt.Println(MetaStyle.Render("No saved conversations."))
		return
	}
	for _, info := range sessions {
		marker := "  "
		if info.SessionID == s.sessionID {
			marker = "* "
		}
		fmt.Printf("%s%s  %s\n", marker, info.SessionID, info.Title)
	}
}

func (s *chatSession) loadSession(sessionID string) {
	history, err := s.client.History(context.Background(), sessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), friendlyError(err))
		return
	}

	s.sessionID = sessionID
	s.lastSources = nil
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("Resumed conversation (%d messages).", len(history))))

	if !s.quiet {
		for _, msg := range history {
			label := "You"
			if msg.Role == "bot" {
				label = "Docsage"
			}
			fmt.Printf("%s: %s\n", LabelStyle.Width(0).Render(label), msg.Text)
		}
		fmt.Println()
	}
}
