// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for docsage.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSessions
	CmdDocs
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Backend string
	TopK    int

	// Command-specific
	Query      string
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `docsage - terminal client for your document QA backend

Docsage talks to a retrieval-augmented document QA server: upload
documents, ask questions about them, and browse answers with source
citations, all from the terminal.

Usage:
  docsage                      Start TUI (default)
  docsage ask "question"       Ask a single question
  docsage chat                 Interactive chat (REPL)
  docsage sessions [subcommand] List, show, or delete conversations
  docsage docs [subcommand]    Manage documents (list, upload, delete)
  docsage status               Show backend status and corpus stats
  docsage config [show|set]    Configuration
  docsage version              Show version information
  docsage help                 Show this help

Global flags:
  --backend URL    Backend API URL (overrides config)
  --top-k N        Chunks retrieved per question (overrides config)
  --json           Output in JSON format
  -q, --quiet      Minimal output
  -v, --verbose    Verbose output

Examples:
  docsage ask "What does the warranty cover?"
  docsage docs upload manual.pdf notes.md
  docsage sessions list
  docsage config set query.top_k 8

Environment:
  DOCSAGE_BACKEND_URL  Backend API URL
  DOCSAGE_TOP_K        Chunks retrieved per question
  NO_COLOR             Disable colored output
`

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsed := parseGlobalFlags(args)

	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "ask":
		parsed.Query = strings.Join(remaining, " ")
		return CmdAsk, parsed

	case "chat":
		return CmdChat, parsed

	case "session", "sessions":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
			parsed.Raw = remaining[1:]
		}
		return CmdSessions, parsed

	case "doc", "docs", "documents":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
			parsed.Raw = remaining[1:]
		}
		return CmdDocs, parsed

	case "status", "s":
		return CmdStatus, parsed

	case "config":
		parseConfigArgs(&parsed, remaining)
		return CmdConfig, parsed

	case "version", "--version", "-V":
		return CmdVersion, parsed

	case "help", "--help", "-h":
		return CmdHelp, parsed

	default:
		// Unrecognized bare word: treat it as a question.
		parsed.Query = strings.Join(append([]string{cmd}, remaining...), " ")
		return CmdAsk, parsed
	}
}

// parseGlobalFlags extracts global flags and returns the remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var parsed Args
	var remaining []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--backend":
			if i+1 < len(args) {
				i++
				parsed.Backend = args[i]
			}
		case "--top-k":
			if i+1 < len(args) {
				i++
				if n, err := strconv.Atoi(args[i]); err == nil && n > 0 {
					parsed.TopK = n
				}
			}
		default:
			remaining = append(remaining, arg)
		}
	}

	return remaining, parsed
}

func parseConfigArgs(parsed *Args, remaining []string) {
	if len(remaining) == 0 {
		parsed.Subcommand = "show"
		return
	}
	parsed.Subcommand = remaining[0]
	if len(remaining) > 1 {
		parsed.ConfigKey = remaining[1]
	}
	if len(remaining) > 2 {
		parsed.ConfigVal = strings.Join(remaining[2:], " ")
	}
}

// HandleHelp prints usage information.
func HandleHelp(_ Args) {
	fmt.Print(usageText)
}

// HandleVersion prints version information.
func HandleVersion(args Args) {
	if args.JSON {
		fmt.Printf("{\"version\":%q,\"commit\":%q,\"built\":%q}\n", Version, GitCommit, BuildDate)
		return
	}
	fmt.Printf("docsage %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
