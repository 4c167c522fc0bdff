// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI command surface of docsage: one-shot
// questions, an interactive REPL, and document, session, status, and
// configuration management from scripts or the shell.
//
// Output respects TTY detection: colored, markdown-rendered answers on a
// terminal, plain text when piped, and JSON with --json.
package cli
