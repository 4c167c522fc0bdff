// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the docsage TUI.
//
// The view owns the live conversation and the stream ingestion pipeline.
// A streaming answer runs in a background goroutine that forwards decoded
// events to the Bubble Tea loop as messages tagged with the session they
// belong to; the Update function applies them to the conversation in
// arrival order and discards events from a session that is no longer
// live (the user started a new chat or loaded another session mid-stream).
package chat
