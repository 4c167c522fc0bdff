// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the docsage TUI.
//
// The theme is built on Lip Gloss adaptive colors so every style works on
// both light and dark terminals, degrading gracefully on terminals without
// true color support (detected via termenv).
package styles
