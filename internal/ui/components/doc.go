// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides shared UI components for the docsage TUI:
// the tabbed header, the status bar, toast notifications, markdown and
// code block rendering, and small formatting helpers used across views.
package components
