// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides shared UI components for the docsage TUI.
package components

import (
	"strconv"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// FmtNumber formats a number with thousand separators.
func FmtNumber(n int) string {
	if n < 0 {
		return "-" + FmtNumber(-n)
	}

	s := strconv.Itoa(n)
	if n < 1000 {
		return s
	}

	result := ""
	count := 0
	for i := len(s) - 1; i >= 0; i-- {
		if count > 0 && count%3 == 0 {
			result = "," + result
		}
		result = string(s[i]) + result
		count++
	}
	return result
}

// TruncateWidth shortens a string to fit the given display width, appending
// an ellipsis. Width is measured in terminal cells, not bytes, so CJK and
// other wide characters truncate correctly.
func TruncateWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return runewidth.Truncate(s, width-1, "") + "…"
}

// PadWidth pads a string with spaces to the given display width.
func PadWidth(s string, width int) string {
	return runewidth.FillRight(s, width)
}
