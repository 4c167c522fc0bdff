// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides shared UI components for the docsage TUI.
//
// Toasts are non-blocking corner notifications that auto-dismiss, so a
// failed upload or delete never traps the user in a modal.
package components

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docsage/docsage-tui/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindStatus is an informational toast (cyan)
	ToastKindStatus ToastKind = iota
	// ToastKindError is an error toast (rose)
	ToastKindError
	// ToastKindSuccess is a success toast (emerald)
	ToastKindSuccess
)

// DefaultToastDuration is the auto-dismiss duration for status toasts.
const DefaultToastDuration = 4 * time.Second

// ErrorToastDuration is longer so the message can be read.
const ErrorToastDuration = 8 * time.Second

var toastCounter int64

// Toast is one non-blocking notification.
type Toast struct {
	ID        int64
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// NewToast creates a toast of the given kind.
func NewToast(kind ToastKind, message string) Toast {
	duration := DefaultToastDuration
	if kind == ToastKindError {
		duration = ErrorToastDuration
	}
	return Toast{
		ID:        atomic.AddInt64(&toastCounter, 1),
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
		Duration:  duration,
	}
}

// IsExpired reports whether the toast should be dismissed.
func (t Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST STACK
// =============================================================================

// ToastExpireMsg prompts the stack to drop expired toasts.
type ToastExpireMsg struct{}

// ToastStack holds the active toasts, newest last.
type ToastStack struct {
	toasts []Toast
}

// Push adds a toast and returns a command that fires when it expires.
func (s *ToastStack) Push(toast Toast) tea.Cmd {
	s.toasts = append(s.toasts, toast)
	return tea.Tick(toast.Duration, func(time.Time) tea.Msg {
		return ToastExpireMsg{}
	})
}

// Expire removes toasts past their duration.
func (s *ToastStack) Expire() {
	kept := s.toasts[:0]
	for _, t := range s.toasts {
		if !t.IsExpired() {
			kept = append(kept, t)
		}
	}
	s.toasts = kept
}

// Len returns the number of active toasts.
func (s *ToastStack) Len() int {
	return len(s.toasts)
}

// Render renders the toast stack, newest at the bottom.
func (s *ToastStack) Render(theme *styles.Theme, maxWidth int) string {
	if len(s.toasts) == 0 {
		return ""
	}

	var lines []string
	for _, t := range s.toasts {
		var line string
		switch t.Kind {
		case ToastKindError:
			line = theme.Error(t.Message)
		case ToastKindSuccess:
			line = theme.Success(t.Message)
		default:
			line = theme.Info(t.Message)
		}
		lines = append(lines, lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(styles.Overlay).
			Padding(0, 1).
			MaxWidth(maxWidth).
			Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Right, lines...)
}
