// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the docsage TUI.
package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/model"
	"github.com/docsage/docsage-tui/internal/ui/components"
	"github.com/docsage/docsage-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady     State = iota // Ready for input
	StateStreaming              // Receiving a streaming answer
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Conversation
	conversation *model.Conversation

	// Backend client
	client *api.Client

	// Current turn bookkeeping. sourcesSeen enforces the at-most-once rule
	// for the sources event; cancelStream aborts the in-flight request when
	// the user leaves the session mid-answer.
	sourcesSeen  bool
	cancelStream context.CancelFunc

	// send delivers stream events from the background goroutine into the
	// Bubble Tea loop (wired to tea.Program.Send at startup).
	send func(tea.Msg)

	// Display preferences from the ui config section.
	showSources bool
	compact     bool

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *components.MarkdownRenderer

	// Key bindings
	keyMap KeyMap
}

// New creates a new chat model with a fresh conversation.
func New(client *api.Client, theme *styles.Theme) Model {
	input := textinput.New()
	input.Placeholder = "Ask a question about your documents..."
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Model{
		state:        StateReady,
		theme:        theme,
		client:       client,
		showSources:  true,
		conversation: model.NewConversation(),
		input:        input,
		spinner:      sp,
		viewport:     viewport.New(0, 0),
		renderer:     components.NewMarkdownRenderer(80),
		keyMap:       DefaultKeyMap(),
	}
}

// Init returns the initial command for the chat view.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSender wires the function used to deliver stream events from the
// background goroutine, normally tea.Program.Send.
func (m *Model) SetSender(send func(tea.Msg)) {
	m.send = send
}

// SetDisplay applies the source-citation and compact-layout preferences
// and re-renders the transcript.
func (m *Model) SetDisplay(showSources, compact bool) {
	m.showSources = showSources
	m.compact = compact
	m.refreshViewport(false)
}

// Conversation exposes the live conversation to the app root and tests.
func (m Model) Conversation() *model.Conversation {
	return m.conversation
}

// SessionID returns the live session ID.
func (m Model) SessionID() string {
	return m.conversation.SessionID
}

// IsStreaming reports whether an answer is currently streaming.
func (m Model) IsStreaming() bool {
	return m.state == StateStreaming
}

// SetSize updates the layout dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	inputHeight := 3
	vpHeight := height - inputHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight

	wrap := width - 10
	if m.renderer.Width() != wrap {
		m.renderer = components.NewMarkdownRenderer(wrap)
	}

	m.refreshViewport(true)
}
