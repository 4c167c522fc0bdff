// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package configview provides the read-only settings view: the backend's
// ingestion configuration next to the local client configuration.
package configview

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/config"
	"github.com/docsage/docsage-tui/internal/ui/components"
	"github.com/docsage/docsage-tui/internal/ui/styles"
)

const fetchTimeout = 10 * time.Second

// =============================================================================
// MESSAGES
// =============================================================================

// FetchedMsg delivers the backend's model configuration.
type FetchedMsg struct {
	Models *api.ModelConfig
	Err    error
}

// =============================================================================
// MODEL
// =============================================================================

// KeyMap defines the settings view bindings.
type KeyMap struct {
	Refresh key.Binding
}

// DefaultKeyMap returns the default settings bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

// Model is the Bubble Tea model for the settings view.
type Model struct {
	theme *styles.Theme

	width  int
	height int

	client *api.Client
	local  *config.Config

	models    *api.ModelConfig
	lastError error

	keyMap KeyMap
}

// New creates a settings view. local may be nil when the client runs with
// built-in defaults.
func New(client *api.Client, local *config.Config, theme *styles.Theme) Model {
	if local == nil {
		local = config.Default()
	}
	return Model{
		theme:  theme,
		client: client,
		local:  local,
		keyMap: DefaultKeyMap(),
	}
}

// Init fetches the backend configuration on startup.
func (m Model) Init() tea.Cmd {
	return m.fetchCmd()
}

// SetSize updates the layout dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetLocal swaps in a reloaded local configuration.
func (m *Model) SetLocal(local *config.Config) {
	if local != nil {
		m.local = local
	}
}

func (m Model) fetchCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		models, err := client.Models(ctx)
		return FetchedMsg{Models: models, Err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the settings view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if key.Matches(msg, m.keyMap.Refresh) {
			return m, m.fetchCmd()
		}

	case FetchedMsg:
		if msg.Err != nil {
			m.lastError = msg.Err
			return m, nil
		}
		m.models = msg.Models
		m.lastError = nil
	}

	return m, nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the settings view.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.PanelTitle.Render("Settings"))
	b.WriteString("\n\n")

	b.WriteString(m.theme.StatsLabel.Render("Backend ingestion"))
	b.WriteString("\n")
	if m.lastError != nil {
		b.WriteString("  " + m.theme.Error("Could not load backend configuration."))
		b.WriteString("\n")
	} else if m.models == nil {
		b.WriteString("  " + m.theme.ListMeta.Render("Loading..."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.row("Embedding model", m.models.EmbeddingModel))
		b.WriteString(m.row("Chunk size", strconv.Itoa(m.models.ChunkSize)))
		b.WriteString(m.row("Chunk overlap", strconv.Itoa(m.models.ChunkOverlap)))
	}

	b.WriteString("\n")
	b.WriteString(m.theme.StatsLabel.Render("Client"))
	b.WriteString("\n")
	b.WriteString(m.row("Backend URL", m.local.Backend.URL))
	b.WriteString(m.row("Request timeout", strconv.Itoa(m.local.Backend.RequestTimeoutSecs)+"s"))
	b.WriteString(m.row("Stream idle timeout", strconv.Itoa(m.local.Backend.StreamIdleTimeoutSecs)+"s"))
	b.WriteString(m.row("Top K", strconv.Itoa(m.local.Query.TopK)))
	b.WriteString(m.row("Transcript cache", onOff(m.local.Cache.Enabled)))
	b.WriteString(m.row("Theme", m.local.UI.Theme))

	b.WriteString("\n")
	b.WriteString(m.theme.ListMeta.Render("Edit ~/.docsage/config.toml to change client settings."))
	b.WriteString("\n")

	return b.String()
}

func (m Model) row(label, value string) string {
	return "  " + m.theme.StatsLabel.Render(components.PadWidth(label, 22)) +
		m.theme.StatsValue.Render(value) + "\n"
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
