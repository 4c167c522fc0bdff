// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package documents

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/ui/components"
	"github.com/docsage/docsage-tui/internal/ui/styles"
)

// =============================================================================
// VIEWER KEY MAP
// =============================================================================

// ViewerKeyMap defines the keyboard bindings for the chunk viewer.
type ViewerKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Back     key.Binding
}

// DefaultViewerKeyMap returns the default viewer bindings.
func DefaultViewerKeyMap() ViewerKeyMap {
	return ViewerKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("PgDn", "page down")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "back to library")),
	}
}

// =============================================================================
// VIEWER MODEL
// =============================================================================

// ClosedViewerMsg tells the app root to return to the library.
type ClosedViewerMsg struct{}

// Viewer renders a single document's chunks, optionally scrolled to a
// highlighted chunk cited in a chat answer.
type Viewer struct {
	theme *styles.Theme

	width  int
	height int

	document  api.Document
	chunks    []api.Chunk
	highlight string
	lastError error

	viewport viewport.Model
	keyMap   ViewerKeyMap
}

// NewViewer creates an empty chunk viewer.
func NewViewer(theme *styles.Theme) Viewer {
	return Viewer{
		theme:    theme,
		viewport: viewport.New(0, 0),
		keyMap:   DefaultViewerKeyMap(),
	}
}

// SetSize updates the layout dimensions.
func (m *Viewer) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 3
	m.refreshViewport()
}

// Document returns the currently open document.
func (m Viewer) Document() api.Document {
	return m.document
}

// =============================================================================
// VIEWER UPDATE
// =============================================================================

// Update handles messages for the viewer.
func (m Viewer) Update(msg tea.Msg) (Viewer, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if key.Matches(msg, m.keyMap.Back) {
			return m, func() tea.Msg { return ClosedViewerMsg{} }
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case DocumentOpenedMsg:
		if msg.Err != nil {
			m.lastError = msg.Err
			return m, nil
		}
		m.document = msg.Document
		m.chunks = msg.Chunks
		m.highlight = msg.HighlightChunk
		m.lastError = nil
		m.refreshViewport()
		return m, nil
	}

	return m, nil
}

// refreshViewport re-renders the chunk list and scrolls the highlighted
// chunk into view when one is set.
func (m *Viewer) refreshViewport() {
	if m.viewport.Width <= 0 {
		return
	}

	var b strings.Builder
	highlightLine := -1

	for i, chunk := range m.chunks {
		if chunk.ID == m.highlight && highlightLine < 0 {
			highlightLine = strings.Count(b.String(), "\n")
		}
		b.WriteString(m.renderChunk(i, chunk))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
	if highlightLine >= 0 {
		m.viewport.SetYOffset(highlightLine)
	} else {
		m.viewport.GotoTop()
	}
}

func (m Viewer) renderChunk(i int, chunk api.Chunk) string {
	meta := "chunk " + strconv.Itoa(i+1) + " of " + strconv.Itoa(len(m.chunks))
	if chunk.Page != nil {
		meta += " · page " + strconv.Itoa(*chunk.Page)
	}

	// Code documents get a full code block: language header, line numbers,
	// syntax highlighting. The block carries its own border, so only the
	// cited-chunk highlight adds an outer box.
	if lang := components.LanguageForFilename(m.document.Filename); lang != "" {
		block := components.NewCodeBlock(lang, chunk.TextPreview)
		block.MaxWidth = m.viewport.Width - 4

		body := m.theme.ChunkMeta.Render(meta) + "\n" + block.Render()
		if chunk.ID == m.highlight {
			return m.theme.ChunkHighlighted.Width(m.viewport.Width - 4).Render(body)
		}
		return body
	}

	body := m.theme.ChunkMeta.Render(meta) + "\n" + chunk.TextPreview

	box := m.theme.ChunkBox
	if chunk.ID == m.highlight {
		box = m.theme.ChunkHighlighted
	}
	return box.Width(m.viewport.Width - 4).Render(body)
}

// =============================================================================
// VIEWER VIEW
// =============================================================================

// View renders the chunk viewer.
func (m Viewer) View() string {
	var b strings.Builder

	title := components.TruncateWidth(m.document.Filename, m.width-4)
	b.WriteString(m.theme.PanelTitle.Render(title))
	b.WriteString("\n\n")

	if m.lastError != nil {
		b.WriteString(m.theme.Error("Could not load the document."))
		b.WriteString("\n")
		return b.String()
	}

	if len(m.chunks) == 0 {
		b.WriteString(m.theme.ListMeta.Render("This document has no indexed chunks."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.viewport.View())
	return b.String()
}
