// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package documents

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/ui/components"
	"github.com/docsage/docsage-tui/internal/ui/styles"
)

const fetchTimeout = 15 * time.Second

// =============================================================================
// LIBRARY KEY MAP
// =============================================================================

// LibraryKeyMap defines the keyboard bindings for the document library.
type LibraryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Download key.Binding
	Delete   key.Binding
	Confirm  key.Binding
	Abort    key.Binding
	Refresh  key.Binding
}

// DefaultLibraryKeyMap returns the default library bindings.
func DefaultLibraryKeyMap() LibraryKeyMap {
	return LibraryKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "view chunks")),
		Download: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save original")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Confirm:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
		Abort:    key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/Esc", "cancel")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

// =============================================================================
// LIBRARY MODEL
// =============================================================================

// Library is the Bubble Tea model for the document library view.
type Library struct {
	theme *styles.Theme

	width  int
	height int

	client *api.Client

	documents []api.Document
	cursor    int
	lastError error
	lastSaved string

	// confirmDelete holds the document awaiting delete confirmation,
	// zero when none is pending.
	confirmDelete int64

	keyMap LibraryKeyMap
}

// NewLibrary creates a document library view.
func NewLibrary(client *api.Client, theme *styles.Theme) Library {
	return Library{
		theme:  theme,
		client: client,
		keyMap: DefaultLibraryKeyMap(),
	}
}

// Init fetches the library on startup.
func (m Library) Init() tea.Cmd {
	return m.fetchCmd()
}

// SetSize updates the layout dimensions.
func (m *Library) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Documents exposes the current listing to the app root and tests.
func (m Library) Documents() []api.Document {
	return m.documents
}

// =============================================================================
// LIBRARY COMMANDS
// =============================================================================

func (m Library) fetchCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		docs, err := client.ListDocuments(ctx)
		return ListFetchedMsg{Documents: docs, Err: err}
	}
}

func (m Library) deleteCmd(id int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		err := client.DeleteDocument(ctx, id)
		if api.IsNotFound(err) {
			err = nil
		}
		return DeletedMsg{DocID: id, Err: err}
	}
}

// downloadCmd saves a document's original file into the working directory.
func downloadCmd(client *api.Client, doc api.Document) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		body, err := client.Download(ctx, doc.ID)
		if err != nil {
			return DownloadedMsg{Err: err}
		}
		defer body.Close()

		out, err := os.Create(doc.Filename)
		if err != nil {
			return DownloadedMsg{Err: err}
		}
		defer out.Close()

		if _, err := io.Copy(out, body); err != nil {
			return DownloadedMsg{Err: err}
		}
		return DownloadedMsg{Path: doc.Filename}
	}
}

// OpenCmd loads a document and its chunks for the viewer. The app root runs
// it when either the library or a chat citation asks to open a document.
func OpenCmd(client *api.Client, id int64, highlight string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		doc, err := client.GetDocument(ctx, id)
		if err != nil {
			return DocumentOpenedMsg{Err: err}
		}
		chunks, err := client.Chunks(ctx, id)
		if err != nil {
			return DocumentOpenedMsg{Err: err}
		}
		return DocumentOpenedMsg{Document: *doc, Chunks: chunks, HighlightChunk: highlight}
	}
}

// =============================================================================
// LIBRARY UPDATE
// =============================================================================

// Update handles messages for the library view.
func (m Library) Update(msg tea.Msg) (Library, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ListFetchedMsg:
		if msg.Err != nil {
			m.lastError = msg.Err
			return m, nil
		}
		m.documents = msg.Documents
		m.lastError = nil
		m.lastSaved = ""
		if m.cursor >= len(m.documents) {
			m.cursor = len(m.documents) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case DeletedMsg:
		if msg.Err != nil {
			m.lastError = msg.Err
			return m, nil
		}
		return m, m.fetchCmd()

	case DownloadedMsg:
		if msg.Err != nil {
			m.lastError = msg.Err
			return m, nil
		}
		m.lastSaved = msg.Path
		return m, nil

	case UploadDoneMsg:
		// New documents may have landed; refresh the listing.
		if msg.Err == nil {
			return m, m.fetchCmd()
		}
		return m, nil
	}

	return m, nil
}

func (m Library) handleKey(msg tea.KeyMsg) (Library, tea.Cmd) {
	if m.confirmDelete != 0 {
		switch {
		case key.Matches(msg, m.keyMap.Confirm):
			id := m.confirmDelete
			m.confirmDelete = 0
			return m, m.deleteCmd(id)
		case key.Matches(msg, m.keyMap.Abort):
			m.confirmDelete = 0
			return m, nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keyMap.Down):
		if m.cursor < len(m.documents)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keyMap.Open):
		if m.cursor < len(m.documents) {
			doc := m.documents[m.cursor]
			return m, func() tea.Msg {
				return OpenDocumentMsg{DocID: doc.ID}
			}
		}
	case key.Matches(msg, m.keyMap.Download):
		if m.cursor < len(m.documents) {
			return m, downloadCmd(m.client, m.documents[m.cursor])
		}
	case key.Matches(msg, m.keyMap.Delete):
		if m.cursor < len(m.documents) {
			m.confirmDelete = m.documents[m.cursor].ID
		}
	case key.Matches(msg, m.keyMap.Refresh):
		return m, m.fetchCmd()
	}
	return m, nil
}

// =============================================================================
// LIBRARY VIEW
// =============================================================================

// View renders the document library.
func (m Library) View() string {
	var b strings.Builder

	b.WriteString(m.theme.PanelTitle.Render("Document Library"))
	b.WriteString("\n\n")

	if m.lastError != nil {
		b.WriteString(m.theme.Error("Could not load documents. Is the backend running?"))
		b.WriteString("\n")
		return b.String()
	}

	if len(m.documents) == 0 {
		b.WriteString(m.theme.ListMeta.Render("No documents yet. Upload some to get started."))
		b.WriteString("\n")
		return b.String()
	}

	for i, doc := range m.documents {
		meta := strconv.Itoa(doc.ChunkCount) + " chunks"
		if !doc.ProcessedAt.IsZero() {
			meta += " · " + doc.ProcessedAt.Format("2006-01-02 15:04")
		}

		name := components.TruncateWidth(doc.Filename, m.width-len(meta)-10)
		line := name + "  " + m.theme.ListMeta.Render(meta)

		if doc.ID == m.confirmDelete {
			b.WriteString(m.theme.ErrorStyle.Render("  delete \"" + name + "\" and its chunks? (y/n)"))
		} else if i == m.cursor {
			b.WriteString(m.theme.ListItemSelected.Render("▸ " + line))
		} else {
			b.WriteString(m.theme.ListItem.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.lastSaved != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.Success("Saved " + m.lastSaved))
		b.WriteString("\n")
	}

	return b.String()
}
