// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package documents

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/ui/styles"
)

// uploadInterval spaces file uploads so a large batch does not hammer the
// backend's ingestion pipeline all at once.
const uploadInterval = 500 * time.Millisecond

// =============================================================================
// UPLOAD KEY MAP
// =============================================================================

// UploadKeyMap defines the keyboard bindings for the upload view.
type UploadKeyMap struct {
	Submit key.Binding
	Clear  key.Binding
}

// DefaultUploadKeyMap returns the default upload bindings.
func DefaultUploadKeyMap() UploadKeyMap {
	return UploadKeyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "upload")),
		Clear:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "clear")),
	}
}

// =============================================================================
// UPLOAD MODEL
// =============================================================================

// Upload is the Bubble Tea model for the document upload view. Paths are
// entered space-separated; globs are expanded before uploading.
type Upload struct {
	theme *styles.Theme

	width  int
	height int

	client *api.Client
	send   func(tea.Msg)

	input     textinput.Model
	spinner   spinner.Model
	uploading bool

	progress   []string
	lastResult *api.UploadResult
	lastError  error

	keyMap UploadKeyMap
}

// NewUpload creates an upload view.
func NewUpload(client *api.Client, theme *styles.Theme) Upload {
	input := textinput.New()
	input.Placeholder = "paths to upload, e.g. ~/docs/*.pdf notes.md"
	input.Prompt = "> "
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Upload{
		theme:   theme,
		client:  client,
		input:   input,
		spinner: sp,
		keyMap:  DefaultUploadKeyMap(),
	}
}

// Init starts the cursor blink.
func (m Upload) Init() tea.Cmd {
	return textinput.Blink
}

// SetSender wires the background upload goroutine to the running program.
func (m *Upload) SetSender(send func(tea.Msg)) {
	m.send = send
}

// SetSize updates the layout dimensions.
func (m *Upload) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Uploading reports whether a batch is in flight.
func (m Upload) Uploading() bool {
	return m.uploading
}

// =============================================================================
// UPLOAD COMMANDS
// =============================================================================

// expandPaths expands globs and ~ in the entered paths. Entries that match
// nothing are kept verbatim so the backend can report them as errors.
func expandPaths(raw string) []string {
	var out []string
	for _, field := range strings.Fields(raw) {
		if strings.HasPrefix(field, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				field = filepath.Join(home, field[2:])
			}
		}
		matches, err := filepath.Glob(field)
		if err != nil || len(matches) == 0 {
			out = append(out, field)
			continue
		}
		out = append(out, matches...)
	}
	return out
}

// uploadCmd uploads the files one at a time, pacing requests with a rate
// limiter and reporting per-file progress through send.
func uploadCmd(client *api.Client, paths []string, send func(tea.Msg)) tea.Cmd {
	return func() tea.Msg {
		limiter := rate.NewLimiter(rate.Every(uploadInterval), 1)
		ctx := context.Background()

		merged := &api.UploadResult{
			Success: []api.Document{},
			Errors:  []api.UploadError{},
		}

		for _, path := range paths {
			if err := limiter.Wait(ctx); err != nil {
				return UploadDoneMsg{Result: merged, Err: err}
			}
			if send != nil {
				send(UploadProgressMsg{Filename: filepath.Base(path)})
			}

			result, err := client.Upload(ctx, []string{path})
			if err != nil {
				if api.IsUnreachable(err) || api.IsTimeout(err) {
					return UploadDoneMsg{Result: merged, Err: err}
				}
				merged.Errors = append(merged.Errors, api.UploadError{
					Filename: filepath.Base(path),
					Error:    err.Error(),
				})
				continue
			}
			merged.Success = append(merged.Success, result.Success...)
			merged.Errors = append(merged.Errors, result.Errors...)
		}

		return UploadDoneMsg{Result: merged}
	}
}

// =============================================================================
// UPLOAD UPDATE
// =============================================================================

// Update handles messages for the upload view.
func (m Upload) Update(msg tea.Msg) (Upload, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Submit):
			return m.submit()
		case key.Matches(msg, m.keyMap.Clear):
			m.input.SetValue("")
			m.lastResult = nil
			m.lastError = nil
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if !m.uploading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case UploadProgressMsg:
		m.progress = append(m.progress, msg.Filename)
		return m, nil

	case UploadDoneMsg:
		m.uploading = false
		m.progress = nil
		m.lastResult = msg.Result
		m.lastError = msg.Err
		return m, nil
	}

	return m, nil
}

func (m Upload) submit() (Upload, tea.Cmd) {
	if m.uploading {
		return m, nil
	}
	paths := expandPaths(m.input.Value())
	if len(paths) == 0 {
		return m, nil
	}

	m.uploading = true
	m.progress = nil
	m.lastResult = nil
	m.lastError = nil
	m.input.SetValue("")

	return m, tea.Batch(m.spinner.Tick, uploadCmd(m.client, paths, m.send))
}

// =============================================================================
// UPLOAD VIEW
// =============================================================================

// View renders the upload view.
func (m Upload) View() string {
	var b strings.Builder

	b.WriteString(m.theme.PanelTitle.Render("Upload Documents"))
	b.WriteString("\n\n")
	b.WriteString(m.theme.InputContainer.Width(m.width - 4).Render(m.input.View()))
	b.WriteString("\n\n")

	if m.uploading {
		current := ""
		if len(m.progress) > 0 {
			current = m.progress[len(m.progress)-1]
		}
		b.WriteString(m.spinner.View())
		b.WriteString(m.theme.ThinkingText.Render(" uploading " + current + "..."))
		b.WriteString("\n")
		return b.String()
	}

	if m.lastError != nil {
		b.WriteString(m.theme.Error("Upload failed. Is the backend running?"))
		b.WriteString("\n")
	}

	if m.lastResult != nil {
		for _, doc := range m.lastResult.Success {
			b.WriteString(m.theme.Success(doc.Filename))
			b.WriteString("\n")
		}
		for _, e := range m.lastResult.Errors {
			b.WriteString(m.theme.Error(e.Filename + ": " + e.Error))
			b.WriteString("\n")
		}
	}

	return b.String()
}
