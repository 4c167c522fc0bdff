// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package configview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/config"
	"github.com/docsage/docsage-tui/internal/ui/styles"
)

func testView(t *testing.T) Model {
	t.Helper()

	m := New(api.NewClient(), nil, styles.NewTheme())
	m.SetSize(80, 24)
	return m
}

func TestNew_NilLocalUsesDefaults(t *testing.T) {
	m := testView(t)

	if m.local == nil {
		t.Fatal("nil local config should fall back to defaults")
	}
	if m.local.Query.TopK != 5 {
		t.Errorf("TopK = %d, want default 5", m.local.Query.TopK)
	}
}

func TestUpdate_Fetched(t *testing.T) {
	m := testView(t)

	m, _ = m.Update(FetchedMsg{Models: &api.ModelConfig{
		EmbeddingModel: "all-MiniLM-L6-v2",
		ChunkSize:      512,
		ChunkOverlap:   64,
	}})

	out := m.View()
	for _, want := range []string{"all-MiniLM-L6-v2", "512", "64"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestUpdate_FetchError(t *testing.T) {
	m := testView(t)

	m, _ = m.Update(FetchedMsg{Err: api.ErrUnreachable})

	if !strings.Contains(m.View(), "Could not load backend configuration") {
		t.Error("fetch failure should be shown in the view")
	}
}

func TestUpdate_RefreshKey(t *testing.T) {
	m := testView(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Error("r should refetch the backend configuration")
	}
}

func TestSetLocal(t *testing.T) {
	m := testView(t)

	cfg := config.Default()
	cfg.Backend.URL = "http://reloaded:8000"
	m.SetLocal(cfg)

	if !strings.Contains(m.View(), "http://reloaded:8000") {
		t.Error("SetLocal should swap in the reloaded configuration")
	}

	m.SetLocal(nil)
	if m.local != cfg {
		t.Error("SetLocal(nil) should keep the previous configuration")
	}
}
