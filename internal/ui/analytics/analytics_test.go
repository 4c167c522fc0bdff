// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package analytics

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/ui/styles"
)

func testDashboard(t *testing.T) Model {
	t.Helper()

	m := New(api.NewClient(), styles.NewTheme())
	m.SetSize(80, 24)
	return m
}

func TestUpdate_Fetched(t *testing.T) {
	m := testDashboard(t)

	m, _ = m.Update(FetchedMsg{
		Overview:  &api.AnalyticsOverview{TotalDocuments: 3, TotalChunks: 120, TotalQueries: 42, AvgResponseTime: 1.5},
		Latency:   map[string]int{"0-0.5s": 10, "1-2s": 4},
		Precision: map[string]float64{"p_at_1": 0.8, "p_at_5": 0.95},
	})

	if !m.fetched {
		t.Fatal("successful fetch should mark the dashboard as fetched")
	}
	if m.lastError != nil {
		t.Errorf("lastError = %v, want nil", m.lastError)
	}
}

func TestUpdate_FetchError(t *testing.T) {
	m := testDashboard(t)

	m, _ = m.Update(FetchedMsg{Err: api.ErrUnreachable})

	if m.lastError == nil {
		t.Error("fetch failure should be surfaced")
	}

	out := m.View()
	if !strings.Contains(out, "Could not load analytics") {
		t.Errorf("error view missing message:\n%s", out)
	}
}

func TestUpdate_RefreshKey(t *testing.T) {
	m := testDashboard(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Error("r should refetch the dashboard")
	}
}

func TestView_RendersSections(t *testing.T) {
	m := testDashboard(t)
	m, _ = m.Update(FetchedMsg{
		Overview:  &api.AnalyticsOverview{TotalDocuments: 1234, TotalQueries: 7},
		Latency:   map[string]int{"0-0.5s": 5},
		Precision: map[string]float64{"p_at_3": 0.5},
	})

	out := m.View()
	for _, want := range []string{"1,234", "0-0.5s", "P@3", "50.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestView_BeforeFetch(t *testing.T) {
	m := testDashboard(t)

	if !strings.Contains(m.View(), "Loading") {
		t.Error("pre-fetch view should show a loading line")
	}
}
