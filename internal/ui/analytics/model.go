// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package analytics provides the usage-analytics dashboard view: corpus
// totals, a response-latency histogram, and retrieval precision figures.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/ui/components"
	"github.com/docsage/docsage-tui/internal/ui/styles"
)

const fetchTimeout = 10 * time.Second

// latencyBuckets fixes the histogram row order; the backend returns a map.
var latencyBuckets = []string{"0-0.5s", "0.5-1s", "1-2s", "2-5s", ">5s"}

// =============================================================================
// MESSAGES
// =============================================================================

// FetchedMsg delivers the full dashboard payload.
type FetchedMsg struct {
	Overview  *api.AnalyticsOverview
	Latency   map[string]int
	Precision map[string]float64
	Err       error
}

// =============================================================================
// MODEL
// =============================================================================

// KeyMap defines the dashboard bindings.
type KeyMap struct {
	Refresh key.Binding
}

// DefaultKeyMap returns the default dashboard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

// Model is the Bubble Tea model for the analytics dashboard.
type Model struct {
	theme *styles.Theme

	width  int
	height int

	client *api.Client

	overview  *api.AnalyticsOverview
	latency   map[string]int
	precision map[string]float64
	lastError error
	fetched   bool

	keyMap KeyMap
}

// New creates an analytics dashboard.
func New(client *api.Client, theme *styles.Theme) Model {
	return Model{
		theme:  theme,
		client: client,
		keyMap: DefaultKeyMap(),
	}
}

// Init fetches the dashboard on startup.
func (m Model) Init() tea.Cmd {
	return m.fetchCmd()
}

// SetSize updates the layout dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) fetchCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		overview, err := client.Overview(ctx)
		if err != nil {
			return FetchedMsg{Err: err}
		}
		latency, err := client.Latency(ctx)
		if err != nil {
			return FetchedMsg{Err: err}
		}
		precision, err := client.Precision(ctx)
		if err != nil {
			return FetchedMsg{Err: err}
		}
		return FetchedMsg{Overview: overview, Latency: latency, Precision: precision}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the dashboard.
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
		m.overview = msg.Overview
		m.latency = msg.Latency
		m.precision = msg.Precision
		m.lastError = nil
		m.fetched = true
	}

	return m, nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.PanelTitle.Render("Analytics"))
	b.WriteString("\n\n")

	if m.lastError != nil {
		b.WriteString(m.theme.Error("Could not load analytics. Is the backend running?"))
		b.WriteString("\n")
		return b.String()
	}
	if !m.fetched {
		b.WriteString(m.theme.ListMeta.Render("Loading..."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.renderOverview())
	b.WriteString("\n")
	b.WriteString(m.renderLatency())
	b.WriteString("\n")
	b.WriteString(m.renderPrecision())

	return b.String()
}

func (m Model) renderOverview() string {
	if m.overview == nil {
		return ""
	}

	var b strings.Builder
	rows := []struct {
		label string
		value string
	}{
		{"Documents", components.FmtNumber(m.overview.TotalDocuments)},
		{"Chunks", components.FmtNumber(m.overview.TotalChunks)},
		{"Queries", components.FmtNumber(m.overview.TotalQueries)},
		{"Avg response", fmt.Sprintf("%.2fs", m.overview.AvgResponseTime)},
	}
	for _, row := range rows {
		b.WriteString(m.theme.StatsLabel.Render(fmt.Sprintf("%-14s", row.label)))
		b.WriteString(m.theme.StatsValue.Render(row.value))
		b.WriteString("\n")
	}
	return b.String()
}

// renderLatency draws one bar per bucket, scaled to the largest count.
func (m Model) renderLatency() string {
	var b strings.Builder
	b.WriteString(m.theme.StatsLabel.Render("Response latency"))
	b.WriteString("\n")

	max := 0
	for _, bucket := range latencyBuckets {
		if m.latency[bucket] > max {
			max = m.latency[bucket]
		}
	}

	barWidth := m.width - 24
	if barWidth < 10 {
		barWidth = 10
	}

	for _, bucket := range latencyBuckets {
		count := m.latency[bucket]
		filled := 0
		if max > 0 {
			filled = count * barWidth / max
		}
		bar := m.theme.BarFilled.Render(strings.Repeat("█", filled)) +
			m.theme.BarEmpty.Render(strings.Repeat("░", barWidth-filled))

		b.WriteString(fmt.Sprintf("  %-8s %s %s\n",
			bucket, bar, m.theme.ListMeta.Render(components.FmtNumber(count))))
	}
	return b.String()
}

func (m Model) renderPrecision() string {
	if len(m.precision) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.StatsLabel.Render("Retrieval precision"))
	b.WriteString("\n")

	keys := make([]string, 0, len(m.precision))
	for k := range m.precision {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		label := strings.ToUpper(strings.ReplaceAll(k, "p_at_", "P@"))
		b.WriteString(fmt.Sprintf("  %-8s %s\n",
			label, m.theme.StatsValue.Render(fmt.Sprintf("%.1f%%", m.precision[k]*100))))
	}
	return b.String()
}
