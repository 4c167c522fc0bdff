// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// main.go - Application entry point and root TUI model for docsage.
package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/cache"
	"github.com/docsage/docsage-tui/internal/cli"
	"github.com/docsage/docsage-tui/internal/config"
	"github.com/docsage/docsage-tui/internal/ui/analytics"
	"github.com/docsage/docsage-tui/internal/ui/chat"
	"github.com/docsage/docsage-tui/internal/ui/components"
	"github.com/docsage/docsage-tui/internal/ui/configview"
	"github.com/docsage/docsage-tui/internal/ui/documents"
	"github.com/docsage/docsage-tui/internal/ui/sessions"
	"github.com/docsage/docsage-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for async streaming
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdSessions:
		cli.HandleSessions(args)
	case cli.CmdDocs:
		cli.HandleDocs(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp(args)
	default:
		runTUI(args)
	}
}

// sendToProgram delivers a message from a background goroutine to the
// running program.
func sendToProgram(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// runTUI starts the TUI interface.
func runTUI(args cli.Args) {
	cfg := cli.LoadConfig(args)
	theme := styles.NewThemeForMode(cfg.UI.Theme)
	client := api.NewClientWithConfig(cfg.ClientConfig())

	var transcripts *cache.TranscriptCache
	if cfg.Cache.Enabled {
		path := cfg.Cache.Path
		if path == "" {
			path = cache.DefaultPath()
		}
		var err error
		transcripts, err = cache.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: transcript cache unavailable: %v\n", err)
		} else {
			transcripts.SetMaxSessions(cfg.Cache.MaxSessions)
		}
	}
	defer func() {
		if transcripts != nil {
			transcripts.Close()
		}
	}()

	m := NewModel(theme, client, cfg, transcripts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	// Live-reload the config file while the TUI runs.
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go config.Watch(watchCtx, func(fresh *config.Config) {
		sendToProgram(ConfigReloadedMsg{Config: fresh})
	}, nil)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running docsage: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// Tab identifies one of the top-level views.
type Tab int

const (
	TabChat Tab = iota
	TabHistory
	TabDocuments
	TabUpload
	TabAnalytics
	TabSettings

	tabCount
)

var tabLabels = []string{"Chat", "History", "Documents", "Upload", "Analytics", "Settings"}

// healthInterval is how often the backend health indicator refreshes.
const healthInterval = 15 * time.Second

// HealthCheckMsg reports the result of a backend health probe.
type HealthCheckMsg struct {
	Err error
}

// healthTickMsg schedules the next probe.
type healthTickMsg struct{}

// ConfigReloadedMsg delivers a freshly loaded config after the file on
// disk changed.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// Model is the main Bubble Tea model for the application.
type Model struct {
	theme *styles.Theme

	width  int
	height int

	activeTab Tab

	// Per-tab models
	chatModel      chat.Model
	sessionsModel  sessions.Model
	library        documents.Library
	viewer         documents.Viewer
	viewerOpen     bool
	uploadModel    documents.Upload
	analyticsModel analytics.Model
	settingsModel  configview.Model

	header components.Header
	toasts components.ToastStack

	client  *api.Client
	cfg     *config.Config
	healthy bool
}

// NewModel creates the application model.
func NewModel(theme *styles.Theme, client *api.Client, cfg *config.Config, transcripts *cache.TranscriptCache) *Model {
	chatModel := chat.New(client, theme)
	chatModel.SetSender(sendToProgram)
	chatModel.SetDisplay(cfg.UI.ShowSources, cfg.UI.CompactMode)

	uploadModel := documents.NewUpload(client, theme)
	uploadModel.SetSender(sendToProgram)

	return &Model{
		theme:          theme,
		activeTab:      TabChat,
		chatModel:      chatModel,
		sessionsModel:  sessions.New(client, transcripts, theme),
		library:        documents.NewLibrary(client, theme),
		viewer:         documents.NewViewer(theme),
		uploadModel:    uploadModel,
		analyticsModel: analytics.New(client, theme),
		settingsModel:  configview.New(client, cfg, theme),
		header:         components.NewHeader("docsage", tabLabels),
		client:         client,
		cfg:            cfg,
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.chatModel.Init(),
		m.sessionsModel.Init(),
		m.library.Init(),
		m.uploadModel.Init(),
		m.analyticsModel.Init(),
		m.settingsModel.Init(),
		m.checkHealth(),
	)
}

// checkHealth probes the backend and schedules the next probe.
func (m *Model) checkHealth() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return HealthCheckMsg{Err: client.Health(ctx)}
	}
}

func scheduleHealthTick() tea.Cmd {
	return tea.Tick(healthInterval, func(time.Time) tea.Msg {
		return healthTickMsg{}
	})
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case HealthCheckMsg:
		m.healthy = msg.Err == nil
		return m, scheduleHealthTick()

	case healthTickMsg:
		return m, m.checkHealth()

	case ConfigReloadedMsg:
		// The client config is shared by pointer, so the retrieval depth
		// applies to the next query. URL and timeout changes need a restart.
		*m.cfg = *msg.Config
		m.client.GetConfig().TopK = msg.Config.Query.TopK
		m.theme.SetMode(msg.Config.UI.Theme)
		m.chatModel.SetDisplay(msg.Config.UI.ShowSources, msg.Config.UI.CompactMode)
		m.settingsModel.SetLocal(m.cfg)
		return m, tea.Batch(
			m.checkHealth(),
			m.toasts.Push(components.NewToast(components.ToastKindStatus,
				"Configuration reloaded")),
		)

	case components.ToastExpireMsg:
		m.toasts.Expire()
		return m, nil

	// Chat stream pipeline
	case chat.StreamSourcesMsg, chat.StreamTokenMsg, chat.NewChatMsg:
		var cmd tea.Cmd
		m.chatModel, cmd = m.chatModel.Update(msg)
		return m, cmd

	case chat.StreamDoneMsg:
		var cmd tea.Cmd
		m.chatModel, cmd = m.chatModel.Update(msg)
		return m, cmd

	case chat.HistoryRefreshMsg:
		var cmd tea.Cmd
		m.sessionsModel, cmd = m.sessionsModel.Update(msg)
		return m, cmd

	case chat.SessionLoadedMsg:
		var cmd tea.Cmd
		m.chatModel, cmd = m.chatModel.Update(msg)
		m.activeTab = TabChat
		return m, cmd

	case chat.SessionLoadFailedMsg:
		return m, m.toasts.Push(components.NewToast(components.ToastKindError,
			"Could not load the conversation."))

	// History panel
	case sessions.FetchedMsg, sessions.DeletedMsg:
		var cmd tea.Cmd
		m.sessionsModel, cmd = m.sessionsModel.Update(msg)
		return m, cmd

	// Documents
	case documents.ListFetchedMsg, documents.DeletedMsg:
		var cmd tea.Cmd
		m.library, cmd = m.library.Update(msg)
		return m, cmd

	case documents.OpenDocumentMsg:
		m.activeTab = TabDocuments
		m.viewerOpen = true
		return m, documents.OpenCmd(m.client, msg.DocID, msg.HighlightChunk)

	case documents.DocumentOpenedMsg:
		if msg.Err != nil {
			m.viewerOpen = false
			return m, m.toasts.Push(components.NewToast(components.ToastKindError,
				"Could not open the document."))
		}
		var cmd tea.Cmd
		m.viewer, cmd = m.viewer.Update(msg)
		return m, cmd

	case documents.ClosedViewerMsg:
		m.viewerOpen = false
		return m, nil

	case documents.UploadProgressMsg:
		var cmd tea.Cmd
		m.uploadModel, cmd = m.uploadModel.Update(msg)
		return m, cmd

	case documents.UploadDoneMsg:
		var uploadCmd, libCmd, toastCmd tea.Cmd
		m.uploadModel, uploadCmd = m.uploadModel.Update(msg)
		m.library, libCmd = m.library.Update(msg)
		if msg.Err == nil && msg.Result != nil {
			toastCmd = m.toasts.Push(components.NewToast(components.ToastKindSuccess,
				fmt.Sprintf("Uploaded %d document(s)", len(msg.Result.Success))))
		}
		return m, tea.Batch(uploadCmd, libCmd, toastCmd)

	// Dashboards
	case analytics.FetchedMsg:
		var cmd tea.Cmd
		m.analyticsModel, cmd = m.analyticsModel.Update(msg)
		return m, cmd

	case configview.FetchedMsg:
		var cmd tea.Cmd
		m.settingsModel, cmd = m.settingsModel.Update(msg)
		return m, cmd
	}

	// Everything else (spinner ticks, blink) goes to the active view.
	return m.updateActive(msg)
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.header.Width = msg.Width

	contentHeight := msg.Height - 3
	if contentHeight < 1 {
		contentHeight = 1
	}

	m.chatModel.SetSize(msg.Width, contentHeight)
	m.sessionsModel.SetSize(msg.Width, contentHeight)
	m.library.SetSize(msg.Width, contentHeight)
	m.viewer.SetSize(msg.Width, contentHeight)
	m.uploadModel.SetSize(msg.Width, contentHeight)
	m.analyticsModel.SetSize(msg.Width, contentHeight)
	m.settingsModel.SetSize(msg.Width, contentHeight)

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		return m.switchTab((m.activeTab + 1) % tabCount)

	case "shift+tab":
		return m.switchTab((m.activeTab + tabCount - 1) % tabCount)
	}

	return m.updateActive(msg)
}

// switchTab activates a tab, refreshing the views that show live data.
func (m *Model) switchTab(tab Tab) (tea.Model, tea.Cmd) {
	m.activeTab = tab

	switch tab {
	case TabAnalytics:
		return m, m.analyticsModel.Init()
	case TabSettings:
		return m, m.settingsModel.Init()
	case TabDocuments:
		if !m.viewerOpen {
			return m, m.library.Init()
		}
	}
	return m, nil
}

// updateActive forwards a message to the view on the active tab.
func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.activeTab {
	case TabChat:
		m.chatModel, cmd = m.chatModel.Update(msg)
	case TabHistory:
		m.sessionsModel, cmd = m.sessionsModel.Update(msg)
	case TabDocuments:
		if m.viewerOpen {
			m.viewer, cmd = m.viewer.Update(msg)
		} else {
			m.library, cmd = m.library.Update(msg)
		}
	case TabUpload:
		m.uploadModel, cmd = m.uploadModel.Update(msg)
	case TabAnalytics:
		m.analyticsModel, cmd = m.analyticsModel.Update(msg)
	case TabSettings:
		m.settingsModel, cmd = m.settingsModel.Update(msg)
	}

	return m, cmd
}

// View renders the application.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.activeTab {
	case TabChat:
		content = m.chatModel.View()
	case TabHistory:
		content = m.sessionsModel.View()
	case TabDocuments:
		if m.viewerOpen {
			content = m.viewer.View()
		} else {
			content = m.library.View()
		}
	case TabUpload:
		content = m.uploadModel.View()
	case TabAnalytics:
		content = m.analyticsModel.View()
	case TabSettings:
		content = m.settingsModel.View()
	}

	statusBar := components.StatusBar{
		Width:     m.width,
		Healthy:   m.healthy,
		Shortcuts: m.shortcuts(),
	}

	out := m.header.Render(m.theme, int(m.activeTab)) + "\n" +
		content + "\n" +
		statusBar.Render(m.theme)

	if m.toasts.Len() > 0 {
		out += "\n" + m.toasts.Render(m.theme, m.width)
	}
	return out
}

// shortcuts returns the status bar hints for the active tab.
func (m *Model) shortcuts() []components.Shortcut {
	common := []components.Shortcut{
		{Key: "Tab", Desc: "switch view"},
		{Key: "^C", Desc: "quit"},
	}

	switch m.activeTab {
	case TabChat:
		return append([]components.Shortcut{
			{Key: "Enter", Desc: "send"},
			{Key: "^N", Desc: "new chat"},
		}, common...)
	case TabHistory:
		return append([]components.Shortcut{
			{Key: "Enter", Desc: "open"},
			{Key: "d", Desc: "delete"},
		}, common...)
	case TabDocuments:
		if m.viewerOpen {
			return append([]components.Shortcut{
				{Key: "Esc", Desc: "back"},
			}, common...)
		}
		return append([]components.Shortcut{
			{Key: "Enter", Desc: "view"},
			{Key: "s", Desc: "save"},
			{Key: "d", Desc: "delete"},
		}, common...)
	case TabUpload:
		return append([]components.Shortcut{
			{Key: "Enter", Desc: "upload"},
		}, common...)
	default:
		return append([]components.Shortcut{
			{Key: "r", Desc: "refresh"},
		}, common...)
	}
}
