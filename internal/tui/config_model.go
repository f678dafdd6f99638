package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/synapse-ai/synapse-chat/internal/config"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewEndpointSelect
	viewLocaleSelect
	viewThemeSelect
)

// Menu item indices for main view
const (
	menuEndpoint = iota
	menuIncludeUserID
	menuLocale
	menuTheme
	menuCopyToClipboard
	menuExit
	menuItemCount
)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel represents the config TUI state
type ConfigModel struct {
	config     config.Config
	configPath string
	save       func(config.Config) error

	// Navigation
	view         configView
	cursor       int
	selectCursor int

	// Feedback
	feedback        string
	feedbackTimeout time.Duration

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewConfigModel creates a config menu editing cfg. Every change is saved
// immediately.
func NewConfigModel(cfg config.Config) ConfigModel {
	configPath, _ := config.GetConfigPath()

	if cfg.TUITheme != "" {
		SetTheme(cfg.TUITheme)
	}

	return ConfigModel{
		config:          cfg,
		configPath:      configPath,
		save:            config.SaveConfig,
		view:            viewMain,
		feedbackTimeout: 2 * time.Second,
	}
}

// Config returns the configuration as edited so far
func (m ConfigModel) Config() config.Config {
	return m.config
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// options returns the choices of the current select view and the current value
func (m ConfigModel) options() ([]string, string) {
	switch m.view {
	case viewEndpointSelect:
		return config.AvailableEndpoints(), m.config.Endpoint
	case viewLocaleSelect:
		return config.AvailableLocales(), m.config.Locale
	case viewThemeSelect:
		return ThemeNames(), m.config.TUITheme
	}
	return nil, ""
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
			} else {
				return m, tea.Quit
			}

		case "up", "k":
			if m.view == viewMain {
				m.cursor = wrap(m.cursor-1, menuItemCount)
			} else {
				opts, _ := m.options()
				m.selectCursor = wrap(m.selectCursor-1, len(opts))
			}

		case "down", "j":
			if m.view == viewMain {
				m.cursor = wrap(m.cursor+1, menuItemCount)
			} else {
				opts, _ := m.options()
				m.selectCursor = wrap(m.selectCursor+1, len(opts))
			}

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return (i%n + n) % n
}

// openSelect switches to a select view with the cursor on the current value
func (m ConfigModel) openSelect(view configView) ConfigModel {
	m.view = view
	m.selectCursor = 0
	opts, current := m.options()
	for i, o := range opts {
		if o == current {
			m.selectCursor = i
			break
		}
	}
	return m
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	if m.view == viewMain {
		switch m.cursor {
		case menuEndpoint:
			return m.openSelect(viewEndpointSelect), nil

		case menuIncludeUserID:
			include := !m.config.SendsUserID()
			m.config.IncludeUserID = &include
			return m.persist(fmt.Sprintf("Send client id %s", enabledWord(include)))

		case menuLocale:
			return m.openSelect(viewLocaleSelect), nil

		case menuTheme:
			return m.openSelect(viewThemeSelect), nil

		case menuCopyToClipboard:
			m.config.CopyToClipboard = !m.config.CopyToClipboard
			return m.persist(fmt.Sprintf("Copy to clipboard %s", enabledWord(m.config.CopyToClipboard)))

		case menuExit:
			return m, tea.Quit
		}
		return m, nil
	}

	opts, _ := m.options()
	if len(opts) == 0 {
		m.view = viewMain
		return m, nil
	}
	selected := opts[m.selectCursor]

	var feedback string
	switch m.view {
	case viewEndpointSelect:
		m.config.Endpoint = selected
		// a custom path belongs to the previous variant
		m.config.EndpointPath = ""
		feedback = fmt.Sprintf("Endpoint set to %s (%s)", selected, m.config.Path())
	case viewLocaleSelect:
		m.config.Locale = selected
		feedback = fmt.Sprintf("Locale set to %s", selected)
	case viewThemeSelect:
		m.config.TUITheme = selected
		// apply the new theme immediately
		SetTheme(selected)
		feedback = fmt.Sprintf("Theme set to %s", selected)
	}

	m.view = viewMain
	return m.persist(feedback)
}

func (m ConfigModel) persist(feedback string) (tea.Model, tea.Cmd) {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = feedback
	}
	return m, clearFeedback(m.feedbackTimeout)
}

func enabledWord(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	header := configHeaderStyle.Width(contentWidth).Render(configTitleStyle.Render("🌸 Configuration"))
	sections = append(sections, header)

	pathsContent := lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("Paths"),
		fmt.Sprintf("   Config:   %s", configPathStyle.Render(m.configPath)),
		fmt.Sprintf("   Endpoint: %s", configPathStyle.Render(strings.TrimRight(m.config.BaseURL, "/")+m.config.Path())),
	)
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(pathsContent))

	var settingsContent string
	if m.view == viewMain {
		settingsContent = m.renderMainMenu()
	} else {
		settingsContent = m.renderSelect()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(settingsContent))

	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu() string {
	rows := []struct {
		label string
		value string
	}{
		{"Endpoint", configValueStyle.Render(m.config.Endpoint)},
		{"Send Client ID", m.renderBoolValue(m.config.SendsUserID())},
		{"Locale", configValueStyle.Render(m.config.Locale)},
		{"Theme", configValueStyle.Render(m.config.TUITheme)},
		{"Copy to Clipboard", m.renderBoolValue(m.config.CopyToClipboard)},
	}

	items := []string{configSectionTitleStyle.Render("Settings"), ""}
	for i, row := range rows {
		cursor, style := m.cursorFor(m.cursor == i)
		label := style.Render(row.label)
		items = append(items, cursor+label+strings.Repeat(" ", 20-len(row.label))+row.value)
	}

	items = append(items, "")
	cursor, style := m.cursorFor(m.cursor == menuExit)
	items = append(items, cursor+style.Render("Exit"))

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderSelect renders the option list of the current select view
func (m ConfigModel) renderSelect() string {
	titles := map[configView]string{
		viewEndpointSelect: "Select Endpoint",
		viewLocaleSelect:   "Select Locale",
		viewThemeSelect:    "Select Theme",
	}

	opts, current := m.options()
	items := []string{configSectionTitleStyle.Render(titles[m.view]), ""}
	for i, opt := range opts {
		cursor, style := m.cursorFor(m.selectCursor == i)
		text := opt
		if theme, ok := ThemeByName(opt); ok && m.view == viewThemeSelect {
			text = fmt.Sprintf("%s - %s", theme.Name, theme.Description)
		}
		line := cursor + style.Render(text)
		if opt == current {
			line += configEnabledStyle.Render(" (current)")
		}
		items = append(items, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m ConfigModel) cursorFor(selected bool) (string, lipgloss.Style) {
	if selected {
		return configCursorStyle.Render("▸ "), configMenuSelectedStyle
	}
	return "  ", configMenuItemStyle
}

// renderBoolValue renders a boolean value with appropriate styling
func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

// renderStatusBar renders the bottom status bar
func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}

	items := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate"),
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Select"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" "+back),
	}

	return configStatusBarStyle.Width(width).Render(strings.Join(items, "  │  "))
}

// RunConfig starts the config TUI
func RunConfig(cfg config.Config) error {
	p := tea.NewProgram(
		NewConfigModel(cfg),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
