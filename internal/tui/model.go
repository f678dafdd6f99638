package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/synapse-ai/synapse-chat/internal/api"
	apierrors "github.com/synapse-ai/synapse-chat/internal/errors"
	"github.com/synapse-ai/synapse-chat/internal/widget"
)

// exchangeDoneMsg carries a finished backend call back to the update loop
type exchangeDoneMsg struct {
	exchange *widget.Exchange
	result   widget.Result
}

// Model represents the chat TUI state
type Model struct {
	widget   *widget.Widget
	messages *MessageView

	// UI components
	textarea textarea.Model
	spinner  spinner.Model

	// State
	ready   bool
	lastErr error

	// ctx is cancelled on quit so in-flight exchanges stop
	ctx    context.Context
	cancel context.CancelFunc

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a chat model talking to client. The widget options
// choose texts, logging and whether the client identifier is sent.
func NewChatModel(client api.ChatClientInterface, opts ...widget.Option) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	// enter sends, so newlines move to alt+enter
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	view := NewMessageView(76, 10)
	w := widget.New(view, client, opts...)
	w.Init()

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		widget:   w,
		messages: view,
		textarea: ta,
		spinner:  s,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3 // Header panel with border
		inputHeight := 5  // Input panel with border
		statusHeight := 1 // Status bar
		borders := 2      // Messages panel border

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - borders
		if vpHeight < 3 {
			vpHeight = 3
		}
		contentWidth := m.width - 4

		m.messages.SetSize(contentWidth-2, vpHeight)
		m.textarea.SetWidth(contentWidth - 12)
		m.ready = true

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit

		case "enter", "ctrl+s":
			if input := strings.TrimSpace(m.textarea.Value()); input == "/exit" || input == "/quit" {
				m.cancel()
				return m, tea.Quit
			}
			// the key never reaches the textarea
			return m, m.submit()
		}

	case exchangeDoneMsg:
		_, err := m.widget.Resolve(msg.exchange, msg.result)
		m.lastErr = err

	case spinner.TickMsg:
		if m.widget.Pending() > 0 {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if _, ok := msg.(tea.KeyMsg); ok {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.messages.viewport, cmd = m.messages.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit sends the textarea content. Blank input is ignored. The input stays
// editable while the exchange runs and further messages may be sent.
func (m *Model) submit() tea.Cmd {
	ex, err := m.widget.Send(m.textarea.Value())
	if err != nil {
		if !errors.Is(err, apierrors.ErrEmptyMessage) {
			m.lastErr = err
		}
		return nil
	}
	m.textarea.Reset()
	m.lastErr = nil

	cmds := []tea.Cmd{runExchange(m.ctx, ex)}
	if m.widget.Pending() == 1 {
		// first pending exchange restarts the spinner
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// runExchange performs the backend call off the update loop
func runExchange(ctx context.Context, ex *widget.Exchange) tea.Cmd {
	return func() tea.Msg {
		return exchangeDoneMsg{exchange: ex, result: ex.Do(ctx)}
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	var sections []string

	// HEADER
	headerParts := []string{
		titleStyle.Render("🌸 Synapse AI"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.widget.Endpoint()),
	}
	if m.widget.SendsClientID() {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render("id "+m.widget.ClientID()),
		)
	}
	header := headerStyle.Width(contentWidth).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, headerParts...),
	)
	sections = append(sections, header)

	// MESSAGES
	sections = append(sections, messagesAreaStyle.Width(contentWidth).Render(m.messages.View()))

	// INPUT
	label := inputLabelStyle.Render("You")
	if pending := m.widget.Pending(); pending > 0 {
		label += " " + m.spinner.View() + " " + hintStyle.Render(m.widget.Texts().Thinking)
	}
	input := lipgloss.JoinHorizontal(lipgloss.Bottom,
		m.textarea.View(),
		"  ",
		sendButtonStyle.Render("Send"),
	)
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, label, input),
	))

	// STATUS BAR
	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.lastErr != nil {
		sections = append(sections, FormatError(m.lastErr))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Alt+Enter", "Newline"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// Widget returns the controller behind the model
func (m Model) Widget() *widget.Widget {
	return m.widget
}

// RunChat starts the chat TUI
func RunChat(client api.ChatClientInterface, opts ...widget.Option) error {
	m := NewChatModel(client, opts...)
	defer m.cancel()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
