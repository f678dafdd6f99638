package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/synapse-ai/synapse-chat/internal/models"
	"github.com/synapse-ai/synapse-chat/internal/widget"
)

type viewItem struct {
	handle widget.Handle
	msg    models.Message
}

// MessageView is the chat-messages container: a viewport holding one bubble
// per message. It implements widget.MessageList.
type MessageView struct {
	viewport viewport.Model
	items    []viewItem
	next     widget.Handle
}

var _ widget.MessageList = (*MessageView)(nil)

// scrollKeys binds the viewport to navigation keys only. The textarea shares
// every key press, so letters and space must not scroll.
func scrollKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		Up:       key.NewBinding(key.WithKeys("up")),
		Down:     key.NewBinding(key.WithKeys("down")),
	}
}

// NewMessageView creates an empty view of the given size
func NewMessageView(width, height int) *MessageView {
	vp := viewport.New(width, height)
	vp.KeyMap = scrollKeys()
	return &MessageView{viewport: vp}
}

// Append renders msg as a new bubble
func (v *MessageView) Append(msg models.Message) widget.Handle {
	v.next++
	v.items = append(v.items, viewItem{handle: v.next, msg: msg})
	v.refresh()
	return v.next
}

// Remove deletes the bubble with handle h
func (v *MessageView) Remove(h widget.Handle) bool {
	for i, item := range v.items {
		if item.handle == h {
			v.items = append(v.items[:i], v.items[i+1:]...)
			v.refresh()
			return true
		}
	}
	return false
}

// ScrollToBottom shows the newest bubble
func (v *MessageView) ScrollToBottom() {
	v.viewport.GotoBottom()
}

// SetSize resizes the viewport and re-wraps every bubble
func (v *MessageView) SetSize(width, height int) {
	atBottom := v.viewport.AtBottom()
	v.viewport.Width = width
	v.viewport.Height = height
	v.refresh()
	if atBottom {
		v.viewport.GotoBottom()
	}
}

// Messages returns the rendered messages in order
func (v *MessageView) Messages() []models.Message {
	out := make([]models.Message, len(v.items))
	for i, item := range v.items {
		out[i] = item.msg
	}
	return out
}

// View renders the visible part of the list
func (v *MessageView) View() string {
	return v.viewport.View()
}

func (v *MessageView) refresh() {
	width := v.viewport.Width
	var content strings.Builder
	for i, item := range v.items {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(renderBubble(item.msg, width))
	}
	v.viewport.SetContent(content.String())
}

// renderBubble draws one message. Bubbles take at most 80% of the width,
// user messages aligned right and assistant messages left.
func renderBubble(msg models.Message, width int) string {
	if width <= 0 {
		width = 80
	}
	maxWidth := width * 8 / 10
	if maxWidth < 10 {
		maxWidth = width
	}

	style := assistantBubbleStyle
	align := lipgloss.Left
	switch {
	case msg.Role == models.RoleUser:
		style = userBubbleStyle
		align = lipgloss.Right
	case msg.Thinking:
		style = thinkingBubbleStyle
	}

	text := msg.Display()
	// borders and padding take four columns
	if lipgloss.Width(text)+4 > maxWidth {
		style = style.Width(maxWidth - 2)
	}

	return lipgloss.PlaceHorizontal(width, align, style.Render(text))
}
