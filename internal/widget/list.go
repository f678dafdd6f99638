package widget

import "github.com/synapse-ai/synapse-chat/internal/models"

// Handle identifies a rendered item so it can be removed later.
type Handle uint64

// MessageList is the scrolling container messages are rendered into.
// Implementations are only called from the UI goroutine.
type MessageList interface {
	Append(msg models.Message) Handle
	// Remove deletes the item and reports whether it was present.
	Remove(h Handle) bool
	ScrollToBottom()
}

// Input is the text field the user types into.
type Input interface {
	Value() string
	Reset()
}

type listItem struct {
	handle Handle
	msg    models.Message
}

// MemoryList is a MessageList that keeps items in memory. The one-shot command
// renders through it, and it doubles as the list used in tests.
type MemoryList struct {
	items   []listItem
	next    Handle
	scrolls int
	// atBottom is true when the last mutation was followed by a scroll
	atBottom bool
}

// NewMemoryList creates an empty MemoryList
func NewMemoryList() *MemoryList {
	return &MemoryList{atBottom: true}
}

// Append adds msg at the end of the list
func (l *MemoryList) Append(msg models.Message) Handle {
	l.next++
	l.items = append(l.items, listItem{handle: l.next, msg: msg})
	l.atBottom = false
	return l.next
}

// Remove deletes the item with handle h
func (l *MemoryList) Remove(h Handle) bool {
	for i, item := range l.items {
		if item.handle == h {
			l.items = append(l.items[:i], l.items[i+1:]...)
			l.atBottom = false
			return true
		}
	}
	return false
}

// ScrollToBottom records a scroll to the end of the list
func (l *MemoryList) ScrollToBottom() {
	l.scrolls++
	l.atBottom = true
}

// Messages returns the rendered messages in order
func (l *MemoryList) Messages() []models.Message {
	out := make([]models.Message, len(l.items))
	for i, item := range l.items {
		out[i] = item.msg
	}
	return out
}

// Len returns the number of rendered items
func (l *MemoryList) Len() int {
	return len(l.items)
}

// Last returns the most recent message, if any
func (l *MemoryList) Last() (models.Message, bool) {
	if len(l.items) == 0 {
		return models.Message{}, false
	}
	return l.items[len(l.items)-1].msg, true
}

// AtBottom reports whether the list was scrolled after its last change
func (l *MemoryList) AtBottom() bool {
	return l.atBottom
}

// Scrolls returns how many times ScrollToBottom was called
func (l *MemoryList) Scrolls() int {
	return l.scrolls
}
