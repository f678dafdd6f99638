package models

// Role identifies who a message is from
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Class names carried by rendered messages. They match the stylesheet
// contract of the web widget.
const (
	ClassMessage     = "message"
	ClassUserMessage = "user-message"
	ClassAIMessage   = "ai-message"
	ClassThinking    = "thinking"
)

// Logical element names a frontend binds to.
const (
	ElementMessages = "chat-messages"
	ElementInput    = "user-input"
	ElementSend     = "send-btn"
)

// AssistantPrefix is the label put in front of every assistant reply.
const AssistantPrefix = "AI: "

// Message represents a chat message for display
type Message struct {
	Role Role
	Text string
	// Thinking marks the placeholder shown while a reply is pending.
	Thinking bool
}

// Classes returns the class list of the rendered item
func (m Message) Classes() []string {
	if m.Role == RoleUser {
		return []string{ClassMessage, ClassUserMessage}
	}
	if m.Thinking {
		return []string{ClassMessage, ClassAIMessage, ClassThinking}
	}
	return []string{ClassMessage, ClassAIMessage}
}

// Display returns the text as it appears in the list. Assistant messages are
// prefixed with "AI: " unless they are a thinking placeholder.
func (m Message) Display() string {
	if m.Role == RoleAI && !m.Thinking {
		return AssistantPrefix + m.Text
	}
	return m.Text
}
