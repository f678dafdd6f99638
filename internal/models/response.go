package models

// StatusSuccess is the only status that carries a reply.
const StatusSuccess = "success"

// ChatRequest is the JSON body posted to the backend. UserID is omitted for
// deployments that do not correlate clients.
type ChatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

// ChatResponse is the decoded backend answer.
type ChatResponse struct {
	Status string
	// Reply is taken from "reply", falling back to a string "data" and then
	// to "message" for backends that answer with the generic API envelope.
	Reply   string
	Message string
	UserID  string
}

// OK reports whether the backend accepted the message
func (r *ChatResponse) OK() bool {
	return r != nil && r.Status == StatusSuccess
}
