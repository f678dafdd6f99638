package models

// UserAgent identifies this client to the backend
const UserAgent = "synapse-chat"

// DefaultHeaders returns the headers sent with every chat request besides
// the JSON content negotiation headers.
func DefaultHeaders(locale string) map[string]string {
	headers := map[string]string{
		"User-Agent": UserAgent,
	}
	if locale != "" {
		headers["Accept-Language"] = locale
	}
	return headers
}
