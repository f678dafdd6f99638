package api

import (
	"context"
	"sync"

	"github.com/synapse-ai/synapse-chat/internal/models"
)

// MockChatClient is a mock implementation of ChatClientInterface for testing
type MockChatClient struct {
	// Mock return values
	EndpointVal string
	SendVal     *models.ChatResponse
	SendErr     error
	// SendFunc, when set, replaces SendVal/SendErr.
	SendFunc func(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)

	mu       sync.Mutex
	requests []models.ChatRequest
}

// Ensure MockChatClient implements ChatClientInterface
var _ ChatClientInterface = (*MockChatClient)(nil)

func (m *MockChatClient) Send(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	fn := m.SendFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return m.SendVal, m.SendErr
}

func (m *MockChatClient) Endpoint() string {
	if m.EndpointVal == "" {
		return "http://localhost:8000/api/chat"
	}
	return m.EndpointVal
}

// Requests returns a copy of every request sent so far
func (m *MockChatClient) Requests() []models.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ChatRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Calls returns how many times Send was called
func (m *MockChatClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
