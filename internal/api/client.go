// Package api provides the client for the Synapse chat backend.
package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/synapse-ai/synapse-chat/internal/config"
	"github.com/synapse-ai/synapse-chat/internal/models"
)

// ChatClientInterface is what the chat widget needs from a backend client.
type ChatClientInterface interface {
	Send(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	Endpoint() string
}

// Doer executes a single HTTP request. tls_client.HttpClient satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts chat messages to one backend endpoint
type Client struct {
	doer    Doer
	baseURL string
	path    string
	timeout time.Duration
	headers map[string]string
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL sets the scheme and host of the backend
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithEndpointPath sets the request path, e.g. /api/chat
func WithEndpointPath(path string) ClientOption {
	return func(c *Client) {
		c.path = path
	}
}

// WithTimeout bounds each request at the transport layer. Zero disables the
// timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithDoer replaces the HTTP transport, mainly for tests
func WithDoer(doer Doer) ClientOption {
	return func(c *Client) {
		c.doer = doer
	}
}

// WithHeader adds a header sent with every request
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL: "http://localhost:8000",
		path:    config.PathChat,
		headers: make(map[string]string),
	}

	for _, opt := range opts {
		opt(client)
	}

	if _, err := url.Parse(client.Endpoint()); err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", client.Endpoint(), err)
	}

	if client.doer == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.doer = httpClient
	}

	return client, nil
}

// NewClientFromConfig creates a Client for the endpoint described by cfg
func NewClientFromConfig(cfg config.Config, opts ...ClientOption) (*Client, error) {
	base := []ClientOption{
		WithBaseURL(cfg.BaseURL),
		WithEndpointPath(cfg.Path()),
		WithTimeout(cfg.RequestTimeout()),
	}
	for key, value := range models.DefaultHeaders(cfg.Locale) {
		base = append(base, WithHeader(key, value))
	}
	return NewClient(append(base, opts...)...)
}

// Endpoint returns the full URL requests are posted to
func (c *Client) Endpoint() string {
	return c.baseURL + c.path
}
