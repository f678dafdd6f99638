package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/synapse-ai/synapse-chat/internal/config"
	apierrors "github.com/synapse-ai/synapse-chat/internal/errors"
	"github.com/synapse-ai/synapse-chat/internal/models"
)

// mockDoer implements Doer for testing
type mockDoer struct {
	doFunc   func(req *http.Request) (*http.Response, error)
	lastReq  *http.Request
	lastBody []byte
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	m.lastReq = req
	if req.Body != nil {
		m.lastBody, _ = io.ReadAll(req.Body)
	}
	if m.doFunc != nil {
		return m.doFunc(req)
	}
	return nil, errors.New("no response configured")
}

func jsonResponse(status int, body string) func(req *http.Request) (*http.Response, error) {
	return func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
		}, nil
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func newTestClient(t *testing.T, doer Doer, opts ...ClientOption) *Client {
	t.Helper()
	client, err := NewClient(append([]ClientOption{WithDoer(doer)}, opts...)...)
	require.NoError(t, err)
	return client
}

func TestNewClient_Defaults(t *testing.T) {
	client := newTestClient(t, &mockDoer{})
	assert.Equal(t, "http://localhost:8000/api/chat", client.Endpoint())
}

func TestNewClient_Options(t *testing.T) {
	client := newTestClient(t, &mockDoer{},
		WithBaseURL("http://localhost:2333/"),
		WithEndpointPath(config.PathAgent),
		WithTimeout(5*time.Second),
	)

	assert.Equal(t, "http://localhost:2333/api/v1/agent", client.Endpoint())
	assert.Equal(t, 5*time.Second, client.timeout)
}

func TestNewClient_InvalidEndpoint(t *testing.T) {
	_, err := NewClient(WithDoer(&mockDoer{}), WithBaseURL("http://[::1"))
	assert.Error(t, err)
}

func TestNewClientFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Endpoint = config.EndpointAgent
	cfg.BaseURL = "https://synapse.example.com"
	cfg.RequestTimeoutSeconds = 10

	client, err := NewClientFromConfig(cfg, WithDoer(&mockDoer{}))
	require.NoError(t, err)

	assert.Equal(t, "https://synapse.example.com/api/v1/agent", client.Endpoint())
	assert.Equal(t, 10*time.Second, client.timeout)
}

func TestSend_RequestShape(t *testing.T) {
	tests := []struct {
		name     string
		req      models.ChatRequest
		wantBody string
	}{
		{
			name:     "chat endpoint omits user_id",
			req:      models.ChatRequest{Message: "你好"},
			wantBody: `{"message":"你好"}`,
		},
		{
			name:     "agent endpoint carries user_id",
			req:      models.ChatRequest{Message: "测试消息", UserID: "test_user"},
			wantBody: `{"message":"测试消息","user_id":"test_user"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := &mockDoer{doFunc: jsonResponse(200, `{"status":"success","reply":"ok"}`)}
			client := newTestClient(t, doer, WithHeader("X-Client", "synapse-chat"))

			_, err := client.Send(context.Background(), tt.req)
			require.NoError(t, err)

			require.NotNil(t, doer.lastReq)
			assert.Equal(t, http.MethodPost, doer.lastReq.Method)
			assert.Equal(t, "http://localhost:8000/api/chat", doer.lastReq.URL.String())
			assert.Equal(t, "application/json", doer.lastReq.Header.Get("Content-Type"))
			assert.Equal(t, "application/json", doer.lastReq.Header.Get("Accept"))
			assert.Equal(t, "synapse-chat", doer.lastReq.Header.Get("X-Client"))
			assert.JSONEq(t, tt.wantBody, string(doer.lastBody))
		})
	}
}

func TestSend_Success(t *testing.T) {
	doer := &mockDoer{doFunc: jsonResponse(200, `{"status":"success","reply":"Hello"}`)}
	client := newTestClient(t, doer)

	resp, err := client.Send(context.Background(), models.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "Hello", resp.Reply)
}

func TestSend_ApplicationErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus string
	}{
		{"error status", 200, `{"status":"error"}`, "error"},
		{"missing status", 200, `{"reply":"hi"}`, ""},
		{"agent envelope error", 200, `{"status":"error","message":"Agent未初始化","user_id":"u1"}`, "error"},
		{"forbidden with json detail", 403, `{"detail":"无效的API密钥"}`, ""},
		{"json array", 200, `[1,2,3]`, ""},
		{"json string", 200, `"hello"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, &mockDoer{doFunc: jsonResponse(tt.status, tt.body)})

			resp, err := client.Send(context.Background(), models.ChatRequest{Message: "hi"})
			assert.Nil(t, resp)
			require.Error(t, err)
			assert.True(t, apierrors.IsApplicationError(err), "got %T: %v", err, err)
			assert.Equal(t, tt.wantStatus, apierrors.GetStatus(err))
			assert.Equal(t, "http://localhost:8000/api/chat", apierrors.GetEndpoint(err))
		})
	}
}

func TestSend_TransportErrors(t *testing.T) {
	tests := []struct {
		name   string
		doFunc func(req *http.Request) (*http.Response, error)
	}{
		{
			name: "connection refused",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return nil, errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")
			},
		},
		{
			name:   "html error page",
			doFunc: jsonResponse(502, "<html><body>Bad Gateway</body></html>"),
		},
		{
			name:   "empty body",
			doFunc: jsonResponse(200, ""),
		},
		{
			name:   "json null",
			doFunc: jsonResponse(200, "null"),
		},
		{
			name:   "truncated json",
			doFunc: jsonResponse(200, `{"status":"succ`),
		},
		{
			name: "body read failure",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: 200, Body: io.NopCloser(errReader{})}, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, &mockDoer{doFunc: tt.doFunc})

			resp, err := client.Send(context.Background(), models.ChatRequest{Message: "hi"})
			assert.Nil(t, resp)
			require.Error(t, err)
			assert.True(t, apierrors.IsTransportError(err), "got %T: %v", err, err)
			assert.Equal(t, apierrors.KindTransport, apierrors.KindOf(err))
		})
	}
}

func TestSend_CancelledContext(t *testing.T) {
	doer := &mockDoer{doFunc: func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	}}
	client := newTestClient(t, doer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Send(ctx, models.ChatRequest{Message: "hi"})
	require.Error(t, err)
	assert.True(t, apierrors.IsTransportError(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSend_SuccessWithNonOKStatusCode(t *testing.T) {
	// the status field decides, not the HTTP code
	client := newTestClient(t, &mockDoer{doFunc: jsonResponse(500, `{"status":"success","reply":"still fine"}`)})

	resp, err := client.Send(context.Background(), models.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "still fine", resp.Reply)
}

func TestSend_LargeBodyIsCapped(t *testing.T) {
	huge := `{"status":"success","reply":"` + strings.Repeat("a", maxResponseBytes) + `"}`
	client := newTestClient(t, &mockDoer{doFunc: func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewReader([]byte(huge)))}, nil
	}})

	_, err := client.Send(context.Background(), models.ChatRequest{Message: "hi"})
	assert.True(t, apierrors.IsTransportError(err), "a truncated body is not valid JSON")
}

func TestExtractReply(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"reply field", `{"status":"success","reply":"Hello"}`, "Hello"},
		{"empty reply wins over data", `{"status":"success","reply":"","data":"x"}`, ""},
		{"data string fallback", `{"status":"success","message":"处理成功","data":"agent says hi"}`, "agent says hi"},
		{"empty data falls back to message", `{"status":"success","message":"处理成功","data":""}`, "处理成功"},
		{"object data falls back to message", `{"status":"success","message":"ok","data":{"a":1}}`, "ok"},
		{"nothing", `{"status":"success"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractReply(gjson.Parse(tt.body)); got != tt.want {
				t.Errorf("extractReply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewClientFromConfig_DefaultHeaders(t *testing.T) {
	doer := &mockDoer{doFunc: jsonResponse(200, `{"status":"success","reply":"ok"}`)}
	cfg := config.DefaultConfig()
	cfg.Locale = "en"

	client, err := NewClientFromConfig(cfg, WithDoer(doer))
	require.NoError(t, err)

	_, err = client.Send(context.Background(), models.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, models.UserAgent, doer.lastReq.Header.Get("User-Agent"))
	assert.Equal(t, "en", doer.lastReq.Header.Get("Accept-Language"))
}
