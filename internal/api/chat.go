package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	http "github.com/bogdanfinn/fhttp"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	apierrors "github.com/synapse-ai/synapse-chat/internal/errors"
	"github.com/synapse-ai/synapse-chat/internal/models"
)

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 1 << 20

// Send posts one message and decodes the answer.
//
// The HTTP status code is not inspected: any JSON body is a well-formed
// answer, and its "status" field alone decides success. A body that is not
// JSON, or any failure before the body is read, is a TransportError. A JSON
// body whose status is not "success" is an ApplicationError.
func (c *Client) Send(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	endpoint := c.Endpoint()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for key, value := range c.headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.doer.Do(httpReq)
	if err != nil {
		return nil, apierrors.NewTransportError("send message", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		transportErr := apierrors.NewTransportError("read response", endpoint, err)
		transportErr.StatusCode = resp.StatusCode
		return nil, transportErr
	}

	return parseResponse(endpoint, resp.StatusCode, body)
}

// parseResponse decodes a backend body
func parseResponse(endpoint string, statusCode int, body []byte) (*models.ChatResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewInvalidBodyError(endpoint, statusCode)
	}

	root := gjson.ParseBytes(body)
	if root.Type == gjson.Null {
		// valid JSON, but there is no object to read a status from
		return nil, apierrors.NewInvalidBodyError(endpoint, statusCode)
	}

	out := &models.ChatResponse{
		Status:  root.Get("status").String(),
		Reply:   extractReply(root),
		Message: root.Get("message").String(),
		UserID:  root.Get("user_id").String(),
	}

	if !out.OK() {
		message := out.Message
		if message == "" {
			message = root.Get("detail").String()
		}
		return nil, apierrors.NewApplicationError(endpoint, out.Status, message)
	}

	return out, nil
}

// extractReply reads the reply text, tolerating the generic envelope
// {status, message, data} used by the agent endpoint.
func extractReply(root gjson.Result) string {
	if reply := root.Get("reply"); reply.Exists() {
		return reply.String()
	}
	if data := root.Get("data"); data.Type == gjson.String && data.String() != "" {
		return data.String()
	}
	return root.Get("message").String()
}
