// Package proxyclient calls the generation proxy's chat endpoint.
package proxyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matheus3301/teleclone/internal/model"
	"go.uber.org/zap"
)

const chatPath = "/api/gemini/chat"

// StatusError is returned for non-2xx answers. Message carries the server's
// message field when the body had one.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("proxy returned %d", e.StatusCode)
	}
	return fmt.Sprintf("proxy returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to a teleclone server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a client for the server at baseURL. A non-positive timeout
// defaults to 30s.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(zap.String("client", "proxy")),
	}
}

// Chat sends req and returns the generated response text.
func (c *Client) Chat(ctx context.Context, req model.ChatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}
	c.logger.Debug("chat request finished",
		zap.Int("status", resp.StatusCode),
		zap.Int("history", len(req.History)),
		zap.Duration("took", time.Since(start)),
	)

	var out model.ChatResponse
	decodeErr := json.Unmarshal(raw, &out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Message: out.Message}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode chat response: %w", decodeErr)
	}
	return out.Response, nil
}
