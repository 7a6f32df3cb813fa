// Package gemini generates chat replies through the Generative Language API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/matheus3301/teleclone/internal/model"
	"go.uber.org/zap"
	generativelanguage "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.5-flash"

	// Persona is attached to every request as the system instruction.
	Persona = "You are a witty, helpful friend on Telegram. Keep responses short (max 2-3 sentences), use modern slang/emojis, and be informal."
)

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("missing GEMINI_API_KEY")

// Generator produces a reply to prompt given the prior turns.
type Generator interface {
	Generate(ctx context.Context, history []model.HistoryEntry, prompt string) (string, error)
}

// Config holds provider settings. APIKey is a secret and must never be logged.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// ConfigFromEnv reads GEMINI_API_KEY and GEMINI_BASE_URL.
func ConfigFromEnv() Config {
	return Config{
		APIKey:  strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		BaseURL: strings.TrimSpace(os.Getenv("GEMINI_BASE_URL")),
	}
}

// Client is a Generator backed by the generativelanguage v1beta service.
type Client struct {
	svc     *generativelanguage.Service
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

var _ Generator = (*Client)(nil)

// New creates a client. BaseURL, when set, replaces the provider endpoint.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}
	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create generative language service: %w", err)
	}

	logger.Info("gemini client configured",
		zap.String("model", cfg.Model),
		zap.Bool("custom_endpoint", cfg.BaseURL != ""),
	)
	return &Client{
		svc:     svc,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger.With(zap.String("client", "gemini")),
	}, nil
}

// Generate sends the history followed by prompt as a final user turn and
// returns the first part of the first candidate, or "" when there is none.
func (c *Client) Generate(ctx context.Context, history []model.HistoryEntry, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &generativelanguage.GenerateContentRequest{
		Contents:          Contents(history, prompt),
		SystemInstruction: &generativelanguage.Content{Parts: []*generativelanguage.Part{{Text: Persona}}},
	}
	start := time.Now()
	resp, err := c.svc.Models.GenerateContent("models/"+c.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	c.logger.Debug("generate content finished",
		zap.Int("turns", len(req.Contents)),
		zap.Int("candidates", len(resp.Candidates)),
		zap.Duration("took", time.Since(start)),
	)
	return FirstText(resp), nil
}

// Contents maps history turns plus the prompt to provider contents.
func Contents(history []model.HistoryEntry, prompt string) []*generativelanguage.Content {
	contents := make([]*generativelanguage.Content, 0, len(history)+1)
	for _, h := range history {
		contents = append(contents, &generativelanguage.Content{
			Role:  string(h.Role),
			Parts: []*generativelanguage.Part{{Text: h.Parts}},
		})
	}
	return append(contents, &generativelanguage.Content{
		Role:  string(model.RoleUser),
		Parts: []*generativelanguage.Part{{Text: prompt}},
	})
}

// FirstText returns the text of the first part of the first candidate.
func FirstText(resp *generativelanguage.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return ""
	}
	return content.Parts[0].Text
}
