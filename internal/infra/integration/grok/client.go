package grok

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.x.ai/v1"
	DefaultModel   = "grok-3-mini"

	temperature = 0.2

	dryRunMinScore  = 55
	dryRunMaxScore  = 92
	dryRunRationale = "Dry-run rationale based on provided fields."
)

var dryRunTags = []string{"ai", "saas", "mid-market"}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client talks to an OpenAI-compatible chat completions endpoint. Without an API
// key it runs dry: no network, a synthetic qualification-shaped answer.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
	logger  *zap.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

type Option func(*Client)

// WithRand fixes the dry-run score source, for tests.
func WithRand(r *rand.Rand) Option {
	return func(c *Client) { c.rnd = r }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(cfg Config, logger *zap.Logger, opts ...Option) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	c := &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   model,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) IsDryRun() bool {
	return c.apiKey == ""
}

func (c *Client) Model() string {
	return c.model
}

// Chat sends the system and user instructions as a two-message conversation.
// Transport and non-2xx errors are returned; a body that is not a chat
// completion is returned as a response without choices so ParseStructured can
// record it.
func (c *Client) Chat(ctx context.Context, system, user string) (*ChatResponse, error) {
	if c.IsDryRun() {
		return c.fake()
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("grok request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read grok response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("grok returned an error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(raw, 512)),
		)
		return nil, fmt.Errorf("grok api error: %s", resp.Status)
	}

	c.logger.Debug("grok chat completed",
		zap.String("model", c.model),
		zap.Duration("took", time.Since(start)),
	)

	var out ChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		c.logger.Warn("grok response is not a chat completion", zap.Error(err))
		out = ChatResponse{}
	}
	out.Raw = raw
	return &out, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

func (c *Client) fake() (*ChatResponse, error) {
	content, err := json.Marshal(map[string]any{
		"score":     c.dryRunScore(),
		"rationale": dryRunRationale,
		"tags":      dryRunTags,
	})
	if err != nil {
		return nil, err
	}

	resp := &ChatResponse{
		Model: "dry-run",
		Choices: []Choice{{
			Message:      ChatMessage{Role: "assistant", Content: string(content)},
			FinishReason: "stop",
		}},
	}
	resp.Raw, err = json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) dryRunScore() int {
	span := dryRunMaxScore - dryRunMinScore + 1
	if c.rnd == nil {
		return dryRunMinScore + rand.IntN(span)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return dryRunMinScore + c.rnd.IntN(span)
}

const parseError = "failed to parse model response"

// ParseStructured decodes the first choice's content as a JSON object. It never
// fails: anything unusable becomes a ParseFailure carrying the raw response.
func ParseStructured(resp *ChatResponse) Structured {
	if resp == nil || len(resp.Choices) == 0 {
		return failure(resp)
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	var data map[string]any
	if err := dec.Decode(&data); err != nil || data == nil {
		return failure(resp)
	}
	// Anything after the object, even a stray "}", is a failure.
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		return failure(resp)
	}
	return Structured{Data: data}
}

func failure(resp *ChatResponse) Structured {
	var raw json.RawMessage
	switch {
	case resp == nil:
		raw = json.RawMessage("null")
	case len(resp.Raw) > 0 && json.Valid(resp.Raw):
		raw = resp.Raw
	case len(resp.Raw) > 0:
		raw, _ = json.Marshal(string(resp.Raw))
	default:
		raw, _ = json.Marshal(resp)
	}
	return Structured{Failure: &ParseFailure{Error: parseError, Raw: raw}}
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
