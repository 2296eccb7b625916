package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/matzehuels/castgraph/pkg/errors"
	"github.com/matzehuels/castgraph/pkg/integrations"
)

// Defaults for the chat completion endpoint.
const (
	DefaultBaseURL     = "https://api.sambanova.ai/v1"
	DefaultModel       = "Qwen2.5-Coder-32B-Instruct"
	DefaultTemperature = 0.1
	DefaultTopP        = 0.1
	DefaultTimeout     = 120 * time.Second
)

// Config configures a chat completion client. Zero fields take defaults.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	TopP        float64
	Timeout     time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.TopP == 0 {
		c.TopP = DefaultTopP
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// System returns a system message.
func System(content string) Message { return Message{Role: "system", Content: content} }

// User returns a user message.
func User(content string) Message { return Message{Role: "user", Content: content} }

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client calls a chat completion endpoint.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	cfg Config
}

// NewClient creates a chat completion client.
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	var headers map[string]string
	if cfg.APIKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + cfg.APIKey}
	}
	return &Client{
		Client: integrations.NewClient(nil, "llm:", 0, headers).WithTimeout(cfg.Timeout),
		cfg:    cfg,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.cfg.Model }

// Complete sends messages and returns the first choice's content, trimmed
// and with any Markdown code fence removed.
//
// Returns an ErrCodeNetwork error when the endpoint is unreachable, an
// ErrCodeServer error for non-2xx responses, and ErrCodeMalformedResponse
// when the body carries no choices.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.PostJSON(ctx, integrations.JoinURL(c.cfg.BaseURL, "chat/completions"), nil, chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		TopP:        c.cfg.TopP,
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "chat completion unreachable")
	}

	var out chatResponse
	decodeErr := json.Unmarshal(resp.Body, &out)
	if !resp.OK() {
		reason := ""
		if decodeErr == nil && out.Error != nil {
			reason = out.Error.Message
		}
		if reason == "" {
			reason = fmt.Sprintf("chat completion failed with status %d", resp.StatusCode)
		}
		return "", errors.Server(resp.StatusCode, reason)
	}
	if decodeErr != nil {
		return "", errors.Wrap(errors.ErrCodeMalformedResponse, decodeErr, "decode chat completion")
	}
	if len(out.Choices) == 0 {
		return "", errors.New(errors.ErrCodeMalformedResponse, "chat completion returned no choices")
	}
	return StripFence(out.Choices[0].Message.Content), nil
}

var fenceRE = regexp.MustCompile("(?s)^```[a-zA-Z0-9_-]*\\s*\\n?(.*?)\\n?```$")

// StripFence trims content and removes a surrounding Markdown code fence.
func StripFence(content string) string {
	s := strings.TrimSpace(content)
	if m := fenceRE.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}
