package analysis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/castgraph/pkg/errors"
	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/integrations"
)

// Defaults for the analysis client.
const (
	DefaultBaseURL = "http://localhost:5059"
	DefaultTimeout = 120 * time.Second
)

// Request is the POST /analyze body.
type Request struct {
	BookID    string `json:"book_id"`
	PartIndex int    `json:"part_index"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

// Client calls a remote analysis service.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a client for the service at baseURL. A zero timeout
// uses [DefaultTimeout].
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		Client:  integrations.NewClient(nil, "analysis:", 0, nil).WithTimeout(timeout),
		baseURL: baseURL,
	}
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.baseURL }

// Analyze requests the relationship graph of one part of a book.
//
// The book id is sent as-is; validation is the service's job. The returned
// result has both slices non-nil.
func (c *Client) Analyze(ctx context.Context, bookID string, partIndex int) (graph.Result, error) {
	resp, err := c.PostJSON(ctx, integrations.JoinURL(c.baseURL, "analyze"), nil, Request{
		BookID:    bookID,
		PartIndex: partIndex,
	})
	if err != nil {
		if ctx.Err() != nil {
			return graph.Result{}, errors.Wrap(errors.ErrCodeTimeout, err, errors.FallbackMessage)
		}
		return graph.Result{}, errors.Wrap(errors.ErrCodeNetwork, err, errors.FallbackMessage)
	}

	var body response
	decodeErr := json.Unmarshal(resp.Body, &body)

	if !resp.OK() {
		reason := ""
		if decodeErr == nil {
			reason = body.Error
		}
		return graph.Result{}, errors.Server(resp.StatusCode, reason)
	}
	if decodeErr != nil {
		return graph.Result{}, errors.Wrap(errors.ErrCodeMalformedResponse, decodeErr, errors.FallbackMessage)
	}
	if len(body.Result) == 0 || string(body.Result) == "null" {
		return graph.Result{}, errors.New(errors.ErrCodeMalformedResponse, errors.FallbackMessage)
	}

	result, err := graph.DecodeResult(body.Result)
	if err != nil {
		return graph.Result{}, errors.Wrap(errors.ErrCodeMalformedResponse, err, errors.FallbackMessage)
	}
	return result, nil
}
