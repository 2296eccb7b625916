package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/castgraph/pkg/errors"
	"github.com/matzehuels/castgraph/pkg/graph"
)

func serve(t *testing.T, status int, body string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return NewClient(server.URL, time.Second)
}

func TestAnalyze(t *testing.T) {
	var got Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/analyze" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"result":{"nodes":[{"id":"A","weight":3}],"edges":[{"source":"A","target":"B","type":"interaction","description":"talks","weight":2}]}}`))
	}))
	defer server.Close()

	result, err := NewClient(server.URL+"/", time.Second).Analyze(context.Background(), "1342", 4)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.BookID != "1342" || got.PartIndex != 4 {
		t.Errorf("request = %+v", got)
	}
	if len(result.Nodes) != 1 || len(result.Edges) != 1 {
		t.Fatalf("result = %+v", result)
	}
	if result.Edges[0].Target != "B" || result.Edges[0].Weight != 2 {
		t.Errorf("edge = %+v", result.Edges[0])
	}
}

func TestAnalyzeToleratesBadNodes(t *testing.T) {
	tests := []struct {
		name  string
		nodes string
		want  []graph.Node
	}{
		{"WrongTypedWeight", `[{"id":"A","weight":"heavy"}]`, []graph.Node{{ID: "A", Weight: graph.DefaultNodeWeight}}},
		{"NumericID", `[{"id":7,"weight":3}]`, []graph.Node{}},
		{"MissingWeight", `[{"id":"A"}]`, []graph.Node{{ID: "A", Weight: graph.DefaultNodeWeight}}},
		{"NotAnObject", `["A",{"id":"B","weight":2}]`, []graph.Node{{ID: "B", Weight: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"result":{"nodes":` + tt.nodes + `,"edges":[{"source":"A","target":"B","type":"ally","description":"d","weight":1}]}}`
			result, err := serve(t, 200, body).Analyze(context.Background(), "1342", 4)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if !reflect.DeepEqual(result.Nodes, tt.want) {
				t.Errorf("nodes = %+v, want %+v", result.Nodes, tt.want)
			}
			if len(result.Edges) != 1 {
				t.Errorf("edges = %d, want 1", len(result.Edges))
			}
		})
	}
}

func TestAnalyzeEmptyGraph(t *testing.T) {
	result, err := serve(t, 200, `{"result":{"nodes":[],"edges":[]}}`).Analyze(context.Background(), "84", 4)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Nodes == nil || result.Edges == nil {
		t.Error("empty arrays should decode to non-nil slices")
	}
}

func TestAnalyzeFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantCode   errors.Code
		wantMsg    string
		wantStatus int
	}{
		{"server reason", 422, `{"error":"book not found"}`, errors.ErrCodeServer, "book not found", 422},
		{"server no reason", 500, `{}`, errors.ErrCodeServer, errors.FallbackMessage, 500},
		{"server non-json", 502, `Bad Gateway`, errors.ErrCodeServer, errors.FallbackMessage, 502},
		{"missing result", 200, `{}`, errors.ErrCodeMalformedResponse, errors.FallbackMessage, 0},
		{"null result", 200, `{"result":null}`, errors.ErrCodeMalformedResponse, errors.FallbackMessage, 0},
		{"missing edges", 200, `{"result":{"nodes":[]}}`, errors.ErrCodeMalformedResponse, errors.FallbackMessage, 0},
		{"missing nodes", 200, `{"result":{"edges":[]}}`, errors.ErrCodeMalformedResponse, errors.FallbackMessage, 0},
		{"edges not array", 200, `{"result":{"nodes":[],"edges":{}}}`, errors.ErrCodeMalformedResponse, errors.FallbackMessage, 0},
		{"not json", 200, `<html>`, errors.ErrCodeMalformedResponse, errors.FallbackMessage, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := serve(t, tt.status, tt.body).Analyze(context.Background(), "1", 4)
			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("error = %v, want code %s", err, tt.wantCode)
			}
			if msg := errors.UserMessage(err); msg != tt.wantMsg {
				t.Errorf("UserMessage = %q, want %q", msg, tt.wantMsg)
			}
			if got := errors.StatusCode(err); got != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}

func TestAnalyzeUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, time.Second).Analyze(context.Background(), "1", 4)
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Fatalf("error = %v, want ErrCodeNetwork", err)
	}
	if msg := errors.UserMessage(err); msg != errors.FallbackMessage {
		t.Errorf("UserMessage = %q", msg)
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(server.URL, time.Second).Analyze(ctx, "1", 4)
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("error = %v, want ErrCodeTimeout", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", 0)
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL = %q", c.BaseURL())
	}
	if c.HTTPClient().Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v", c.HTTPClient().Timeout)
	}
}
