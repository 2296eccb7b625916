package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/castgraph/pkg/errors"
)

// =============================================================================
// Result Serialization API
// =============================================================================

// MarshalResult converts an analysis result to indented JSON bytes.
// Nil slices are written as empty arrays so the output always passes
// [DecodeResult].
func MarshalResult(r Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeResultTo(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteResultFile writes an analysis result to a JSON file.
// The file is created with 0644 permissions.
func WriteResultFile(r Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeResultTo(r, f)
}

// WriteResult writes an analysis result as JSON to an io.Writer.
func WriteResult(r Result, w io.Writer) error {
	return writeResultTo(r, w)
}

// ReadResultFile reads a JSON graph file.
// The file must contain a "nodes" and an "edges" array; see [DecodeResult].
func ReadResultFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeResult(data)
}

// ReadResult decodes a JSON graph from an io.Reader.
func ReadResult(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read: %w", err)
	}
	return DecodeResult(data)
}

// DecodeResult parses an analysis result and validates its shape.
//
// Both "nodes" and "edges" must be present as JSON arrays; anything else is
// an [errors.ErrCodeMalformedResponse] error. Node data is read leniently:
// entries without a string id are dropped and a missing or non-numeric
// weight becomes [DefaultNodeWeight]. [BuildSnapshot] synthesizes whatever
// edge endpoints the remaining nodes do not cover.
func DecodeResult(data []byte) (Result, error) {
	var wire struct {
		Nodes *[]json.RawMessage `json:"nodes"`
		Edges *[]Edge            `json:"edges"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeMalformedResponse, err, "malformed analysis response")
	}
	if wire.Edges == nil {
		return Result{}, errors.New(errors.ErrCodeMalformedResponse, "malformed analysis response: missing edges")
	}
	if wire.Nodes == nil {
		return Result{}, errors.New(errors.ErrCodeMalformedResponse, "malformed analysis response: missing nodes")
	}
	return Result{Nodes: decodeNodes(*wire.Nodes), Edges: *wire.Edges}, nil
}

// decodeNodes keeps the usable entries of a raw node list.
func decodeNodes(raw []json.RawMessage) []Node {
	nodes := make([]Node, 0, len(raw))
	for _, msg := range raw {
		var entry struct {
			ID     any `json:"id"`
			Weight any `json:"weight"`
		}
		if json.Unmarshal(msg, &entry) != nil {
			continue
		}
		id, ok := entry.ID.(string)
		if !ok {
			continue
		}
		weight, ok := entry.Weight.(float64)
		if !ok {
			weight = DefaultNodeWeight
		}
		nodes = append(nodes, Node{ID: id, Weight: weight})
	}
	return nodes
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeResultTo(r Result, w io.Writer) error {
	if r.Nodes == nil {
		r.Nodes = []Node{}
	}
	if r.Edges == nil {
		r.Edges = []Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
