package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Positioned Graph Format
// =============================================================================

// Layout is the serialization format for a laid-out character graph.
//
// It carries everything a render surface needs: node positions with their
// visual size, edges with their stroke width, and the highlight membership
// of the current selection. Coordinates are in frame space, with (0, 0) at
// the top-left corner of a Width x Height frame.
type Layout struct {
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Focused string       `json:"focused,omitempty"`
	Nodes   []PlacedNode `json:"nodes"`
	Edges   []PlacedEdge `json:"edges"`
}

// PlacedNode is a character with its position and visual size.
type PlacedNode struct {
	ID          string  `json:"id"`
	Weight      float64 `json:"weight"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Size        float64 `json:"size"`
	Highlighted bool    `json:"highlighted,omitempty"`
	Focused     bool    `json:"focused,omitempty"`
}

// PlacedEdge is a relationship with its stroke width.
type PlacedEdge struct {
	ID          string  `json:"id"`
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Weight      float64 `json:"weight"`
	Width       float64 `json:"width"`
	Highlighted bool    `json:"highlighted,omitempty"`
}

// Node returns the placed node with the given id.
func (l *Layout) Node(id string) (PlacedNode, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PlacedNode{}, false
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	if l.Nodes == nil {
		l.Nodes = []PlacedNode{}
	}
	if l.Edges == nil {
		l.Edges = []PlacedEdge{}
	}
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Every edge endpoint must refer to a node of the layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	ids := make(map[string]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		ids[n.ID] = true
	}
	for _, e := range l.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			return Layout{}, fmt.Errorf("layout edge %s references unknown node", e.ID)
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
