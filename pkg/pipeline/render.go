package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/observability"
	"github.com/matzehuels/castgraph/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats.
//
// The DOT source is built once and shared by the svg, png and dot outputs;
// json is the serialized layout itself.
func Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, err := renderFormats(ctx, l, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	var dot string
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		if format == FormatJSON {
			data, err := graph.MarshalLayout(l)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", format, err)
			}
			artifacts[format] = data
			continue
		}

		if dot == "" {
			dot = nodelink.ToDOT(l, nodelink.Options{HideEdgeLabels: opts.HideEdgeLabels})
		}
		data, err := nodelink.Render(ctx, dot, format)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
