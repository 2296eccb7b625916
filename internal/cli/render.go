package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/pipeline"
	"github.com/matzehuels/castgraph/pkg/viewport"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file (single format) or base path (multiple)
	book    string // book id to analyze instead of reading a graph file
	part    int    // part index sent with --book
	formats string // comma-separated output formats
	local   bool   // analyze in-process
	noCache bool   // disable caching
}

// renderCommand creates the render command for drawing a character graph.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a character graph to SVG, PNG, DOT or JSON",
		Long: `Render a character graph to SVG, PNG, DOT or JSON.

The graph comes from a graph.json file (produced by 'analyze') or, with
--book, straight from the analysis service. The force-directed layout is
computed, fitted to the frame and drawn with node size for importance and
stroke width for relationship weight. --focus highlights one character and
their relationships.

Layouts and artifacts are cached locally for faster subsequent runs.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(ro.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			input, err := c.renderSource(&opts, &ro, args)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), input, opts, ro)
		},
	}

	// Source flags
	cmd.Flags().StringVar(&ro.book, "book", "", "analyze this Project Gutenberg book id instead of reading a file")
	cmd.Flags().IntVar(&ro.part, "part", 0, "part of the book to analyze (default from config)")
	cmd.Flags().BoolVar(&ro.local, "local", false, "analyze in-process instead of calling the service")

	// Common flags
	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&ro.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute cached layouts and artifacts")

	// Render flags
	cmd.Flags().StringVar(&opts.Focus, "focus", "", "character to highlight with their relationships")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "frame width (default from config)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "frame height (default from config)")
	cmd.Flags().BoolVar(&opts.HideEdgeLabels, "no-labels", false, "hide relationship type labels")

	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// renderSource fills the graph source of opts and returns the name used to
// derive output paths.
func (c *CLI) renderSource(opts *pipeline.Options, ro *renderOpts, args []string) (string, error) {
	switch {
	case ro.book != "" && len(args) > 0:
		return "", fmt.Errorf("give either a graph file or --book, not both")
	case ro.book != "":
		id, err := validateBookID(ro.book)
		if err != nil {
			return "", err
		}
		opts.BookID = id
		opts.PartIndex = ro.part
		if opts.PartIndex == 0 {
			opts.PartIndex = c.Config.Analysis.PartIndex
		}
		return id, nil
	case len(args) == 1:
		r, err := graph.ReadResultFile(args[0])
		if err != nil {
			return "", fmt.Errorf("load graph %s: %w", args[0], err)
		}
		opts.Graph = &r
		return args[0], nil
	default:
		return "", fmt.Errorf("a graph file or --book is required")
	}
}

// runRender runs the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, ro renderOpts) error {
	runner, err := c.newRunner(ro.noCache, ro.local)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	c.applyViewDefaults(&opts)
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering character graph...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    ro.output,
		nodes:     result.Stats.NodeCount,
		edges:     result.Stats.EdgeCount,
		cacheHit:  result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
	})
}

// applyViewDefaults fills the frame and layout settings from the config.
func (c *CLI) applyViewDefaults(opts *pipeline.Options) {
	if opts.Width == 0 {
		opts.Width = float64(c.Config.View.Width)
	}
	if opts.Height == 0 {
		if px, ok := viewport.Pixels(c.Config.View.Height); ok {
			opts.Height = float64(px)
		}
	}
	opts.Layout = c.Config.Layout
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactWriteParams holds everything writeArtifacts needs.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	nodes     int
	edges     int
	cacheHit  bool
}

// writeArtifacts writes one file per format and prints a summary.
func writeArtifacts(p artifactWriteParams) error {
	var paths []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(p.output, p.input, format, len(p.formats) == 1)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Render complete")
	for _, path := range paths {
		printFile(path)
	}
	printGraphSummary(p.nodes, p.edges, p.cacheHit)
	return nil
}

// outputPath returns where one format is written. A single format goes to
// output verbatim when it is set.
func outputPath(output, input, format string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, input) + "." + extension(format)
}

// basePath derives the base output path from the output and input paths.
// Known format extensions and a trailing ".graph" are stripped.
func basePath(output, input string) string {
	if output == "" {
		output = input
	}
	for {
		ext := filepath.Ext(output)
		name := strings.TrimPrefix(ext, ".")
		if ext == "" || !(slices.Contains(pipeline.ValidFormats, name) || name == "graph" || name == "layout") {
			return output
		}
		output = strings.TrimSuffix(output, ext)
	}
}

// extension maps a format to its file extension. JSON layouts get their own
// suffix so they never overwrite the graph file they came from.
func extension(format string) string {
	if format == pipeline.FormatJSON {
		return "layout.json"
	}
	return format
}
