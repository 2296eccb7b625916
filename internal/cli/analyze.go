package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/castgraph/pkg/graph"
)

// analyzeCommand creates the analyze command for extracting a book's
// relationship graph.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		output    string
		partIndex int
		local     bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [book-id]",
		Short: "Extract the character graph of a Project Gutenberg book",
		Long: `Extract the character graph of a Project Gutenberg book.

The analyze command asks the analysis service (see 'serve') for the
characters and relationships in one part of the book and writes them as a
graph.json file that 'render' can draw.

With --local the book is downloaded and analyzed in-process; this needs the
LLM API key in the environment.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := validateBookID(args[0])
			if err != nil {
				return err
			}
			if partIndex == 0 {
				partIndex = c.Config.Analysis.PartIndex
			}
			return c.runAnalyze(cmd.Context(), bookID, partIndex, output, local, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <book-id>.graph.json, - for stdout)")
	cmd.Flags().IntVar(&partIndex, "part", 0, "part of the book to analyze (default from config)")
	cmd.Flags().BoolVar(&local, "local", false, "analyze in-process instead of calling the service")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runAnalyze fetches the graph and writes it.
func (c *CLI) runAnalyze(ctx context.Context, bookID string, partIndex int, output string, local, noCache bool) error {
	backend, err := newCache(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer backend.Close()

	analyzer := c.newAnalyzer(backend, local)
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Analyzing book %s...", bookID))
	spinner.Start()

	result, err := analyzer.Analyze(ctx, bookID, partIndex)
	if err != nil {
		spinner.StopWithError("Analysis failed")
		return fmt.Errorf("analyze book %s: %w", bookID, err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Analyzed book %s", bookID))

	if output == "-" {
		return graph.WriteResult(result, os.Stdout)
	}
	if output == "" {
		output = bookID + ".graph.json"
	}
	if err := graph.WriteResultFile(result, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	snap := graph.BuildSnapshot(result.Edges, result.Nodes)
	printSuccess("Analysis complete")
	printFile(output)
	printGraphSummary(snap.NodeCount(), snap.EdgeCount(), false)
	printCast(snap, 5)
	printNextStep("Render", appName+" render "+output)

	return nil
}
