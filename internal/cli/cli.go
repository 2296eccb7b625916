// Package cli implements the castgraph command-line interface.
//
// # Commands
//
//   - analyze: extract a book's character graph into graph.json
//   - render: lay out and draw a graph as SVG, PNG, DOT or JSON
//   - explore: browse a book's graph interactively in the terminal
//   - serve: run the analysis service (POST /analyze)
//   - config: show or initialize the config file
//   - cache: manage the local cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// also attached to the command context for code that only sees a
// context.Context.
package cli

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/castgraph/internal/config"
	"github.com/matzehuels/castgraph/pkg/analysis"
	"github.com/matzehuels/castgraph/pkg/buildinfo"
	"github.com/matzehuels/castgraph/pkg/cache"
	"github.com/matzehuels/castgraph/pkg/errors"
	"github.com/matzehuels/castgraph/pkg/fetch"
	"github.com/matzehuels/castgraph/pkg/graph"
	analysisclient "github.com/matzehuels/castgraph/pkg/integrations/analysis"
	"github.com/matzehuels/castgraph/pkg/integrations/gutenberg"
	"github.com/matzehuels/castgraph/pkg/integrations/llm"
	"github.com/matzehuels/castgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	cfg := config.Default()
	return &CLI{
		Logger: newLogger(w, level),
		Config: &cfg,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Castgraph maps who is who in a book",
		Long:         `Castgraph extracts the character relationships of a Project Gutenberg book and draws them as an interactive force-directed graph.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+defaultConfigPath()+")")

	// Register all subcommands
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

func defaultConfigPath() string {
	p, err := config.Path()
	if err != nil {
		return "none"
	}
	return p
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. With local set the books
// are analyzed in-process instead of through the analysis service.
func (c *CLI) newRunner(noCache, local bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.newAnalyzer(cache, local), c.Logger), nil
}

// newAnalyzer returns the analysis client for the configured service, or an
// in-process analysis service when local is set.
func (c *CLI) newAnalyzer(backend cache.Cache, local bool) fetch.Analyzer {
	if !local {
		return analysisclient.NewClient(c.Config.Analysis.URL, c.Config.Analysis.Timeout)
	}
	svc := c.newService(backend)
	return fetch.AnalyzerFunc(func(ctx context.Context, bookID string, partIndex int) (graph.Result, error) {
		id, err := errors.ParseBookID(bookID)
		if err != nil {
			return graph.Result{}, err
		}
		out, err := svc.Analyze(ctx, analysis.Request{BookID: id, PartIndex: partIndex})
		if err != nil {
			return graph.Result{}, err
		}
		return out.Result, nil
	})
}

// newService builds the analysis service from the server settings.
func (c *CLI) newService(backend cache.Cache) *analysis.Service {
	s := c.Config.Server
	books := gutenberg.NewClient(backend, cache.HTTPTTL)
	model := llm.NewClient(llm.Config{
		BaseURL: s.LLMBaseURL,
		APIKey:  s.APIKey,
		Model:   s.LLMModel,
	})
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "model:"+s.LLMModel+":")
	svc := analysis.NewService(books, model, backend, keyer, c.Logger)
	svc.TTL = s.CacheTTL
	return svc
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/castgraph/).
func cacheDir() (string, error) {
	return config.CacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// validateBookID rejects book ids the analysis service would refuse.
func validateBookID(raw string) (string, error) {
	id, err := errors.ParseBookID(raw)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(id), nil
}
