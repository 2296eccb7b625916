package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/castgraph/internal/config"
	"github.com/matzehuels/castgraph/internal/server"
	"github.com/matzehuels/castgraph/pkg/cache"
	"github.com/matzehuels/castgraph/pkg/observability/prometheus"
)

// serveCommand creates the serve command that runs the analysis service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		backend   string
		redisAddr string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis service",
		Long: `Run the analysis service.

The service answers POST /analyze with {"book_id": ..., "part_index": ...}
by downloading the book from Project Gutenberg, cutting out the requested
part and asking the LLM for its characters and relationships. Results are
cached per book and part.

The LLM API key is read from the variable named by server.api_key_env
(OPENAI_API_KEY by default). Metrics are served at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.Config.Server
			if cmd.Flags().Changed("addr") {
				s.Addr = addr
			}
			if cmd.Flags().Changed("cache") {
				s.Cache = backend
			}
			if cmd.Flags().Changed("redis-addr") {
				s.RedisAddr = redisAddr
			}
			c.Config.Server = s
			if err := c.Config.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&backend, "cache", "", "cache backend: file, redis, none (default from config)")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "redis address for --cache redis")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

// runServe wires the service and blocks until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, metrics bool) error {
	logger := loggerFromContext(ctx)
	s := c.Config.Server

	if s.APIKey == "" {
		printWarning("No API key in $%s; extraction requests will fail", s.APIKeyEnv)
	}

	backend, err := serverCache(ctx, s)
	if err != nil {
		return fmt.Errorf("initialize %s cache: %w", s.Cache, err)
	}
	defer backend.Close()

	opts := server.Options{Logger: logger}
	if metrics {
		rec := prometheus.NewRecorder()
		rec.Install()
		opts.Metrics = rec.Handler()
	}

	srv := server.New(c.newService(backend), opts)

	printInfo("Analysis service on %s", StyleHighlight.Render(s.Addr))
	printDetail("cache: %s · model: %s", s.Cache, s.LLMModel)
	return srv.ListenAndServe(ctx, s.Addr)
}

// serverCache opens the configured cache backend.
func serverCache(ctx context.Context, s config.Server) (cache.Cache, error) {
	switch s.Cache {
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     s.RedisAddr,
			Password: s.RedisPassword,
			DB:       s.RedisDB,
			Prefix:   appName + ":",
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	case config.CacheNone:
		return cache.NewNullCache(), nil
	default:
		return newCache(false)
	}
}
