// Package config loads castgraph settings.
//
// Settings come from three places, later ones winning: built-in defaults,
// the TOML file at [Path], and CASTGRAPH_* environment variables. Command
// line flags are applied on top by the CLI. A missing file is not an error.
//
//	[analysis]
//	url = "http://localhost:5059"
//	part_index = 4
//	timeout = "2m"
//
//	[layout]
//	num_iter = 1500
//
//	[view]
//	height = "600px"
//
//	[server]
//	addr = ":5059"
//	cache = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/castgraph/pkg/cache"
	"github.com/matzehuels/castgraph/pkg/errors"
	"github.com/matzehuels/castgraph/pkg/fetch"
	"github.com/matzehuels/castgraph/pkg/integrations/analysis"
	"github.com/matzehuels/castgraph/pkg/integrations/llm"
	"github.com/matzehuels/castgraph/pkg/layout"
	"github.com/matzehuels/castgraph/pkg/viewport"
)

// AppName names the config and cache directories.
const AppName = "castgraph"

// Cache backends accepted by Server.Cache.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete settings tree.
type Config struct {
	Analysis Analysis      `toml:"analysis"`
	Layout   layout.Config `toml:"layout"`
	View     View          `toml:"view"`
	Server   Server        `toml:"server"`
}

// Analysis configures the client side of the analysis call.
type Analysis struct {
	URL       string        `toml:"url"`        // CASTGRAPH_ANALYSIS_URL
	PartIndex int           `toml:"part_index"` // CASTGRAPH_PART_INDEX
	Timeout   time.Duration `toml:"timeout"`    // CASTGRAPH_ANALYSIS_TIMEOUT
}

// View configures the render surface.
type View struct {
	Height string `toml:"height"` // CASTGRAPH_VIEW_HEIGHT
	Width  int    `toml:"width"`  // CASTGRAPH_VIEW_WIDTH
}

// Server configures the analysis service.
type Server struct {
	Addr     string        `toml:"addr"`      // CASTGRAPH_SERVER_ADDR
	Cache    string        `toml:"cache"`     // CASTGRAPH_CACHE: file, redis or none
	CacheTTL time.Duration `toml:"cache_ttl"` // CASTGRAPH_CACHE_TTL

	RedisAddr     string `toml:"redis_addr"`     // CASTGRAPH_REDIS_ADDR
	RedisPassword string `toml:"redis_password"` // CASTGRAPH_REDIS_PASSWORD
	RedisDB       int    `toml:"redis_db"`       // CASTGRAPH_REDIS_DB

	LLMBaseURL string `toml:"llm_base_url"` // CASTGRAPH_LLM_BASE_URL
	LLMModel   string `toml:"llm_model"`    // CASTGRAPH_LLM_MODEL
	APIKeyEnv  string `toml:"api_key_env"`  // variable holding the API key

	// APIKey is read from the variable named by APIKeyEnv, never from the file.
	APIKey string `toml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Analysis: Analysis{
			URL:       analysis.DefaultBaseURL,
			PartIndex: fetch.DefaultPartIndex,
			Timeout:   analysis.DefaultTimeout,
		},
		Layout: layout.DefaultConfig(),
		View: View{
			Height: viewport.DefaultHeight,
			Width:  960,
		},
		Server: Server{
			Addr:       ":5059",
			Cache:      CacheFile,
			CacheTTL:   cache.AnalysisTTL,
			RedisAddr:  "localhost:6379",
			LLMBaseURL: llm.DefaultBaseURL,
			LLMModel:   llm.DefaultModel,
			APIKeyEnv:  "OPENAI_API_KEY",
		},
	}
}

// Load reads the file at path (or [Path] when empty), applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := Path()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	c.Analysis.URL = envOrDefault("CASTGRAPH_ANALYSIS_URL", c.Analysis.URL)
	c.View.Height = envOrDefault("CASTGRAPH_VIEW_HEIGHT", c.View.Height)
	c.Server.Addr = envOrDefault("CASTGRAPH_SERVER_ADDR", c.Server.Addr)
	c.Server.Cache = envOrDefault("CASTGRAPH_CACHE", c.Server.Cache)
	c.Server.RedisAddr = envOrDefault("CASTGRAPH_REDIS_ADDR", c.Server.RedisAddr)
	c.Server.RedisPassword = envOrDefault("CASTGRAPH_REDIS_PASSWORD", c.Server.RedisPassword)
	c.Server.LLMBaseURL = envOrDefault("CASTGRAPH_LLM_BASE_URL", c.Server.LLMBaseURL)
	c.Server.LLMModel = envOrDefault("CASTGRAPH_LLM_MODEL", c.Server.LLMModel)
	if c.Server.APIKeyEnv != "" {
		c.Server.APIKey = os.Getenv(c.Server.APIKeyEnv)
	}

	var err error
	if c.Analysis.PartIndex, err = envInt("CASTGRAPH_PART_INDEX", c.Analysis.PartIndex); err != nil {
		return err
	}
	if c.View.Width, err = envInt("CASTGRAPH_VIEW_WIDTH", c.View.Width); err != nil {
		return err
	}
	if c.Server.RedisDB, err = envInt("CASTGRAPH_REDIS_DB", c.Server.RedisDB); err != nil {
		return err
	}
	if c.Analysis.Timeout, err = envDuration("CASTGRAPH_ANALYSIS_TIMEOUT", c.Analysis.Timeout); err != nil {
		return err
	}
	if c.Server.CacheTTL, err = envDuration("CASTGRAPH_CACHE_TTL", c.Server.CacheTTL); err != nil {
		return err
	}
	return nil
}

// Validate checks values the file or environment may have broken.
func (c *Config) Validate() error {
	if err := errors.ValidateURL(c.Analysis.URL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "analysis.url: %s", errors.UserMessage(err))
	}
	if c.Analysis.Timeout <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "analysis.timeout must be positive")
	}
	if c.View.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "view.width must be positive")
	}
	switch c.Server.Cache {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "server.cache must be file, redis or none, got %q", c.Server.Cache)
	}
	return c.Layout.Validate()
}

// Path returns the config file location ($XDG_CONFIG_HOME/castgraph/config.toml).
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		dir, err = home, nil
	}
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, "config.toml"), nil
}

// CacheDir returns the cache directory ($XDG_CACHE_HOME/castgraph).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Write stores cfg at path in TOML, creating parent directories.
func Write(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "%s: %q is not an integer", key, v)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: %q is not a duration", key, v)
	}
	return d, nil
}
