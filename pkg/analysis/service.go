package analysis

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/castgraph/pkg/cache"
	"github.com/matzehuels/castgraph/pkg/errors"
	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/integrations/llm"
	"github.com/matzehuels/castgraph/pkg/observability"
)

// MsgBookNotFound is the message of every book retrieval failure.
const MsgBookNotFound = "Book not found or unable to fetch"

// BookSource downloads the plain text of a book.
type BookSource interface {
	FetchBook(ctx context.Context, bookID int, refresh bool) (string, error)
}

// Extractor runs a chat completion and returns the reply content.
type Extractor interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// Request selects the book and part to analyze.
type Request struct {
	BookID    int
	PartIndex int
	Refresh   bool // Skip the cached result
}

// Outcome is a successful analysis.
type Outcome struct {
	Result   graph.Result
	Cached   bool
	Duration time.Duration
}

// Service turns books into relationship graphs with caching.
//
// Like the pipeline runner, a Service holds no per-request state and is safe
// for concurrent use.
type Service struct {
	Books     BookSource
	Extractor Extractor
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger

	// TTL is how long results stay cached. Zero uses cache.AnalysisTTL.
	TTL time.Duration
}

// NewService creates a service. A nil cache disables caching, a nil keyer
// uses [cache.DefaultKeyer] and a nil logger uses log.Default().
func NewService(books BookSource, extractor Extractor, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Service {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{Books: books, Extractor: extractor, Cache: c, Keyer: keyer, Logger: logger}
}

// Analyze returns the relationship graph of one part of a book.
func (s *Service) Analyze(ctx context.Context, req Request) (Outcome, error) {
	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, req.BookID, req.PartIndex)

	out, err := s.analyze(ctx, req)
	out.Duration = time.Since(start)
	hooks.OnAnalyzeComplete(ctx, req.BookID, req.PartIndex, len(out.Result.Nodes), out.Duration, err)
	if err != nil {
		s.Logger.Warn("analysis failed", "book", req.BookID, "part", req.PartIndex, "error", err)
		return Outcome{}, err
	}

	s.Logger.Info("analyzed book",
		"book", req.BookID,
		"part", req.PartIndex,
		"characters", len(out.Result.Nodes),
		"relationships", len(out.Result.Edges),
		"cached", out.Cached,
		"duration", out.Duration)
	return out, nil
}

func (s *Service) analyze(ctx context.Context, req Request) (Outcome, error) {
	key := s.Keyer.AnalysisKey(req.BookID, req.PartIndex)
	const keyType = "analysis"

	if !req.Refresh {
		data, hit, err := s.Cache.Get(ctx, key)
		if err != nil {
			s.Logger.Debug("cache read failed", "key", key, "error", err)
		}
		if hit {
			if r, err := graph.DecodeResult(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyType)
				return Outcome{Result: r, Cached: true}, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, keyType)
	}

	text, err := s.Books.FetchBook(ctx, req.BookID, req.Refresh)
	if err != nil {
		return Outcome{}, errors.Wrap(errors.ErrCodeBookNotFound, err, MsgBookNotFound)
	}

	excerpt := Excerpt(text, req.PartIndex)
	s.Logger.Debug("selected excerpt",
		"book", req.BookID,
		"parts", len(SplitParts(text)),
		"runes", len([]rune(excerpt)))

	r, err := s.extract(ctx, excerpt)
	if err != nil {
		return Outcome{}, err
	}

	if data, err := graph.MarshalResult(r); err == nil {
		if err := s.Cache.Set(ctx, key, data, s.ttl()); err != nil {
			s.Logger.Debug("cache write failed", "key", key, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyType, len(data))
		}
	}
	return Outcome{Result: r}, nil
}

func (s *Service) extract(ctx context.Context, excerpt string) (graph.Result, error) {
	content, err := s.Extractor.Complete(ctx, Messages(excerpt))
	if err != nil {
		return graph.Result{}, errors.Wrap(errors.ErrCodeExtraction, err, "%s", errors.UserMessage(err))
	}

	r, err := graph.DecodeResult([]byte(llm.StripFence(content)))
	if err != nil {
		return graph.Result{}, errors.Wrap(errors.ErrCodeExtraction, err, "%s", errors.UserMessage(err))
	}
	for _, e := range r.Edges {
		for _, id := range []string{e.Source, e.Target} {
			if err := errors.ValidateCharacterID(id); err != nil {
				return graph.Result{}, errors.Wrap(errors.ErrCodeExtraction, err, "%s", errors.UserMessage(err))
			}
		}
	}
	return r, nil
}

func (s *Service) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return cache.AnalysisTTL
}
