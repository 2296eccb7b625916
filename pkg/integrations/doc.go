// Package integrations provides HTTP clients for the services castgraph talks to.
//
// # Overview
//
// Each remote API has its own subpackage:
//
//   - [analysis]: the castgraph analysis service (POST /analyze)
//   - [gutenberg]: Project Gutenberg file listings and plain-text books
//   - [llm]: OpenAI-compatible chat completions used for relationship extraction
//
// # Shared Infrastructure
//
// The [Client] type provides shared HTTP functionality used by all clients:
// default headers, instrumented transport, GET with retry for transient
// failures, response caching via [cache.Cache], and raw JSON POSTs for
// endpoints whose error bodies carry meaning.
//
//	c := integrations.NewClient(fileCache, "gutenberg:", cache.HTTPTTL, nil)
//	var files []gutenberg.File
//	err := c.Cached(ctx, "1342", false, &files, func() error { ... })
//
// [analysis]: github.com/matzehuels/castgraph/pkg/integrations/analysis
// [gutenberg]: github.com/matzehuels/castgraph/pkg/integrations/gutenberg
// [llm]: github.com/matzehuels/castgraph/pkg/integrations/llm
// [cache.Cache]: github.com/matzehuels/castgraph/pkg/cache.Cache
package integrations
