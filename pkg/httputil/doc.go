// Package httputil provides HTTP plumbing shared by the outbound clients
// (Project Gutenberg, the chat-completion endpoint, the analysis service).
//
// # Overview
//
//   - [Retry]: automatic retry with exponential backoff
//   - [Transport]: an http.RoundTripper that reports every request to the
//     registered [observability.HTTPHooks]
//   - [NewClient]: an *http.Client with a timeout and the instrumented transport
//
// # Retry
//
// [Retry] only retries errors wrapped with [cache.Retryable]; everything
// else is returned immediately. Clients mark transient failures that way:
//
//   - Network errors
//   - 5xx server errors
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchIndex(ctx, bookID)
//	})
//
// Analysis requests issued by the explorer are never retried: a failed
// request surfaces as an error state and the user retries by issuing a new
// request.
//
// [observability.HTTPHooks]: github.com/matzehuels/castgraph/pkg/observability.HTTPHooks
// [cache.Retryable]: github.com/matzehuels/castgraph/pkg/cache.Retryable
package httputil
