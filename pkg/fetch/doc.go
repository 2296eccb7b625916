// Package fetch owns the lifecycle of remote analysis requests.
//
// A [Controller] moves through four states:
//
//	Idle ──RequestAnalysis──▶ Loading(token) ──completion──▶ Success(snapshot) | Error(message)
//	  ▲                          │  ▲                                   │
//	  └──────────Reset───────────┘  └────────RequestAnalysis────────────┘
//
// Every request gets a monotonically increasing token. A completion is
// applied only when its token is still the latest one issued; results of
// superseded requests (and of requests issued before a [Controller.Reset])
// are dropped without touching the state. The previous request's context is
// cancelled as best-effort abandonment, but correctness does not depend on
// the analyzer honouring it.
//
// Failures never escape the controller: network errors, non-2xx responses
// and malformed bodies all become an Error state whose message is
// [errors.UserMessage] of the analyzer's error. There is no automatic retry.
//
// Successful results go through [graph.BuildSnapshot], so edges whose
// endpoints are missing from the node list still render.
//
// # Usage
//
//	ctrl := fetch.New(analysis.NewClient(url, 0), fetch.Options{Logger: logger})
//	ctrl.OnChange(func(s fetch.State) { render(s) })
//	req := ctrl.RequestAnalysis(ctx, "1342")
//	req.Wait(ctx)
//
// [errors.UserMessage]: github.com/matzehuels/castgraph/pkg/errors.UserMessage
// [graph.BuildSnapshot]: github.com/matzehuels/castgraph/pkg/graph.BuildSnapshot
package fetch
