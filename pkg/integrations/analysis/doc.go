// Package analysis provides an HTTP client for the castgraph analysis service.
//
// # Protocol
//
//	POST {baseURL}/analyze
//	{"book_id": "1342", "part_index": 4}
//
//	200 {"result": {"nodes": [...], "edges": [...]}}
//	4xx/5xx {"error": "reason"}
//
// [Client.Analyze] maps every failure onto the fetch error taxonomy:
//
//	transport failure          errors.ErrCodeNetwork
//	non-2xx                    errors.ErrCodeServer (reason from the body, if any)
//	missing result/nodes/edges errors.ErrCodeMalformedResponse
//
// [errors.UserMessage] of a returned error is the server's reason when one
// was sent and the generic fallback otherwise. Requests are never retried.
//
// [errors.UserMessage]: github.com/matzehuels/castgraph/pkg/errors.UserMessage
package analysis
