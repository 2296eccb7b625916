// Package analysis extracts a character-relationship graph from a Project
// Gutenberg book.
//
// # Overview
//
// A [Service] answers one question: who interacts with whom in part N of
// book B. It downloads the book's plain text through a [BookSource], cuts
// out the requested part with [Excerpt], and asks a chat completion model
// ([Extractor]) to describe the characters and their interactions as JSON:
//
//	svc := analysis.NewService(books, model, c, nil, logger)
//	out, err := svc.Analyze(ctx, analysis.Request{BookID: 1342, PartIndex: 3})
//
// # Excerpts
//
// Gutenberg texts carry markup of the form <<...>> between sections. The
// text is split on those markers, the part index is clamped to the last
// part, and the excerpt is trimmed and cut to [MaxExcerptRunes] characters.
//
// # Caching
//
// Results are cached per book and part index for [cache.AnalysisTTL]. Set
// Request.Refresh to bypass the cache; the fresh result still replaces the
// cached one.
//
// # Errors
//
// A book that cannot be fetched yields an ErrCodeBookNotFound error with
// the message [MsgBookNotFound]. Any failure after that (model unreachable,
// invalid JSON, ids that cannot be rendered) is an ErrCodeExtraction error.
package analysis
