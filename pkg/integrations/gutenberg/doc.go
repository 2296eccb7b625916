// Package gutenberg provides an HTTP client for Project Gutenberg book files.
//
// # Overview
//
// Project Gutenberg publishes each book under a directory listing at
// https://www.gutenberg.org/files/{id}/. The listing is an HTML table with
// one row per file; the second-to-last cell of each row holds the file size
// in a human-readable form ("146K", "1.2M").
//
// [Client.FetchBook] reads the listing, picks the largest plain-text (.txt)
// file and downloads it.
//
// # Usage
//
//	client := gutenberg.NewClient(fileCache, cache.HTTPTTL)
//	text, err := client.FetchBook(ctx, 1342, false)
//	if errors.Is(err, integrations.ErrNotFound) {
//	    // no such book, or it has no plain-text file
//	}
//
// # Caching
//
// File listings are cached under the "gutenberg:" namespace. Book texts are
// not cached here; callers cache the analysis derived from them.
package gutenberg
