package gutenberg

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/matzehuels/castgraph/pkg/buildinfo"
	"github.com/matzehuels/castgraph/pkg/cache"
	"github.com/matzehuels/castgraph/pkg/httputil"
	"github.com/matzehuels/castgraph/pkg/integrations"
)

// DefaultBaseURL is the root of the Project Gutenberg file tree.
const DefaultBaseURL = "https://www.gutenberg.org/files"

// File is one entry of a book's file listing.
type File struct {
	Name string  `json:"name"` // href relative to the book directory
	Size float64 `json:"size"` // size in bytes as listed (approximate)
}

// Client fetches book listings and texts from Project Gutenberg.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Gutenberg client with the given cache backend.
// Pass cache.NewNullCache() to disable caching of file listings.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "gutenberg:", cacheTTL, map[string]string{"User-Agent": buildinfo.UserAgent()}),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at a different file tree (mirrors, tests).
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// FetchIndex returns the plain-text files listed for a book.
//
// Returns [integrations.ErrNotFound] when the listing does not exist.
func (c *Client) FetchIndex(ctx context.Context, bookID int, refresh bool) ([]File, error) {
	var files []File
	err := c.Cached(ctx, strconv.Itoa(bookID), refresh, &files, func() error {
		page, err := c.GetText(ctx, c.indexURL(bookID))
		if err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: gutenberg book %d", err, bookID)
			}
			return err
		}
		files, err = ParseIndex(page)
		return err
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// FetchBook downloads the largest plain-text file of a book.
//
// Returns [integrations.ErrNotFound] when the book does not exist or lists
// no .txt files.
func (c *Client) FetchBook(ctx context.Context, bookID int, refresh bool) (string, error) {
	files, err := c.FetchIndex(ctx, bookID, refresh)
	if err != nil {
		return "", err
	}
	largest, ok := Largest(files)
	if !ok {
		return "", fmt.Errorf("%w: gutenberg book %d has no plain-text file", integrations.ErrNotFound, bookID)
	}

	var text string
	err = httputil.RetryWithBackoff(ctx, func() error {
		var err error
		text, err = c.GetText(ctx, c.indexURL(bookID)+largest.Name)
		return err
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *Client) indexURL(bookID int) string {
	return integrations.JoinURL(c.baseURL, strconv.Itoa(bookID)) + "/"
}

// Largest returns the file with the largest listed size. Ties keep the
// earlier entry.
func Largest(files []File) (File, bool) {
	if len(files) == 0 {
		return File{}, false
	}
	best := files[0]
	for _, f := range files[1:] {
		if f.Size > best.Size {
			best = f
		}
	}
	return best, true
}
