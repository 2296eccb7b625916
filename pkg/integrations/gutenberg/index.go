package gutenberg

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseIndex extracts the .txt entries from a directory listing page.
//
// A row counts when its first link ends in ".txt" and it has at least two
// cells; the size is read from the second-to-last cell.
func ParseIndex(page string) ([]File, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse gutenberg index: %w", err)
	}

	var files []File
	for row := range findAll(doc, atom.Tr) {
		link := first(row, atom.A)
		if link == nil {
			continue
		}
		href := attr(link, "href")
		if !strings.HasSuffix(href, ".txt") {
			continue
		}
		var cells []*html.Node
		for td := range findAll(row, atom.Td) {
			cells = append(cells, td)
		}
		if len(cells) < 2 {
			continue
		}
		files = append(files, File{
			Name: href,
			Size: ParseSize(text(cells[len(cells)-2])),
		})
	}
	return files, nil
}

// ParseSize converts listing sizes such as "146K", "1.2M" or "3G" to bytes
// (binary multiples). Plain numbers are taken as bytes; anything else is 0.
func ParseSize(s string) float64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "K"):
		mult = 1 << 10
	case strings.HasSuffix(s, "M"):
		mult = 1 << 20
	case strings.HasSuffix(s, "G"):
		mult = 1 << 30
	}
	if mult != 1 {
		s = s[:len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v * mult
}

// findAll yields every descendant element of n with the given tag, in
// document order.
func findAll(n *html.Node, tag atom.Atom) func(yield func(*html.Node) bool) {
	return func(yield func(*html.Node) bool) {
		var walk func(*html.Node) bool
		walk = func(n *html.Node) bool {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && c.DataAtom == tag {
					if !yield(c) {
						return false
					}
				}
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(n)
	}
}

func first(n *html.Node, tag atom.Atom) *html.Node {
	for c := range findAll(n, tag) {
		return c
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
