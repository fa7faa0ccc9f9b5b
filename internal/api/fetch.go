package api

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/quocvuong92/devos-ai/internal/apperr"
	"github.com/quocvuong92/devos-ai/internal/constants"
)

// Fetcher returns the readable text of a web page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

var _ Fetcher = (*PageFetcher)(nil)

// PageFetcher downloads a page and returns its readable text.
type PageFetcher struct {
	*httpGetter
	maxChars int
}

// NewPageFetcher creates a fetcher returning at most maxChars characters.
func NewPageFetcher(maxChars int) *PageFetcher {
	if maxChars <= 0 {
		maxChars = constants.MaxPageChars
	}
	return &PageFetcher{
		httpGetter: newHTTPGetter("Fetch", constants.DefaultFetchTimeout),
		maxChars:   maxChars,
	}
}

// Fetch returns the first maxChars characters of the visible text of
// rawURL. A URL without a scheme is fetched over https.
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	target, err := normalizeURL(rawURL)
	if err != nil {
		return "", apperr.New(apperr.InvalidArgument, "fetch", err)
	}

	body, err := f.get(ctx, target, map[string]string{
		"User-Agent": userAgent,
		"Accept":     "text/html,application/xhtml+xml,text/plain",
	})
	if err != nil {
		return "", apperr.New(apperr.Transport, "fetch "+target, err)
	}

	text, err := pageText(body)
	if err != nil {
		return "", apperr.New(apperr.Transport, "fetch "+target, err)
	}
	return truncateRunes(text, f.maxChars), nil
}

func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return u.String(), nil
}

// skipText lists elements whose text is never shown.
var skipText = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true, "head": true,
}

// pageText extracts visible text, one line per block of text with runs
// of whitespace collapsed.
func pageText(page []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipText[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if s := strings.Join(strings.Fields(n.Data), " "); s != "" {
				lines = append(lines, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(lines, "\n"), nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
