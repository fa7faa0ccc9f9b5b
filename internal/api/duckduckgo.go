package api

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// DuckDuckGoURL is the JavaScript-free DuckDuckGo results page
const DuckDuckGoURL = "https://html.duckduckgo.com/html/"

const ddgRedirectPrefix = "//duckduckgo.com/l/?uddg="

// DuckDuckGoClient scrapes DuckDuckGo's HTML results. It needs no API key.
type DuckDuckGoClient struct {
	*BaseSearchClient
	baseURL string
}

var _ SearchClient = (*DuckDuckGoClient)(nil)

// NewDuckDuckGoClient creates a DuckDuckGo search client
func NewDuckDuckGoClient(maxResults int) *DuckDuckGoClient {
	return &DuckDuckGoClient{
		BaseSearchClient: NewBaseSearchClient("DuckDuckGo", maxResults),
		baseURL:          DuckDuckGoURL,
	}
}

// Search returns up to MaxResults results for query
func (c *DuckDuckGoClient) Search(ctx context.Context, query string) (*SearchResponse, error) {
	body, err := c.get(ctx, c.baseURL+"?q="+url.QueryEscape(query), map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml",
		"Accept-Language": "en-US,en;q=0.5",
	})
	if err != nil {
		return nil, c.wrap(err)
	}

	results, err := parseDuckDuckGoResults(body, c.MaxResults)
	if err != nil {
		return nil, c.wrap(err)
	}
	return &SearchResponse{Results: results}, nil
}

// parseDuckDuckGoResults walks the result divs of a DuckDuckGo HTML page.
func parseDuckDuckGoResults(page []byte, maxResults int) ([]SearchResult, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var results []SearchResult
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) >= maxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "results_links") {
			if r := extractResult(n); r.URL != "" && r.Title != "" {
				results = append(results, r)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return results, nil
}

func extractResult(n *html.Node) SearchResult {
	var result SearchResult
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			switch {
			case hasClass(n, "result__a"):
				result.URL = attr(n, "href")
				result.Title = textContent(n)
			case hasClass(n, "result__snippet"):
				result.Content = textContent(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	result.URL = cleanRedirect(result.URL)
	return result
}

// cleanRedirect unwraps DuckDuckGo's click-tracking redirect.
func cleanRedirect(href string) string {
	rest, ok := strings.CutPrefix(strings.TrimPrefix(href, "https:"), ddgRedirectPrefix)
	if !ok {
		return href
	}
	if i := strings.Index(rest, "&"); i >= 0 {
		rest = rest[:i]
	}
	decoded, err := url.QueryUnescape(rest)
	if err != nil {
		return href
	}
	return decoded
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent joins the text nodes below n with single spaces.
func textContent(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
