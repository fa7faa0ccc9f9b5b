package api

import (
	"context"

	"github.com/quocvuong92/devos-ai/internal/config"
	"github.com/quocvuong92/devos-ai/internal/constants"
)

// SearchClient is a web search provider
type SearchClient interface {
	Search(ctx context.Context, query string) (*SearchResponse, error)
}

// SearchResult is one hit from any provider
type SearchResult struct {
	Title   string
	URL     string
	Content string
}

// SearchResponse is the provider-independent search result list
type SearchResponse struct {
	Results []SearchResult
}

// URLs returns the result links in order.
func (r *SearchResponse) URLs() []string {
	if r == nil {
		return nil
	}
	urls := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		urls = append(urls, res.URL)
	}
	return urls
}

// NewSearchClient picks Brave when a key is configured and DuckDuckGo
// otherwise. Both return at most DefaultSearchResults results.
func NewSearchClient(cfg *config.Config) SearchClient {
	if cfg.SearchProvider == config.SearchBrave && cfg.BraveAPIKey != "" {
		return NewBraveClient(cfg.BraveAPIKey, constants.DefaultSearchResults)
	}
	return NewDuckDuckGoClient(constants.DefaultSearchResults)
}
