package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// BraveAPIURL is the Brave web search endpoint
const BraveAPIURL = "https://api.search.brave.com/res/v1/web/search"

// BraveResponse represents the Brave search response
type BraveResponse struct {
	Web BraveWebResults `json:"web"`
}

// BraveWebResults contains the web search results
type BraveWebResults struct {
	Results []BraveResult `json:"results"`
}

// BraveResult represents a single search result
type BraveResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// BraveClient is the Brave Search API client
type BraveClient struct {
	*BaseSearchClient
	apiKey  string
	baseURL string
}

var _ SearchClient = (*BraveClient)(nil)

// NewBraveClient creates a new Brave Search client
func NewBraveClient(apiKey string, maxResults int) *BraveClient {
	return &BraveClient{
		BaseSearchClient: NewBaseSearchClient("Brave", maxResults),
		apiKey:           apiKey,
		baseURL:          BraveAPIURL,
	}
}

// Search performs a web search using Brave Search
func (c *BraveClient) Search(ctx context.Context, query string) (*SearchResponse, error) {
	resp, err := c.doSearch(ctx, query)
	if err != nil {
		return nil, c.wrap(err)
	}
	return resp.ToSearchResponse(c.MaxResults), nil
}

func (c *BraveClient) doSearch(ctx context.Context, query string) (*BraveResponse, error) {
	reqURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(c.MaxResults))
	reqURL.RawQuery = params.Encode()

	body, err := c.get(ctx, reqURL.String(), map[string]string{
		"Accept":               "application/json",
		"X-Subscription-Token": c.apiKey,
	})
	if err != nil {
		return nil, err
	}

	var braveResp BraveResponse
	if err := json.Unmarshal(body, &braveResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &braveResp, nil
}

// ToSearchResponse converts BraveResponse to unified SearchResponse,
// keeping at most limit results.
func (r *BraveResponse) ToSearchResponse(limit int) *SearchResponse {
	results := make([]SearchResult, 0, len(r.Web.Results))
	for _, res := range r.Web.Results {
		if len(results) == limit {
			break
		}
		results = append(results, SearchResult{
			Title:   res.Title,
			URL:     res.URL,
			Content: res.Description,
		})
	}
	return &SearchResponse{Results: results}
}
