package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quocvuong92/devos-ai/internal/apperr"
	"github.com/quocvuong92/devos-ai/internal/constants"
)

// maxResponseBody caps how much of a search or page response is read.
const maxResponseBody = 1 << 20

// userAgent is sent to HTML endpoints that reject unknown clients.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) devos-ai"

// httpGetter issues bounded GET requests on behalf of a named service.
type httpGetter struct {
	HTTPClient *http.Client
	// service names the remote end in error messages.
	service string
}

func newHTTPGetter(service string, timeout time.Duration) *httpGetter {
	return &httpGetter{
		HTTPClient: &http.Client{Timeout: timeout},
		service:    service,
	}
}

// BaseSearchClient provides common functionality for search clients
type BaseSearchClient struct {
	*httpGetter
	ProviderName string
	MaxResults   int
}

// NewBaseSearchClient creates a new base search client
func NewBaseSearchClient(providerName string, maxResults int) *BaseSearchClient {
	if maxResults <= 0 {
		maxResults = constants.DefaultSearchResults
	}
	return &BaseSearchClient{
		httpGetter:   newHTTPGetter(providerName, constants.DefaultSearchTimeout),
		ProviderName: providerName,
		MaxResults:   maxResults,
	}
}

// get performs a GET with the given headers and returns the body of a 200
// response. Non-200 responses yield an *APIError.
func (g *httpGetter) get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s error: status code %d", g.service, resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// wrap classifies a provider failure as a transport error.
func (b *BaseSearchClient) wrap(err error) error {
	return apperr.New(apperr.Transport, b.ProviderName+" search", err)
}
