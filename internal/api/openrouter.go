package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/quocvuong92/devos-ai/internal/apperr"
	"github.com/quocvuong92/devos-ai/internal/config"
	"github.com/quocvuong92/devos-ai/internal/constants"
	"github.com/quocvuong92/devos-ai/internal/logging"
)

// OpenRouterErrorResponse is the error body returned by OpenRouter
type OpenRouterErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// OpenRouterClient is the OpenRouter chat-completions client
type OpenRouterClient struct {
	httpClient *http.Client
	url        string
	apiKey     string
}

var _ AIClient = (*OpenRouterClient)(nil)

// NewOpenRouterClient creates a client for cfg. When logger is non-nil
// and debug is enabled, requests and responses are logged.
func NewOpenRouterClient(cfg *config.Config, logger *logging.Logger) *OpenRouterClient {
	transport := http.DefaultTransport
	if logger != nil && logger.Enabled(logging.LevelDebug) {
		transport = logging.NewLoggingRoundTripper(transport, logging.NewHTTPLogger(logger), true)
	}
	return &OpenRouterClient{
		httpClient: &http.Client{
			Timeout:   constants.DefaultAPITimeout,
			Transport: transport,
		},
		url:    cfg.CompletionURL(),
		apiKey: cfg.APIKey,
	}
}

// NewOpenRouterClientWithHTTP creates a client with a caller-supplied
// http.Client, used to inject transports.
func NewOpenRouterClientWithHTTP(url, apiKey string, httpClient *http.Client) *OpenRouterClient {
	return &OpenRouterClient{httpClient: httpClient, url: url, apiKey: apiKey}
}

// Complete sends req and decodes the response. Every failure, including a
// panic in the transport, is returned as an apperr.Transport error. An
// empty choices list is not an error here.
func (c *OpenRouterClient) Complete(ctx context.Context, req CompletionRequest) (resp *ChatResponse, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			resp = nil
			err = apperr.New(apperr.Transport, "complete", fmt.Errorf("%v", rec))
		}
	}()

	resp, err = c.complete(ctx, req)
	if err != nil {
		return nil, apperr.New(apperr.Transport, "complete", err)
	}
	return resp, nil
}

func (c *OpenRouterClient) complete(ctx context.Context, req CompletionRequest) (*ChatResponse, error) {
	reqBody := ChatRequest{
		Model:       req.Model,
		Messages:    req.Messages(),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("HTTP-Referer", constants.HTTPReferer)
	httpReq.Header.Set("X-Title", constants.XTitle)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		var errResp OpenRouterErrorResponse
		errMsg := fmt.Sprintf("status code %d", httpResp.StatusCode)
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			errMsg = errResp.Error.Message
		}
		return nil, &APIError{
			StatusCode: httpResp.StatusCode,
			Message:    fmt.Sprintf("OpenRouter API error: %s", errMsg),
		}
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &chatResp, nil
}
