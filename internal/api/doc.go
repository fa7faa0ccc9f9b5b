// Package api talks to remote services: the OpenRouter chat-completions
// endpoint, web search providers and plain web pages.
//
// # Files
//
//   - client.go: AIClient interface and request/response types
//   - openrouter.go: OpenRouter client with bearer auth and a fixed timeout
//   - search.go: SearchClient interface, unified results and provider selection
//   - search_base.go: shared HTTP plumbing for search and fetch
//   - brave.go: Brave Search API provider
//   - duckduckgo.go: DuckDuckGo HTML provider (no key required)
//   - fetch.go: page download and visible-text extraction
//
// Every failure leaving this package is an *apperr.Error, usually of kind
// Transport. Nothing is retried.
//
// # Usage
//
//	cfg := config.NewConfig()
//	_ = cfg.Load()
//	client := api.NewOpenRouterClient(cfg, logger)
//	resp, err := client.Complete(ctx, api.CompletionRequest{
//	    UserPrompt:  "explain channels",
//	    Model:       "anthropic/claude-3-haiku",
//	    MaxTokens:   2000,
//	    Temperature: 0.7,
//	})
package api
