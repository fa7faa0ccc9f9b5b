// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// AppName is used for the settings directory, HTTP attribution and banners.
const AppName = "devos-ai"

// Version is reported by --version.
const Version = "0.1.0"

// Timeout constants used across the application
const (
	// DefaultAPITimeout bounds a single chat-completion round trip
	DefaultAPITimeout = 30 * time.Second
	// DefaultCommandTimeout bounds git, open and kill subprocesses
	DefaultCommandTimeout = 10 * time.Second
	// DefaultFetchTimeout bounds a page fetch
	DefaultFetchTimeout = 10 * time.Second
	// DefaultSearchTimeout bounds a web search request
	DefaultSearchTimeout = 30 * time.Second
)

// Application defaults
const (
	DefaultModel       = "anthropic/claude-3-haiku"
	DefaultTheme       = "monokai"
	DefaultMaxTokens   = 2000
	DefaultTemperature = 0.7

	DefaultBaseURL = "https://openrouter.ai/api/v1"
	HTTPReferer    = "https://github.com/devos-ai"
	XTitle         = "DevOS AI"

	// DefaultSearchResults is how many links !search returns
	DefaultSearchResults = 3
	// MaxPageChars is how much page text !fetch returns
	MaxPageChars = 2000
	// MaxFileSize caps files read by @path and !read (1MB)
	MaxFileSize = 1024 * 1024
)

// KnownModels seeds model-name completion in the REPL. Any OpenRouter model
// id is accepted by !config set model.
var KnownModels = []string{
	"anthropic/claude-3-haiku",
	"anthropic/claude-3.5-sonnet",
	"anthropic/claude-3-opus",
	"openai/gpt-4o",
	"openai/gpt-4o-mini",
	"google/gemini-pro-1.5",
	"meta-llama/llama-3.1-70b-instruct",
	"mistralai/mixtral-8x7b-instruct",
}
