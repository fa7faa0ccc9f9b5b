package config

import (
	"errors"
	"os"
	"strings"

	"github.com/quocvuong92/devos-ai/internal/constants"
)

// Environment variable names
const (
	EnvAPIKey   = "OPENROUTER_API_KEY"
	EnvBaseURL  = "OPENROUTER_BASE_URL"
	EnvModel    = "MODEL"
	EnvBraveKey = "BRAVE_API_KEY"
	EnvLogLevel = "DEVOS_LOG_LEVEL"
)

// Search providers
const (
	SearchDuckDuckGo = "duckduckgo"
	SearchBrave      = "brave"
)

// Errors
var (
	ErrAPIKeyNotFound = errors.New("OpenRouter API key not found. Set OPENROUTER_API_KEY environment variable")
)

// Config holds the process-wide configuration read from the environment.
// User-editable preferences live in the settings package.
type Config struct {
	APIKey  string
	BaseURL string
	// Model is the $MODEL override used as the default when no settings
	// file exists yet.
	Model string

	BraveAPIKey    string
	SearchProvider string

	LogLevel string
	Verbose  bool
}

// NewConfig creates a new Config with defaults
func NewConfig() *Config {
	return &Config{}
}

// Load fills unset fields from the environment, after loading .env from the
// working directory if one exists. A malformed .env is returned as an error
// once the remaining fields have been filled from the process environment.
func (c *Config) Load() error {
	dotEnvErr := LoadDotEnv()

	if c.APIKey == "" {
		c.APIKey = strings.TrimSpace(os.Getenv(EnvAPIKey))
	}
	if c.BaseURL == "" {
		c.BaseURL = os.Getenv(EnvBaseURL)
	}
	if c.BaseURL == "" {
		c.BaseURL = constants.DefaultBaseURL
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	if c.Model == "" {
		c.Model = strings.TrimSpace(os.Getenv(EnvModel))
	}
	if c.Model == "" {
		c.Model = constants.DefaultModel
	}

	if c.BraveAPIKey == "" {
		c.BraveAPIKey = strings.TrimSpace(os.Getenv(EnvBraveKey))
	}
	if c.SearchProvider == "" {
		if c.BraveAPIKey != "" {
			c.SearchProvider = SearchBrave
		} else {
			c.SearchProvider = SearchDuckDuckGo
		}
	}

	if c.LogLevel == "" {
		c.LogLevel = os.Getenv(EnvLogLevel)
	}
	return dotEnvErr
}

// Validate checks what the completion client needs.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrAPIKeyNotFound
	}
	return nil
}

// CompletionURL builds the full chat-completions endpoint.
func (c *Config) CompletionURL() string {
	return c.BaseURL + "/chat/completions"
}
