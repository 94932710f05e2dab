package whisperer

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	submitPath   = "/api/v2/whisper"
	statusPath   = "/api/v2/whisper-status"
	retrievePath = "/api/v2/whisper-retrieve"

	apiKeyHeader = "unstract-key"
)

// Client represents a client for the cloud text-extraction service
type Client struct {
	apiKey          string
	baseURL         string
	httpClient      *http.Client
	submitTimeout   time.Duration
	pollInterval    time.Duration
	maxPollAttempts int
	log             zerolog.Logger
}

// Config holds configuration for the whisperer client
type Config struct {
	APIKey        string
	BaseURL       string
	SubmitTimeout time.Duration
	Logger        zerolog.Logger
}

// DefaultConfig returns a default configuration for the whisperer client
func DefaultConfig() *Config {
	return &Config{
		BaseURL:       "https://llmwhisperer-api.us-central.unstract.com",
		SubmitTimeout: 30 * time.Second,
	}
}

// NewClient creates a new whisperer client. The polling cadence (2s interval,
// 30 attempts) bounds the total asynchronous wait to 60 seconds, independent
// of the submit deadline.
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.SubmitTimeout == 0 {
		config.SubmitTimeout = DefaultConfig().SubmitTimeout
	}

	return &Client{
		apiKey:          config.APIKey,
		baseURL:         strings.TrimSuffix(config.BaseURL, "/"),
		submitTimeout:   config.SubmitTimeout,
		pollInterval:    2 * time.Second,
		maxPollAttempts: 30,
		log:             config.Logger,
		httpClient:      &http.Client{},
	}
}

// Configured reports whether the client has a usable API key
func (c *Client) Configured() bool {
	return c.apiKey != ""
}
