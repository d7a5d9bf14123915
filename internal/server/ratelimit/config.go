package ratelimit

import (
	"net/http"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	// Rate is the default refill rate in requests per second.
	Rate  float64
	Burst int

	CleanupInterval time.Duration
	IdleTTL         time.Duration

	Whitelist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// EndpointConfig overrides the default rate for one endpoint.
type EndpointConfig struct {
	Path   string  // exact path, or a prefix when it ends in "/"
	Method string  // HTTP method
	Rate   float64 // requests per second; zero means unlimited
	Burst  int     // bucket capacity; zero derives it from Rate
}

// DefaultConfig allows 2 requests per second with a burst of 10.
func DefaultConfig() *Config {
	return NewConfig(2, 10)
}

// NewConfig builds the API's limits from a per-client rate and burst. A
// non-positive rate disables limiting.
func NewConfig(rps float64, burst int) *Config {
	return &Config{
		Enabled:         rps > 0,
		Rate:            rps,
		Burst:           burst,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(rps, burst),
	}
}

// DefaultEndpointConfigs throttles the full analysis endpoints, which may
// call the AI provider, at half the default rate.
func DefaultEndpointConfigs(rps float64, burst int) []EndpointConfig {
	heavy := EndpointConfig{Method: http.MethodPost, Rate: rps / 2, Burst: max(1, burst/2)}

	analyze, stream := heavy, heavy
	analyze.Path = "/analyze"
	stream.Path = "/analyze/stream"

	return []EndpointConfig{
		analyze,
		stream,
		{Path: "/industries", Method: http.MethodGet, Rate: 0},
	}
}
