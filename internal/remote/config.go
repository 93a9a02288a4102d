package remote

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// ProbeTimeout bounds a single connectivity check
	ProbeTimeout = 3 * time.Second

	// RequestTimeout bounds a single data request attempt
	RequestTimeout = 15 * time.Second

	// RequestIDHeader carries the per-dispatch correlation id
	RequestIDHeader = "X-Request-ID"
)

// Config holds transport settings shared by the dispatcher and prober
type Config struct {
	RequestTimeout time.Duration
	ProbeTimeout   time.Duration
	UserAgent      string
}

// DefaultConfig returns the default transport settings
func DefaultConfig() Config {
	return Config{
		RequestTimeout: RequestTimeout,
		ProbeTimeout:   ProbeTimeout,
		UserAgent:      "gamehub-client/1.0",
	}
}

// NewHTTPClient creates the resty client used for every attempt.
// Per-attempt deadlines come from the request context, so the client
// itself carries no timeout and never retries.
func NewHTTPClient(cfg Config) *resty.Client {
	return resty.New().
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")
}
