// Package backend talks to the pharmacy recommendation API: medicine search and store prediction.
package backend

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	searchPath  = "/medicine/get/search"
	predictPath = "/user/predict"
)

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the HTTP client of the pharmacy backend.
type Client struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL of the API, without a trailing slash
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Limits suggestion lookups
}

// StatusError is returned when the backend answers with an unexpected HTTP status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

// NewClient creates a backend client for the API at baseURL. A zero timeout keeps the
// platform default and a zero searchRateLimit disables the limiter.
func NewClient(baseURL string, timeout time.Duration, searchRateLimit float64, log *slog.Logger) *Client {
	return NewClientWithClient(&http.Client{Timeout: timeout}, baseURL, newLimiter(searchRateLimit), log)
}

// NewClientWithClient creates a backend client with a custom HTTP client and limiter.
// Useful for testing with mocked HTTP clients.
func NewClientWithClient(client HTTPClient, baseURL string, limiter *rate.Limiter, log *slog.Logger) *Client {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}

	return &Client{
		client:  client,
		baseURL: baseURL,
		log:     log,
		limiter: limiter,
	}
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}

	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}

	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
