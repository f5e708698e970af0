// Package httputil provides HTTP client utilities with standard configurations.
package httputil

import (
	"net/http"
	"time"
)

const (
	// Default timeout for HTTP requests
	defaultTimeout = 30 * time.Second

	// Transport configuration constants
	maxIdleConns        = 10
	maxIdleConnsPerHost = 2
	idleConnTimeout     = 30 * time.Second

	// DefaultUserAgent is sent when a request carries no User-Agent of its own.
	DefaultUserAgent = "rdstream/1.0"
)

// NewHTTPClient creates a new HTTP client with the specified timeout.
// The client is configured with connection pooling and idle connection management.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &userAgentTransport{
			agent: DefaultUserAgent,
			base: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        maxIdleConns,
				MaxIdleConnsPerHost: maxIdleConnsPerHost,
				IdleConnTimeout:     idleConnTimeout,
			},
		},
	}
}

// NewDefaultHTTPClient creates a new HTTP client with default 30 second timeout.
func NewDefaultHTTPClient() *http.Client {
	return NewHTTPClient(defaultTimeout)
}

type userAgentTransport struct {
	agent string
	base  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.agent)
	return t.base.RoundTrip(clone)
}
