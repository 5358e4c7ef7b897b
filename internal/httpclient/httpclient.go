// Package httpclient provides a shared HTTP transport with connection pooling.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

// UserAgent is sent on every request made through this package.
const UserAgent = "git-commit-helper"

// sharedTransport is a shared HTTP transport with connection pooling.
var sharedTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        20,
	MaxIdleConnsPerHost: 5,
	IdleConnTimeout:     90 * time.Second,
	DialContext: (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	TLSHandshakeTimeout: 10 * time.Second,
}

// NewClient creates an HTTP client using the shared transport with the given timeout.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: sharedTransport,
	}
}

// NewClientWithHeaders creates a client that adds headers to every request.
// Headers already set on a request are left alone.
func NewClientWithHeaders(timeout time.Duration, headers map[string]string) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &headerTransport{base: sharedTransport, headers: headers},
	}
}

type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrip must not modify the caller's request.
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}
	return t.base.RoundTrip(req)
}
