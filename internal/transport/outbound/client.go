// Package outbound builds the HTTP clients used to call upstream geodata services.
package outbound

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Config describes one upstream client.
type Config struct {
	Timeout    time.Duration
	UserAgent  string
	RatePerSec float64 // <= 0 disables throttling
	Burst      int
	Headers    map[string]string
	Transport  http.RoundTripper // nil means http.DefaultTransport
}

// NewClient returns an http.Client with a per-call timeout, fixed headers and a token bucket.
func NewClient(cfg Config) *http.Client {
	var rt http.RoundTripper = http.DefaultTransport
	if cfg.Transport != nil {
		rt = cfg.Transport
	}

	headers := make(map[string]string, len(cfg.Headers)+1)
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	if cfg.UserAgent != "" {
		headers["User-Agent"] = cfg.UserAgent
	}
	if len(headers) > 0 {
		rt = &HeadersRoundTripper{Transport: rt, Headers: headers}
	}

	if cfg.RatePerSec > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		rt = &RateLimitedRoundTripper{
			Transport: rt,
			Limiter:   rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst),
		}
	}

	return &http.Client{Timeout: cfg.Timeout, Transport: rt}
}

// HeadersRoundTripper sets fixed headers on a copy of each request.
type HeadersRoundTripper struct {
	Transport http.RoundTripper
	Headers   map[string]string
}

// RoundTrip implements the http.RoundTripper interface.
func (t *HeadersRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.Headers {
		r.Header.Set(k, v)
	}
	return t.Transport.RoundTrip(r)
}

// RateLimitedRoundTripper waits for a token before each request. Waiting honors the request context.
type RateLimitedRoundTripper struct {
	Transport http.RoundTripper
	Limiter   *rate.Limiter
}

// RoundTrip implements the http.RoundTripper interface.
func (t *RateLimitedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.Limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return t.Transport.RoundTrip(req)
}
