// Package geocoder holds the outbound adapters for the geocoding providers.
// Each adapter issues one GET per Search call, without retries, and maps the
// response into candidates. Failures wrap domain.ErrProviderUnavailable.
package geocoder

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geodex/internal/domain"
	"github.com/kailas-cloud/geodex/internal/domain/candidate"
	"github.com/kailas-cloud/geodex/internal/metrics"
	"github.com/kailas-cloud/geodex/internal/transport/outbound"
)

// Config holds the settings shared by all adapters.
type Config struct {
	BaseURL     string
	APIKey      string
	CountryCode string // ISO 3166-1 alpha-2, lowercase
	Language    string
	Near        string // Foursquare locality hint
	Client      *http.Client
	Logger      *zap.Logger
}

type base struct {
	source  candidate.Source
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func newBase(source candidate.Source, cfg Config) base {
	client := cfg.Client
	if client == nil {
		client = outbound.NewClient(outbound.Config{Timeout: 8 * time.Second})
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{
		source:  source,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		logger:  logger.With(zap.String("provider", string(source))),
	}
}

// Source identifies the provider.
func (b *base) Source() candidate.Source { return b.source }

// get issues one instrumented GET and decodes the JSON body into v.
func (b *base) get(ctx context.Context, path string, params url.Values, header http.Header, v any) error {
	reqURL := b.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return b.fail(fmt.Errorf("build request: %w", err))
	}
	for k, vs := range header {
		for _, hv := range vs {
			req.Header.Add(k, hv)
		}
	}

	start := time.Now()
	err = outbound.DoJSON(b.client, req, v)
	metrics.ProviderRequestDuration.WithLabelValues(string(b.source)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(string(b.source), "error").Inc()
		return b.fail(err)
	}
	metrics.ProviderRequestsTotal.WithLabelValues(string(b.source), "ok").Inc()
	return nil
}

func (b *base) fail(err error) error {
	return fmt.Errorf("%s: %w: %w", b.source, domain.ErrProviderUnavailable, err)
}

func (b *base) observe(n int) {
	metrics.ProviderCandidatesTotal.WithLabelValues(string(b.source)).Add(float64(n))
}

// positional turns a result position into a relevance score: 1 - i/n.
func positional(i, n int) float64 {
	if n <= 0 {
		return 0
	}
	return 1 - float64(i)/float64(n)
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
