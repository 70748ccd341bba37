// Package overpass is the client for the OpenStreetMap Overpass geodata query service.
package overpass

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geodex/internal/domain"
	"github.com/kailas-cloud/geodex/internal/metrics"
	"github.com/kailas-cloud/geodex/internal/transport/outbound"
)

// Query kinds used as metric labels.
const (
	KindAmenity        = "amenity"
	KindInfrastructure = "infrastructure"
	KindHealth         = "health"
)

const healthQuery = "[out:json][timeout:5];node(1);out ids;"

// Config holds the client settings.
type Config struct {
	BaseURL string // interpreter endpoint, e.g. https://overpass-api.de/api/interpreter
	Client  *http.Client
	Logger  *zap.Logger
}

// Client posts QL queries to the interpreter endpoint.
type Client struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewClient creates a geodata client.
func NewClient(cfg Config) *Client {
	client := cfg.Client
	if client == nil {
		client = outbound.NewClient(outbound.Config{Timeout: DefaultTimeoutSec * time.Second})
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{endpoint: cfg.BaseURL, client: client, logger: logger}
}

// Query executes ql. Failures (network, status, decode, runtime-error remark)
// wrap domain.ErrGeodataUnavailable.
func (c *Client) Query(ctx context.Context, kind, ql string) (*Response, error) {
	form := url.Values{"data": {ql}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrGeodataUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	var resp Response
	err = outbound.DoJSON(c.client, req, &resp)
	metrics.GeodataQueryDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if err == nil && isErrorRemark(resp.Remark) {
		err = fmt.Errorf("remark: %s", resp.Remark)
	}
	if err != nil {
		metrics.GeodataQueriesTotal.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrGeodataUnavailable, err)
	}

	metrics.GeodataQueriesTotal.WithLabelValues(kind, "ok").Inc()
	c.logger.Debug("Geodata query completed",
		zap.String("kind", kind),
		zap.Int("elements", len(resp.Elements)),
		zap.Duration("duration", time.Since(start)))
	return &resp, nil
}

// HealthCheck runs a trivial query.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.Query(ctx, KindHealth, healthQuery); err != nil {
		return fmt.Errorf("geodata health query: %w", err)
	}
	return nil
}

func isErrorRemark(remark string) bool {
	return strings.Contains(strings.ToLower(remark), "error")
}
