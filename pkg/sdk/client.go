package geodex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/geodex/internal/domain/amenity"
	"github.com/kailas-cloud/geodex/internal/domain/geo"
	"github.com/kailas-cloud/geodex/internal/domain/infrastructure"
	chiapi "github.com/kailas-cloud/geodex/internal/transport/chi"
	"github.com/kailas-cloud/geodex/internal/transport/outbound"
	"github.com/kailas-cloud/geodex/internal/version"
)

const maxErrorBody = 4 << 10

// Client calls the geodex HTTP API. Safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	apiKey    string
	userAgent string
	obs       *observer
}

// New creates a Client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("geodex: parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("geodex: base url must be absolute http(s), got %q", baseURL)
	}
	if u.Path == "" {
		u.Path = "/"
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = outbound.NewClient(outbound.Config{Timeout: cfg.timeout})
	}
	ua := cfg.userAgent
	if ua == "" {
		ua = version.UserAgent()
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:   u,
		http:      hc,
		apiKey:    cfg.apiKey,
		userAgent: ua,
		obs:       obs,
	}, nil
}

// Resolve returns ranked candidates for a free-text query.
// A limit <= 0 uses the server default.
func (c *Client) Resolve(ctx context.Context, query string, limit int) ([]Candidate, error) {
	params := url.Values{"q": {query}}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var resp chiapi.LocationSearchResponse
	if err := c.get(ctx, "resolve", "/v1/locations/search", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// FetchAmenities lists notable amenities around a point, nearest first.
// Empty Categories requests every category.
func (c *Client) FetchAmenities(ctx context.Context, q AmenityQuery) ([]Amenity, error) {
	categories := q.Categories
	if len(categories) == 0 {
		categories = amenity.All()
	}
	params := areaParams(q.Center, q.RadiusMeters)
	params.Set("categories", joinNames(categories))
	if q.IncludeSmallShops {
		params.Set("include_small_shops", "true")
	}
	if q.MaxResults > 0 {
		params.Set("max_results", strconv.Itoa(q.MaxResults))
	}
	var resp chiapi.AmenitiesResponse
	if err := c.get(ctx, "amenities", "/v1/amenities", params, &resp); err != nil {
		return nil, err
	}
	if resp.Amenities == nil {
		return []amenity.Amenity{}, nil
	}
	return resp.Amenities, nil
}

// FetchInfrastructure lists transit features per layer around a point.
// Empty Layers requests every layer. Layers that failed server-side are
// absent from the result.
func (c *Client) FetchInfrastructure(
	ctx context.Context, q InfrastructureQuery,
) (map[Layer][]Feature, error) {
	layers := q.Layers
	if len(layers) == 0 {
		layers = infrastructure.AllLayers()
	}
	params := areaParams(q.Center, q.RadiusMeters)
	params.Set("layers", joinNames(layers))
	var resp chiapi.InfrastructureResponse
	if err := c.get(ctx, "infrastructure", "/v1/infrastructure", params, &resp); err != nil {
		return nil, err
	}
	if resp.Layers == nil {
		return map[infrastructure.Layer][]infrastructure.Feature{}, nil
	}
	return resp.Layers, nil
}

// Health fetches the server's health report. A degraded or failing server
// answers 503, which is still a valid report and not an error.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var resp chiapi.HealthResponse
	if err := c.get(ctx, "health", "/health", nil, &resp, http.StatusServiceUnavailable); err != nil {
		return HealthStatus{}, err
	}
	return HealthStatus{Status: resp.Status, Checks: resp.Checks}, nil
}

// get issues a GET and decodes a 200 (or one of also) JSON body into out.
func (c *Client) get(
	ctx context.Context, op, path string, params url.Values, out any, also ...int,
) (err error) {
	start := time.Now()
	status := 0
	defer func() { c.obs.observe(op, start, status, err) }()

	u := c.baseURL.JoinPath(path)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("geodex: build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("geodex: %s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	status = resp.StatusCode

	if !accepted(resp.StatusCode, also) {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("geodex: decode %s response: %w", op, err)
	}
	return nil
}

func accepted(status int, also []int) bool {
	if status == http.StatusOK {
		return true
	}
	for _, s := range also {
		if status == s {
			return true
		}
	}
	return false
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var er chiapi.ErrorResponse
	if jsonErr := json.Unmarshal(body, &er); jsonErr == nil && er.Code != "" {
		apiErr.Code = er.Code
		apiErr.Message = er.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func areaParams(center geo.Point, radius int) url.Values {
	return url.Values{
		"lat":    {strconv.FormatFloat(center.Lat, 'f', -1, 64)},
		"lng":    {strconv.FormatFloat(center.Lng, 'f', -1, 64)},
		"radius": {strconv.Itoa(radius)},
	}
}

func joinNames[T ~string](in []T) string {
	parts := make([]string, len(in))
	for i, v := range in {
		parts[i] = string(v)
	}
	return strings.Join(parts, ",")
}

// IsValidation reports whether err is a rejected request parameter.
func IsValidation(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == chiapi.ErrorCodeValidationFailed || apiErr.Code == chiapi.ErrorCodeBadRequest
	}
	return false
}
