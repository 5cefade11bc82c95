// Package ebay provides the Finding API client used to fetch store listings,
// with error classification and request metrics.
package ebay

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for upstream operations.
var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_upstream_requests_total",
		Help: "Total Finding API requests by status",
	}, []string{"status"})

	upstreamRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_upstream_request_duration_seconds",
		Help:    "Finding API request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	upstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_upstream_errors_total",
		Help: "Total Finding API errors by class",
	}, []string{"class"})
)

const (
	// DefaultEndpoint is the production Finding API endpoint.
	DefaultEndpoint = "https://svcs.ebay.com/services/search/FindingService/v1"

	operationName  = "findItemsIneBayStores"
	serviceVersion = "1.0.0"

	// DefaultEntriesPerPage caps a single result page. Only one page is ever
	// fetched.
	DefaultEntriesPerPage = 24
)

// SortOrder is a hint mapped to the upstream's sort-order vocabulary.
type SortOrder string

const (
	// SortBestMatch is the upstream's default relevance ordering. It is the
	// fallback for any unrecognized hint.
	SortBestMatch SortOrder = "BestMatch"

	// SortPriceAsc orders by price plus shipping, lowest first.
	SortPriceAsc SortOrder = "PricePlusShippingLowest"

	// SortPriceDesc orders by price plus shipping, highest first.
	SortPriceDesc SortOrder = "PricePlusShippingHighest"
)

// upstreamValue returns the sortOrder query value for the hint.
func (s SortOrder) upstreamValue() string {
	switch s {
	case SortPriceAsc, SortPriceDesc:
		return string(s)
	default:
		return string(SortBestMatch)
	}
}

// SearchRequest defines the parameters for one store search.
type SearchRequest struct {
	StoreName      string
	GlobalID       string    // marketplace site, e.g. "EBAY-US"
	Sort           SortOrder // zero value falls back to best match
	EntriesPerPage int       // zero value falls back to DefaultEntriesPerPage
}

// Config holds the client configuration.
type Config struct {
	// AppID is the Finding API application credential (REQUIRED).
	AppID string

	// Endpoint overrides the Finding API base URL (for testing).
	Endpoint string

	// Timeout bounds the single request attempt.
	Timeout time.Duration
}

// Client performs Finding API searches. It issues exactly one GET per call;
// there is no retry and no backoff.
type Client struct {
	httpClient *http.Client
	cfg        Config
	logger     zerolog.Logger
}

// New creates a Finding API client.
func New(cfg Config) (*Client, error) {
	if cfg.AppID == "" {
		return nil, fmt.Errorf("app ID is required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	logger := log.With().Str("component", "ebay-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Search performs one findItemsIneBayStores request and returns the raw
// envelope. Returns ErrUnavailable on transport errors or non-2xx statuses
// and *RejectedError when the envelope acknowledgement reports failure.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*Envelope, error) {
	startTime := time.Now()
	defer func() {
		upstreamRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	reqURL := c.cfg.Endpoint + "?" + c.buildQuery(req).Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("store", req.StoreName).
		Str("sort", req.Sort.upstreamValue()).
		Msg("Executing Finding API request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error().Err(err).Str("store", req.StoreName).Msg("Finding API request failed")
		upstreamErrorsTotal.WithLabelValues("network").Inc()
		upstreamRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	upstreamRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().
			Str("store", req.StoreName).
			Int("status", resp.StatusCode).
			Msg("Finding API error status")
		upstreamErrorsTotal.WithLabelValues("http").Inc()
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		upstreamErrorsTotal.WithLabelValues("network").Inc()
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		upstreamErrorsTotal.WithLabelValues("decode").Inc()
		return nil, fmt.Errorf("%w: decode envelope: %v", ErrUnavailable, err)
	}

	if r := env.Response(); r != nil && !r.ackOK() {
		rejErr := &RejectedError{Ack: First(r.Ack), Message: r.errorText()}
		c.logger.Warn().
			Str("store", req.StoreName).
			Str("ack", rejErr.Ack).
			Str("upstream_message", rejErr.Message).
			Msg("Finding API rejected request")
		upstreamErrorsTotal.WithLabelValues("rejected").Inc()
		return nil, rejErr
	}

	return &env, nil
}

// buildQuery assembles the Finding API query string.
func (c *Client) buildQuery(req SearchRequest) url.Values {
	entries := req.EntriesPerPage
	if entries <= 0 {
		entries = DefaultEntriesPerPage
	}

	q := url.Values{}
	q.Set("OPERATION-NAME", operationName)
	q.Set("SERVICE-VERSION", serviceVersion)
	q.Set("SECURITY-APPNAME", c.cfg.AppID)
	q.Set("RESPONSE-DATA-FORMAT", "JSON")
	q.Set("REST-PAYLOAD", "")
	q.Set("storeName", req.StoreName)
	q.Set("paginationInput.entriesPerPage", strconv.Itoa(entries))
	q.Set("outputSelector", "PictureURLLarge")
	q.Set("sortOrder", req.Sort.upstreamValue())
	if req.GlobalID != "" {
		q.Set("GLOBAL-ID", req.GlobalID)
	}
	return q
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
