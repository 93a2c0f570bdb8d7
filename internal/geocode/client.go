// Package geocode implements domain.Geocoder against the Google Geocoding
// API. Transport failures and non-OK statuses surface as errors; an empty
// result set surfaces as domain.ErrNoResult so callers can tell "nothing
// matched" apart from "the provider was unreachable".
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"watermap/internal/domain"
	"watermap/internal/observability"
)

// Client implements domain.Geocoder using the Google Geocoding API.
type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a geocoding client.
func NewClient(key string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		key: key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://maps.googleapis.com/maps/api/geocode/json",
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode converts a query string into at most one coordinate candidate.
func (c *Client) Geocode(ctx context.Context, query string) (domain.GeocodeResult, error) {
	params := url.Values{
		"address": {query},
		"key":     {c.key},
	}

	start := time.Now()
	result, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())
	return result, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.GeocodeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.GeocodeResult{}, fmt.Errorf("geocoding API error: status %d: %s", resp.StatusCode, body)
	}

	var apiResp response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("decode response: %w", err)
	}

	switch apiResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return domain.GeocodeResult{}, domain.ErrNoResult
	default:
		return domain.GeocodeResult{}, fmt.Errorf("geocoding API status %q", apiResp.Status)
	}

	if len(apiResp.Results) == 0 {
		return domain.GeocodeResult{}, domain.ErrNoResult
	}

	r := apiResp.Results[0]
	return domain.GeocodeResult{
		Coordinate: domain.Coordinate{
			Lat: r.Geometry.Location.Lat,
			Lon: r.Geometry.Location.Lng,
		},
		ResultTypes:      r.Types,
		PartialMatch:     r.PartialMatch,
		FormattedAddress: r.FormattedAddress,
	}, nil
}

// Google Geocoding API response types.

type response struct {
	Status  string   `json:"status"`
	Results []result `json:"results"`
}

type result struct {
	Geometry         geometry `json:"geometry"`
	Types            []string `json:"types"`
	PartialMatch     bool     `json:"partial_match"`
	FormattedAddress string   `json:"formatted_address"`
}

type geometry struct {
	Location latLng `json:"location"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
