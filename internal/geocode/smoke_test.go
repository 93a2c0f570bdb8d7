//go:build geocoder

package geocode

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watermap/internal/domain"
	"watermap/internal/observability"
)

// These tests hit the real Google Geocoding API and require a valid
// GEOCODER_API_KEY env var.
// Run with: go test -tags=geocoder ./internal/geocode/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	key := os.Getenv("GEOCODER_API_KEY")
	if key == "" {
		t.Fatal("GEOCODER_API_KEY must be set to run smoke tests")
	}
	return &Client{
		key:        key,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://maps.googleapis.com/maps/api/geocode/json",
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_Geocode(t *testing.T) {
	c := smokeClient(t)

	got, err := c.Geocode(context.Background(), "Atlanta, Fulton County, Georgia, USA")
	require.NoError(t, err)

	assert.True(t, domain.GeorgiaBounds.Contains(got.Coordinate))
	assert.Contains(t, got.ResultTypes, "locality")
}
