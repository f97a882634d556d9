// Package geocode resolves cities and street addresses to coordinates via
// Nominatim. Requests are throttled to the usage policy's one per second.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wex_backend/platform/logger"

	"golang.org/x/time/rate"
)

const nominatimURL = "https://nominatim.openstreetmap.org/search"

// Client is a throttled Nominatim geocoding client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

// NewClient creates a new geocoding client.
func NewClient(log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		log:        log,
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves a city/state pair to coordinates.
func (c *Client) Geocode(ctx context.Context, city, state string) (float64, float64, error) {
	return c.lookup(ctx, strings.TrimSpace(city+", "+state))
}

// GeocodeAddress resolves a full street address to coordinates, falling back
// to the city/state when the street-level lookup finds nothing.
func (c *Client) GeocodeAddress(ctx context.Context, addressLine, city, state, zip string) (float64, float64, error) {
	query := strings.TrimSpace(strings.Join([]string{addressLine, city, state, zip}, ", "))
	lat, lng, err := c.lookup(ctx, query)
	if err == nil {
		return lat, lng, nil
	}
	return c.Geocode(ctx, city, state)
}

func (c *Client) lookup(ctx context.Context, query string) (float64, float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, 0, err
	}

	params := url.Values{}
	params.Add("q", query)
	params.Add("format", "json")
	params.Add("limit", "1")
	params.Add("countrycodes", "us")

	reqURL := fmt.Sprintf("%s?%s", nominatimURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("User-Agent", "WexBackend/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("nominatim request failed", "error", err)
		return 0, 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("nominatim upstream error", "status", resp.StatusCode)
		return 0, 0, fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no geocoding result for %q", query)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude in geocoding result: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude in geocoding result: %w", err)
	}

	return lat, lng, nil
}
