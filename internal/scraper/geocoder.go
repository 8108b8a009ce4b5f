package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Geocoder fills in missing listing coordinates via Nominatim.
type Geocoder struct {
	client    *http.Client
	userAgent string
	baseURL   string
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewGeocoder creates a Nominatim geocoder.
func NewGeocoder() *Geocoder {
	return &Geocoder{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		userAgent: "rea-scraper/1.0 (property listings scraper)",
		baseURL:   "https://nominatim.openstreetmap.org",
	}
}

// Geocode converts an address to coordinates.
func (g *Geocoder) Geocode(ctx context.Context, address string) (lat, lng float64, err error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("countrycodes", "au")

	req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create request: %w", err)
	}

	// Nominatim requires a valid User-Agent.
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read response: %w", err)
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return 0, 0, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no results found for address: %s", address)
	}

	lat, err = strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse latitude: %w", err)
	}
	lng, err = strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse longitude: %w", err)
	}

	return lat, lng, nil
}
