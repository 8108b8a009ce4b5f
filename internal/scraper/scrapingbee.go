package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ScrapingBeeClient fetches pages through ScrapingBee's proxy API as an
// alternative to running a local browser. Stealth mode handles Kasada on
// ScrapingBee's side; the returned HTML goes through the same page parse.
type ScrapingBeeClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewScrapingBeeClient creates a ScrapingBee client.
func NewScrapingBeeClient(apiKey string) *ScrapingBeeClient {
	return &ScrapingBeeClient{
		apiKey: apiKey,
		httpClient: &http.Client{
			// Stealth mode requests can take minutes.
			Timeout: 180 * time.Second,
		},
		baseURL: "https://app.scrapingbee.com/api/v1/",
	}
}

// ScrapingBeeOptions configures a ScrapingBee request.
type ScrapingBeeOptions struct {
	RenderJS        bool
	Stealth         bool
	Premium         bool
	Country         string
	WaitForSelector string
	WaitMillis      int
}

// DefaultREAOptions returns options tuned for REA's bot protection:
// stealth proxies, Australian exit, and a wait for listing links to render.
func DefaultREAOptions() ScrapingBeeOptions {
	return ScrapingBeeOptions{
		RenderJS:        true,
		Stealth:         true,
		Country:         "au",
		WaitForSelector: "a[href*='/property-']",
		WaitMillis:      5000,
	}
}

// FetchHTML retrieves a URL through ScrapingBee and returns the rendered
// markup.
func (c *ScrapingBeeClient) FetchHTML(ctx context.Context, targetURL string, opts ScrapingBeeOptions) (string, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("url", targetURL)

	if opts.RenderJS {
		params.Set("render_js", "true")
	}
	if opts.Stealth {
		params.Set("stealth_proxy", "true")
	} else if opts.Premium {
		params.Set("premium_proxy", "true")
	}
	if opts.Country != "" {
		params.Set("country_code", opts.Country)
	}
	if opts.WaitForSelector != "" {
		params.Set("wait_for", opts.WaitForSelector)
	}
	if opts.WaitMillis > 0 {
		params.Set("wait", fmt.Sprintf("%d", opts.WaitMillis))
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// ScrapingBee puts error details in the body.
		return "", fmt.Errorf("ScrapingBee error (HTTP %d): %s", resp.StatusCode, string(body))
	}

	return string(body), nil
}
