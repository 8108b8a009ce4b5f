package scraper

import (
	"regexp"
	"strings"

	"rea-scraper/internal/models"
)

const (
	// challengeMarker appears in Kasada interstitial pages. Real results
	// pages may mention it too, so the size check below disambiguates.
	challengeMarker       = "KPSDK"
	challengePageMaxBytes = 5000

	errBlocked = "blocked by Kasada bot protection"
)

// Any one of these markers means a further results page exists.
var hasMorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`rel="next"`),
	regexp.MustCompile(`aria-label="Go to [Nn]ext [Pp]age"`),
	regexp.MustCompile(`data-testid="[^"]*next[^"]*"`),
}

// isChallengePage reports whether the markup is a Kasada interstitial
// rather than real content. Challenge pages embed the KPSDK loader and are
// tiny compared to a results page.
func isChallengePage(html string) bool {
	return strings.Contains(html, challengeMarker) && len(html) < challengePageMaxBytes
}

// hasMorePages reports whether the markup advertises a next results page.
func hasMorePages(html string) bool {
	for _, pattern := range hasMorePatterns {
		if pattern.MatchString(html) {
			return true
		}
	}
	return false
}

// parsePage assembles a PageResult from raw markup: structured extraction
// first, link scanning as the fallback. Zero listings is a valid empty
// result, not an error.
func parsePage(pageURL, html string) models.PageResult {
	result := models.PageResult{
		URL:      pageURL,
		Listings: []models.Listing{},
	}

	if data := extractEmbeddedJSON(html); data != nil {
		if listings := extractListingsFromJSON(data); len(listings) > 0 {
			result.Listings = listings
		}
	}

	if len(result.Listings) == 0 {
		if listings := listingsFromLinks(propertyLinks(html)); len(listings) > 0 {
			result.Listings = listings
		}
	}

	result.HasMore = hasMorePages(html)
	return result
}
