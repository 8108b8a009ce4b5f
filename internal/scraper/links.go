package scraper

import (
	"regexp"
	"strings"

	"rea-scraper/internal/models"
)

var (
	propertyLinkPattern = regexp.MustCompile(`href="(/property-[^"]+)"`)
	listingIDPattern    = regexp.MustCompile(`-(\d{6,})$`)
	postcodeTokenPattern = regexp.MustCompile(`^\d{4}$`)
)

// propertyLinks pulls candidate listing paths out of raw markup. Used when
// the page was fetched without a live browser to query.
func propertyLinks(html string) []string {
	var hrefs []string
	for _, match := range propertyLinkPattern.FindAllStringSubmatch(html, -1) {
		if len(match) >= 2 {
			hrefs = append(hrefs, match[1])
		}
	}
	return hrefs
}

// listingsFromLinks derives partial records from listing URLs, keeping the
// first occurrence of each id.
func listingsFromLinks(hrefs []string) []models.Listing {
	var listings []models.Listing
	seen := make(map[string]bool)

	for _, href := range hrefs {
		listing := listingFromHref(href)
		if listing == nil || seen[listing.ExternalID] {
			continue
		}
		seen[listing.ExternalID] = true
		listings = append(listings, *listing)
	}

	return listings
}

// listingFromHref builds a minimal record from a listing URL. The path ends
// with the listing id; the segment before it usually carries suburb, state
// and postcode, so we scan for a 4-digit postcode token and treat the token
// before it as the suburb. Best-effort only.
func listingFromHref(href string) *models.Listing {
	idMatches := listingIDPattern.FindStringSubmatch(href)
	if len(idMatches) < 2 {
		return nil
	}

	listingURL := href
	if strings.HasPrefix(listingURL, "/") {
		listingURL = baseURL + listingURL
	}

	listing := &models.Listing{
		ExternalID:   idMatches[1],
		Source:       sourceName,
		URL:          listingURL,
		State:        defaultState,
		PropertyType: defaultPropertyType,
	}

	// URL format: /property-<type>-<address>-<suburb>-<state>-<postcode>-<id>
	segments := strings.Split(href, "/")
	parts := strings.Split(segments[len(segments)-1], "-")
	if len(parts) >= 4 {
		for i, part := range parts[:len(parts)-1] {
			if postcodeTokenPattern.MatchString(part) {
				listing.Postcode = part
				if i > 0 {
					listing.Suburb = toTitleCase(strings.ReplaceAll(parts[i-1], "+", " "))
				}
				break
			}
		}
	}

	return listing
}

// toTitleCase uppercases the first letter of each word.
func toTitleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
