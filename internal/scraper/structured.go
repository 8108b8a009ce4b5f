package scraper

import (
	"encoding/json"
	"regexp"
	"sort"

	"rea-scraper/internal/models"
)

// Embedded payload locations, tried in order. The first pattern whose
// capture parses as JSON wins; a match that fails to parse falls through
// to the next pattern.
var embeddedJSONPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)window\.ArgonautExchange\s*=\s*(\{.+?\});?\s*</script>`),
	regexp.MustCompile(`(?s)<script[^>]*id="__NEXT_DATA__"[^>]*>(\{.+?\})</script>`),
}

// maxSearchDepth is a hard cutoff for the recursive listing search.
// Traversal past this depth returns empty regardless of content.
const maxSearchDepth = 10

// skipKeys mark subtrees that hold tracking/metadata, never listings.
var skipKeys = map[string]bool{
	"tracking":  true,
	"analytics": true,
	"meta":      true,
}

// extractEmbeddedJSON finds and parses the JSON payload REA embeds in the
// page markup to hydrate its client-side view. Returns nil when no payload
// is present.
func extractEmbeddedJSON(html string) map[string]interface{} {
	for _, pattern := range embeddedJSONPatterns {
		matches := pattern.FindStringSubmatch(html)
		if len(matches) < 2 {
			continue
		}
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(matches[1]), &data); err != nil {
			continue
		}
		return data
	}
	return nil
}

// extractListingsFromJSON pulls listings out of the parsed payload. It
// tries the known rpiResults.tieredResults[].results[] path first and
// falls back to a recursive search of the whole document.
func extractListingsFromJSON(data map[string]interface{}) []models.Listing {
	var listings []models.Listing

	if rpi, ok := data["rpiResults"].(map[string]interface{}); ok {
		if tiered, ok := rpi["tieredResults"].([]interface{}); ok {
			for _, tier := range tiered {
				tierMap, ok := tier.(map[string]interface{})
				if !ok {
					continue
				}
				results, ok := tierMap["results"].([]interface{})
				if !ok {
					continue
				}
				for _, result := range results {
					m, ok := result.(map[string]interface{})
					if !ok {
						continue
					}
					if listing := parseListing(m); listing != nil {
						listings = append(listings, *listing)
					}
				}
			}
		}
	}

	if len(listings) == 0 {
		listings = findListingsRecursive(data, 0)
	}

	return listings
}

// findListingsRecursive walks arbitrarily shaped JSON looking for
// listing-shaped objects: an id plus either a prettyUrl or a _links
// reference. A confirmed listing is terminal for its branch. Object keys
// are visited in sorted order so results are stable across runs.
func findListingsRecursive(data interface{}, depth int) []models.Listing {
	if depth > maxSearchDepth {
		return nil
	}

	var listings []models.Listing

	switch v := data.(type) {
	case map[string]interface{}:
		if _, hasID := v["id"]; hasID {
			_, hasPretty := v["prettyUrl"]
			_, hasLinks := v["_links"]
			if hasPretty || hasLinks {
				if listing := parseListing(v); listing != nil {
					return []models.Listing{*listing}
				}
			}
		}

		keys := make([]string, 0, len(v))
		for key := range v {
			if !skipKeys[key] {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)
		for _, key := range keys {
			listings = append(listings, findListingsRecursive(v[key], depth+1)...)
		}

	case []interface{}:
		for _, item := range v {
			listings = append(listings, findListingsRecursive(item, depth+1)...)
		}

	default:
		// Scalars (string, float64, bool, nil) hold no listings.
	}

	return listings
}
