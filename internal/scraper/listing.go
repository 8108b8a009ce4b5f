package scraper

import (
	"math"
	"strconv"
	"strings"

	"rea-scraper/internal/models"
)

const (
	sourceName          = "rea"
	baseURL             = "https://www.realestate.com.au"
	defaultState        = "NSW"
	defaultPropertyType = "rural"
)

// parseListing maps one raw listing object onto the canonical record.
// Every lookup is best-effort: a missing or wrong-typed sub-field leaves
// that field unset instead of rejecting the record. Only a missing id
// rejects the whole candidate.
func parseListing(m map[string]interface{}) *models.Listing {
	id := stringID(m["id"])
	if id == "" {
		id = stringID(m["listingId"])
	}
	if id == "" {
		return nil
	}

	listing := &models.Listing{
		ExternalID:   id,
		Source:       sourceName,
		State:        defaultState,
		PropertyType: defaultPropertyType,
	}

	if prettyURL, ok := m["prettyUrl"].(string); ok {
		if strings.HasPrefix(prettyURL, "/") {
			prettyURL = baseURL + prettyURL
		}
		listing.URL = prettyURL
	} else if links, ok := m["_links"].(map[string]interface{}); ok {
		if canonical, ok := links["canonical"].(map[string]interface{}); ok {
			if href, ok := canonical["href"].(string); ok {
				listing.URL = href
			}
		}
	}

	if address, ok := m["address"].(map[string]interface{}); ok {
		if display, ok := address["display"].(map[string]interface{}); ok {
			if short, ok := display["shortAddress"].(string); ok && short != "" {
				listing.Address = short
			} else if full, ok := display["fullAddress"].(string); ok {
				listing.Address = full
			}
		}
		if suburb, ok := address["suburb"].(string); ok {
			listing.Suburb = suburb
		}
		if postcode, ok := address["postcode"].(string); ok {
			listing.Postcode = postcode
		}
		if state, ok := address["state"].(string); ok && state != "" {
			listing.State = state
		}
		if location, ok := address["location"].(map[string]interface{}); ok {
			if lat, ok := location["latitude"].(float64); ok {
				listing.Latitude = &lat
			}
			if lng, ok := location["longitude"].(float64); ok {
				listing.Longitude = &lng
			}
		}
	}

	// Display string only. Numeric price parsing is out of scope here.
	if price, ok := m["price"].(map[string]interface{}); ok {
		if display, ok := price["display"].(string); ok {
			listing.PriceText = display
		}
	}

	if features, ok := m["generalFeatures"].(map[string]interface{}); ok {
		if n, ok := featureCount(features, "bedrooms"); ok {
			listing.Bedrooms = &n
		}
		if n, ok := featureCount(features, "bathrooms"); ok {
			listing.Bathrooms = &n
		}
	}

	if sizes, ok := m["propertySizes"].(map[string]interface{}); ok {
		if land, ok := sizes["land"].(map[string]interface{}); ok {
			if display, ok := land["displayValue"].(string); ok {
				if sqm, ok := parseLandSize(display); ok {
					listing.LandSizeSqm = &sqm
				}
			}
		}
	}

	if propType, ok := m["propertyType"].(string); ok && propType != "" {
		listing.PropertyType = propType
	}

	if media, ok := m["media"].([]interface{}); ok {
		var images []string
		for _, item := range media {
			img, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			// Entries without a declared type are treated as photos.
			switch img["type"] {
			case "photo", "image", nil:
				if u, ok := img["url"].(string); ok && u != "" {
					images = append(images, u)
				} else if u, ok := img["imageUrl"].(string); ok && u != "" {
					images = append(images, u)
				}
			}
		}
		if len(images) > 0 {
			listing.Images = images
		}
	}

	return listing
}

// stringID stringifies an id value from decoded JSON. Numeric ids come out
// of encoding/json as float64.
func stringID(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		if id == math.Trunc(id) {
			return strconv.FormatInt(int64(id), 10)
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}

// featureCount reads a generalFeatures count object ({"value": N}).
func featureCount(features map[string]interface{}, key string) (int64, bool) {
	f, ok := features[key].(map[string]interface{})
	if !ok {
		return 0, false
	}
	switch v := f["value"].(type) {
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
