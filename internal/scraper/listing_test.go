package scraper

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseListingMinimal(t *testing.T) {
	listing := parseListing(map[string]interface{}{"id": float64(123)})
	if listing == nil {
		t.Fatal("expected a listing")
	}
	if listing.ExternalID != "123" {
		t.Errorf("ExternalID = %q, want %q", listing.ExternalID, "123")
	}
	if listing.Source != "rea" {
		t.Errorf("Source = %q, want %q", listing.Source, "rea")
	}
	if listing.State != "NSW" {
		t.Errorf("State = %q, want %q", listing.State, "NSW")
	}
	if listing.PropertyType != "rural" {
		t.Errorf("PropertyType = %q, want %q", listing.PropertyType, "rural")
	}
	if listing.URL != "" || listing.Address != "" || listing.Bedrooms != nil || listing.Images != nil {
		t.Errorf("unexpected optional fields set: %+v", listing)
	}
}

func TestParseListingNoID(t *testing.T) {
	if got := parseListing(map[string]interface{}{"prettyUrl": "/property-x-123456"}); got != nil {
		t.Fatalf("expected nil for missing id, got %+v", got)
	}
}

func TestParseListingListingIDFallback(t *testing.T) {
	raw := map[string]interface{}{
		"listingId": "987654",
		"_links": map[string]interface{}{
			"canonical": map[string]interface{}{
				"href": "https://www.realestate.com.au/property-rural-nsw-mudgee-987654",
			},
		},
	}
	listing := parseListing(raw)
	if listing == nil {
		t.Fatal("expected a listing")
	}
	if listing.ExternalID != "987654" {
		t.Errorf("ExternalID = %q, want %q", listing.ExternalID, "987654")
	}
	if listing.URL != "https://www.realestate.com.au/property-rural-nsw-mudgee-987654" {
		t.Errorf("URL = %q", listing.URL)
	}
}

func TestParseListingFull(t *testing.T) {
	const raw = `{
		"id": "143215392",
		"prettyUrl": "/property-rural-nsw-mudgee-143215392",
		"address": {
			"display": {"shortAddress": "120 Smith Road", "fullAddress": "120 Smith Road, Mudgee"},
			"suburb": "Mudgee",
			"postcode": "2850",
			"state": "NSW",
			"location": {"latitude": -32.59, "longitude": 149.58}
		},
		"price": {"display": "$1,200,000"},
		"generalFeatures": {"bedrooms": {"value": 4}, "bathrooms": {"value": 2}},
		"propertySizes": {"land": {"displayValue": "2.5 ha"}},
		"propertyType": "acreage",
		"media": [
			{"type": "photo", "url": "https://img.example.com/1.jpg"},
			{"imageUrl": "https://img.example.com/2.jpg"},
			{"type": "floorplan", "url": "https://img.example.com/plan.jpg"}
		]
	}`

	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatal(err)
	}

	listing := parseListing(m)
	if listing == nil {
		t.Fatal("expected a listing")
	}

	if listing.URL != "https://www.realestate.com.au/property-rural-nsw-mudgee-143215392" {
		t.Errorf("URL = %q", listing.URL)
	}
	if listing.Address != "120 Smith Road" {
		t.Errorf("Address = %q, want short form", listing.Address)
	}
	if listing.Suburb != "Mudgee" || listing.Postcode != "2850" {
		t.Errorf("Suburb/Postcode = %q/%q", listing.Suburb, listing.Postcode)
	}
	if listing.Latitude == nil || *listing.Latitude != -32.59 {
		t.Errorf("Latitude = %v", listing.Latitude)
	}
	if listing.Longitude == nil || *listing.Longitude != 149.58 {
		t.Errorf("Longitude = %v", listing.Longitude)
	}
	if listing.PriceText != "$1,200,000" {
		t.Errorf("PriceText = %q", listing.PriceText)
	}
	if listing.Bedrooms == nil || *listing.Bedrooms != 4 {
		t.Errorf("Bedrooms = %v", listing.Bedrooms)
	}
	if listing.Bathrooms == nil || *listing.Bathrooms != 2 {
		t.Errorf("Bathrooms = %v", listing.Bathrooms)
	}
	if listing.LandSizeSqm == nil || *listing.LandSizeSqm != 25000 {
		t.Errorf("LandSizeSqm = %v", listing.LandSizeSqm)
	}
	if listing.PropertyType != "acreage" {
		t.Errorf("PropertyType = %q", listing.PropertyType)
	}

	// Floorplan entries are skipped; untyped entries count as photos and
	// fall back to imageUrl.
	wantImages := []string{"https://img.example.com/1.jpg", "https://img.example.com/2.jpg"}
	if !reflect.DeepEqual(listing.Images, wantImages) {
		t.Errorf("Images = %v, want %v", listing.Images, wantImages)
	}
}

func TestParseListingWrongTypes(t *testing.T) {
	raw := map[string]interface{}{
		"id":              "1",
		"address":         "not an object",
		"price":           []interface{}{1, 2},
		"generalFeatures": map[string]interface{}{"bedrooms": map[string]interface{}{"value": "three"}},
		"propertySizes":   nil,
		"media":           "nope",
	}

	listing := parseListing(raw)
	if listing == nil {
		t.Fatal("expected a listing despite malformed sub-fields")
	}
	if listing.Address != "" || listing.PriceText != "" || listing.Bedrooms != nil ||
		listing.LandSizeSqm != nil || listing.Images != nil {
		t.Errorf("malformed sub-fields should stay unset: %+v", listing)
	}
	if listing.State != "NSW" || listing.PropertyType != "rural" {
		t.Errorf("defaults missing: %+v", listing)
	}
}
