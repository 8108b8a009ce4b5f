package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Listing is the canonical record extracted from one search result entry.
// Optional fields are omitted from JSON output when the source never
// provided them.
type Listing struct {
	ExternalID   string   `json:"external_id"`
	Source       string   `json:"source"`
	URL          string   `json:"url,omitempty"`
	Address      string   `json:"address,omitempty"`
	Suburb       string   `json:"suburb,omitempty"`
	State        string   `json:"state"`
	Postcode     string   `json:"postcode,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	PriceText    string   `json:"price_text,omitempty"`
	Bedrooms     *int64   `json:"bedrooms,omitempty"`
	Bathrooms    *int64   `json:"bathrooms,omitempty"`
	LandSizeSqm  *float64 `json:"land_size_sqm,omitempty"`
	PropertyType string   `json:"property_type"`
	Images       []string `json:"images,omitempty"`
}

// PageResult is the outcome of scraping a single search results page.
// Zero listings with an empty error is a valid empty page.
type PageResult struct {
	URL      string    `json:"url"`
	Listings []Listing `json:"listings"`
	HasMore  bool      `json:"has_more"`
	Error    string    `json:"error,omitempty"`
}

// ScrapeResult aggregates a multi-page region scrape.
type ScrapeResult struct {
	Listings     []Listing `json:"listings"`
	PagesScraped int       `json:"pages_scraped"`
	Errors       []string  `json:"errors"`
}

// Property is the database row shape for a stored listing.
type Property struct {
	ID           int64           `db:"id" json:"id"`
	ExternalID   string          `db:"external_id" json:"external_id"`
	Source       string          `db:"source" json:"source"`
	URL          string          `db:"url" json:"url"`
	Address      sql.NullString  `db:"address" json:"address"`
	Suburb       sql.NullString  `db:"suburb" json:"suburb"`
	State        string          `db:"state" json:"state"`
	Postcode     sql.NullString  `db:"postcode" json:"postcode"`
	Latitude     sql.NullFloat64 `db:"latitude" json:"latitude"`
	Longitude    sql.NullFloat64 `db:"longitude" json:"longitude"`
	PriceText    sql.NullString  `db:"price_text" json:"price_text"`
	PropertyType sql.NullString  `db:"property_type" json:"property_type"`
	Bedrooms     sql.NullInt64   `db:"bedrooms" json:"bedrooms"`
	Bathrooms    sql.NullInt64   `db:"bathrooms" json:"bathrooms"`
	LandSizeSqm  sql.NullFloat64 `db:"land_size_sqm" json:"land_size_sqm"`
	Images       sql.NullString  `db:"images" json:"images"` // JSON array
	ScrapedAt    time.Time       `db:"scraped_at" json:"scraped_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// PropertyListItem is a lightweight row for API list responses.
type PropertyListItem struct {
	ID           int64    `db:"id" json:"id"`
	ExternalID   string   `db:"external_id" json:"external_id"`
	Source       string   `db:"source" json:"source"`
	URL          string   `db:"url" json:"url"`
	Address      string   `db:"address" json:"address"`
	Suburb       string   `db:"suburb" json:"suburb"`
	State        string   `db:"state" json:"state"`
	Postcode     string   `db:"postcode" json:"postcode"`
	PriceText    string   `db:"price_text" json:"price_text"`
	PropertyType string   `db:"property_type" json:"property_type"`
	LandSizeSqm  *float64 `db:"land_size_sqm" json:"land_size_sqm,omitempty"`
}

// PropertyFromListing converts a scraped record to its row shape.
func PropertyFromListing(l *Listing) *Property {
	now := time.Now()
	p := &Property{
		ExternalID: l.ExternalID,
		Source:     l.Source,
		URL:        l.URL,
		State:      l.State,
		ScrapedAt:  now,
		UpdatedAt:  now,
	}

	if l.Address != "" {
		p.Address = sql.NullString{String: l.Address, Valid: true}
	}
	if l.Suburb != "" {
		p.Suburb = sql.NullString{String: l.Suburb, Valid: true}
	}
	if l.Postcode != "" {
		p.Postcode = sql.NullString{String: l.Postcode, Valid: true}
	}
	if l.Latitude != nil {
		p.Latitude = sql.NullFloat64{Float64: *l.Latitude, Valid: true}
	}
	if l.Longitude != nil {
		p.Longitude = sql.NullFloat64{Float64: *l.Longitude, Valid: true}
	}
	if l.PriceText != "" {
		p.PriceText = sql.NullString{String: l.PriceText, Valid: true}
	}
	if l.PropertyType != "" {
		p.PropertyType = sql.NullString{String: l.PropertyType, Valid: true}
	}
	if l.Bedrooms != nil {
		p.Bedrooms = sql.NullInt64{Int64: *l.Bedrooms, Valid: true}
	}
	if l.Bathrooms != nil {
		p.Bathrooms = sql.NullInt64{Int64: *l.Bathrooms, Valid: true}
	}
	if l.LandSizeSqm != nil {
		p.LandSizeSqm = sql.NullFloat64{Float64: *l.LandSizeSqm, Valid: true}
	}
	if len(l.Images) > 0 {
		imgJSON, _ := json.Marshal(l.Images)
		p.Images = sql.NullString{String: string(imgJSON), Valid: true}
	}

	return p
}
