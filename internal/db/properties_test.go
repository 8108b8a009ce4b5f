package db

import (
	"path/filepath"
	"testing"

	"rea-scraper/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func testProperty(externalID string) *models.Property {
	listing := models.Listing{
		ExternalID:   externalID,
		Source:       "rea",
		URL:          "https://www.realestate.com.au/property-rural-nsw-mudgee-" + externalID,
		Suburb:       "Mudgee",
		State:        "NSW",
		Postcode:     "2850",
		PriceText:    "$1,200,000",
		PropertyType: "rural",
	}
	return models.PropertyFromListing(&listing)
}

func TestUpsertProperty(t *testing.T) {
	database := openTestDB(t)

	p := testProperty("143215392")
	p.Address.String, p.Address.Valid = "120 Smith Road", true
	if err := database.UpsertProperty(p); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// A re-scrape with fewer fields must not blank out stored ones.
	again := testProperty("143215392")
	again.PriceText.String = "$1,250,000"
	if err := database.UpsertProperty(again); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	items, err := database.ListProperties(PropertyFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d rows, want 1", len(items))
	}
	if items[0].Address != "120 Smith Road" {
		t.Errorf("Address = %q, want value kept from first scrape", items[0].Address)
	}
	if items[0].PriceText != "$1,250,000" {
		t.Errorf("PriceText = %q, want refreshed value", items[0].PriceText)
	}
}

func TestExistingExternalIDs(t *testing.T) {
	database := openTestDB(t)

	if err := database.UpsertProperty(testProperty("143215392")); err != nil {
		t.Fatal(err)
	}

	existing, err := database.ExistingExternalIDs([]string{"143215392", "999999999"})
	if err != nil {
		t.Fatalf("exists check: %v", err)
	}
	if !existing["143215392"] {
		t.Error("stored id should be reported as existing")
	}
	if existing["999999999"] {
		t.Error("unknown id should not be reported as existing")
	}

	empty, err := database.ExistingExternalIDs(nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("empty input: got %v, %v", empty, err)
	}
}

func TestListPropertiesFilter(t *testing.T) {
	database := openTestDB(t)

	mudgee := testProperty("143215392")
	if err := database.UpsertProperty(mudgee); err != nil {
		t.Fatal(err)
	}

	orange := testProperty("143215400")
	orange.Suburb.String = "Orange"
	orange.Postcode.String = "2800"
	if err := database.UpsertProperty(orange); err != nil {
		t.Fatal(err)
	}

	items, err := database.ListProperties(PropertyFilter{Suburb: "mudgee"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ExternalID != "143215392" {
		t.Errorf("suburb filter: got %+v", items)
	}

	items, err = database.ListProperties(PropertyFilter{Postcode: "2800"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ExternalID != "143215400" {
		t.Errorf("postcode filter: got %+v", items)
	}
}

func TestGetProperty(t *testing.T) {
	database := openTestDB(t)

	if err := database.UpsertProperty(testProperty("143215392")); err != nil {
		t.Fatal(err)
	}

	items, err := database.ListProperties(PropertyFilter{})
	if err != nil || len(items) != 1 {
		t.Fatalf("seed row missing: %v %v", items, err)
	}

	p, err := database.GetProperty(items[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.ExternalID != "143215392" || !p.Suburb.Valid || p.Suburb.String != "Mudgee" {
		t.Errorf("got %+v", p)
	}

	if _, err := database.GetProperty(9999); err != ErrNotFound {
		t.Errorf("missing row: err = %v, want ErrNotFound", err)
	}
}
