package scraper

import (
	"strings"
	"testing"

	"rea-scraper/internal/models"
)

func TestSearchURL(t *testing.T) {
	url := searchURL("nsw", 3)
	if !strings.Contains(url, "-in-nsw/") {
		t.Errorf("region missing from %q", url)
	}
	if !strings.Contains(url, "/list-3?") {
		t.Errorf("page missing from %q", url)
	}
}

func TestFormatAddress(t *testing.T) {
	tests := []struct {
		listing models.Listing
		want    string
	}{
		{models.Listing{Address: "120 Smith Road", Suburb: "Mudgee", State: "NSW"}, "120 Smith Road, Mudgee, NSW, Australia"},
		{models.Listing{Suburb: "Mudgee", State: "NSW"}, "Mudgee, NSW, Australia"},
		{models.Listing{State: "NSW"}, ""},
	}

	for _, tt := range tests {
		if got := formatAddress(&tt.listing); got != tt.want {
			t.Errorf("formatAddress(%+v) = %q, want %q", tt.listing, got, tt.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.Region != "nsw" || config.MaxPages != 5 || !config.Headless {
		t.Errorf("unexpected defaults: %+v", config)
	}
	if config.DelayMin >= config.DelayMax {
		t.Errorf("delay range inverted: %v >= %v", config.DelayMin, config.DelayMax)
	}
}
