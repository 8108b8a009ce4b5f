package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"rea-scraper/internal/db"
	"rea-scraper/internal/models"
)

// Config holds scraper settings.
type Config struct {
	Region         string
	MaxPages       int
	Headless       bool
	Geocode        bool
	UseScrapingBee bool
	ScrapingBeeKey string
	DelayMin       time.Duration
	DelayMax       time.Duration
}

// DefaultConfig returns default scraper settings.
func DefaultConfig() Config {
	return Config{
		Region:   "nsw",
		MaxPages: 5,
		Headless: true,
		DelayMin: 3 * time.Second,
		DelayMax: 6 * time.Second,
	}
}

// Scraper runs the sequential page loop and owns the fetch session. The
// database is optional; without one, results only go to the caller.
type Scraper struct {
	config  Config
	browser *Browser
	bee     *ScrapingBeeClient
	db      *db.DB
	geo     *Geocoder
}

// New creates a Scraper. database may be nil.
func New(config Config, database *db.DB) *Scraper {
	s := &Scraper{
		config: config,
		db:     database,
		geo:    NewGeocoder(),
	}
	if config.UseScrapingBee && config.ScrapingBeeKey != "" {
		s.bee = NewScrapingBeeClient(config.ScrapingBeeKey)
	} else {
		s.browser = NewBrowser(config.Headless)
	}
	return s
}

// Run scrapes the configured region page by page, deduplicating listings
// across pages by external id (first seen wins). A Kasada-blocked page is
// terminal for the run; other page errors skip to the next page.
func (s *Scraper) Run(ctx context.Context) (*models.ScrapeResult, error) {
	result := &models.ScrapeResult{
		Listings: []models.Listing{},
		Errors:   []string{},
	}

	if s.browser != nil {
		if err := s.browser.Start(); err != nil {
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		defer s.browser.Stop()
	}

	seenIDs := make(map[string]bool)

	for page := 1; page <= s.config.MaxPages; page++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		pageURL := searchURL(s.config.Region, page)
		log.Printf("Scraping page %d: %s", page, pageURL)

		pageResult := s.scrapePage(ctx, pageURL)

		if pageResult.Error != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Page %d: %s", page, pageResult.Error))
			if strings.Contains(pageResult.Error, "Kasada") {
				break
			}
			continue
		}

		newCount := 0
		for _, listing := range pageResult.Listings {
			if listing.ExternalID == "" || seenIDs[listing.ExternalID] {
				continue
			}
			seenIDs[listing.ExternalID] = true
			result.Listings = append(result.Listings, listing)
			newCount++
		}

		result.PagesScraped = page
		log.Printf("Found %d listings on page %d (%d new)", len(pageResult.Listings), page, newCount)

		// Results are sorted newest-first, so once a page holds only rows
		// already in the database, older pages will too.
		if s.db != nil && len(pageResult.Listings) > 0 {
			if done, err := s.allExisting(pageResult.Listings); err != nil {
				log.Printf("Warning: failed to check existing properties: %v", err)
			} else if done {
				log.Printf("No new properties on page %d, stopping pagination", page)
				break
			}
		}

		if !pageResult.HasMore {
			log.Println("No more pages")
			break
		}

		if page < s.config.MaxPages {
			randomDelay(s.config.DelayMin, s.config.DelayMax)
		}
	}

	if s.db != nil {
		s.persist(ctx, result.Listings)
	}

	return result, nil
}

// ScrapeURL fetches a single page and returns its result. Used by
// single-URL mode.
func (s *Scraper) ScrapeURL(ctx context.Context, pageURL string) (models.PageResult, error) {
	if s.browser != nil {
		if err := s.browser.Start(); err != nil {
			return models.PageResult{}, fmt.Errorf("failed to start browser: %w", err)
		}
		defer s.browser.Stop()
	}
	return s.scrapePage(ctx, pageURL), nil
}

func (s *Scraper) scrapePage(ctx context.Context, pageURL string) models.PageResult {
	if s.bee != nil {
		html, err := s.bee.FetchHTML(ctx, pageURL, DefaultREAOptions())
		if err != nil {
			return models.PageResult{URL: pageURL, Listings: []models.Listing{}, Error: err.Error()}
		}
		if isChallengePage(html) {
			return models.PageResult{URL: pageURL, Listings: []models.Listing{}, Error: errBlocked}
		}
		return parsePage(pageURL, html)
	}
	return s.browser.ScrapePage(ctx, pageURL)
}

// allExisting reports whether every listing on the page is already stored.
func (s *Scraper) allExisting(listings []models.Listing) (bool, error) {
	ids := make([]string, len(listings))
	for i, l := range listings {
		ids[i] = l.ExternalID
	}

	existing, err := s.db.ExistingExternalIDs(ids)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if !existing[id] {
			return false, nil
		}
	}
	return true, nil
}

// persist geocodes listings missing coordinates (when enabled) and upserts
// everything into the database.
func (s *Scraper) persist(ctx context.Context, listings []models.Listing) {
	if s.config.Geocode {
		geocoded := 0
		for i := range listings {
			if listings[i].Latitude != nil && listings[i].Longitude != nil {
				continue
			}
			addr := formatAddress(&listings[i])
			if addr == "" {
				continue
			}

			lat, lng, err := s.geo.Geocode(ctx, addr)
			if err != nil {
				log.Printf("Geocoding failed for %s: %v", addr, err)
			} else {
				listings[i].Latitude = &lat
				listings[i].Longitude = &lng
				geocoded++
			}

			// Nominatim allows one request per second.
			select {
			case <-ctx.Done():
				return
			case <-time.After(1 * time.Second):
			}
		}
		log.Printf("Geocoded %d listings", geocoded)
	}

	saved := 0
	for i := range listings {
		property := models.PropertyFromListing(&listings[i])
		if err := s.db.UpsertProperty(property); err != nil {
			log.Printf("Failed to save listing %s: %v", listings[i].ExternalID, err)
			continue
		}
		saved++
	}
	log.Printf("Saved %d of %d listings", saved, len(listings))
}

// searchURL builds the region search URL for one results page.
func searchURL(region string, page int) string {
	return fmt.Sprintf(
		"https://www.realestate.com.au/buy/property-land-acreage-rural-size-100000-in-%s/list-%d?activeSort=list-date",
		region, page,
	)
}

// formatAddress builds a geocodable address string from a listing.
func formatAddress(l *models.Listing) string {
	addr := l.Address
	if l.Suburb != "" {
		if addr != "" {
			addr += ", "
		}
		addr += l.Suburb
	}
	if addr == "" {
		return ""
	}
	return addr + ", " + l.State + ", Australia"
}
