package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rea-scraper/internal/db"
	"rea-scraper/internal/scraper"
)

func main() {
	singleURL := flag.String("url", "", "Single URL to scrape (emits one page result)")
	region := flag.String("region", "nsw", "Region to scrape")
	maxPages := flag.Int("pages", 5, "Maximum pages to scrape")
	headless := flag.Bool("headless", true, "Run browser in headless mode (set false to see browser)")
	dbPath := flag.String("db", "", "Optional SQLite database to save listings into")
	geocode := flag.Bool("geocode", false, "Geocode listings missing coordinates before saving")
	useBee := flag.Bool("scrapingbee", false, "Fetch pages through ScrapingBee (requires SCRAPINGBEE_API_KEY)")
	flag.Parse()

	config := scraper.DefaultConfig()
	config.Region = *region
	config.MaxPages = *maxPages
	config.Headless = *headless
	config.Geocode = *geocode

	if *useBee {
		config.UseScrapingBee = true
		config.ScrapingBeeKey = os.Getenv("SCRAPINGBEE_API_KEY")
		if config.ScrapingBeeKey == "" {
			log.Fatal("SCRAPINGBEE_API_KEY is not set")
		}
	}

	var database *db.DB
	if *dbPath != "" {
		var err error
		database, err = db.New(*dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer database.Close()
		log.Printf("Using database: %s", *dbPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received interrupt signal, shutting down...")
		cancel()
	}()

	s := scraper.New(config, database)

	// Results go to stdout as JSON; everything diagnostic stays on stderr.
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if *singleURL != "" {
		result, err := s.ScrapeURL(ctx, *singleURL)
		if err != nil {
			log.Fatalf("Scrape failed: %v", err)
		}
		if err := enc.Encode(result); err != nil {
			log.Fatalf("Failed to encode result: %v", err)
		}
		return
	}

	start := time.Now()
	result, err := s.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.Println("Scraper cancelled by user")
		} else {
			log.Fatalf("Scraper failed: %v", err)
		}
	}
	if result != nil {
		log.Printf("Scraped %d listings from %d pages in %s",
			len(result.Listings), result.PagesScraped, time.Since(start))
		if err := enc.Encode(result); err != nil {
			log.Fatalf("Failed to encode result: %v", err)
		}
	}
}
