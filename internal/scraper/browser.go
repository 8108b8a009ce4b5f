package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"rea-scraper/internal/models"
)

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// stealthScript patches the JS properties Kasada inspects before deciding
// whether to serve real content.
const stealthScript = `
	Object.defineProperty(navigator, 'webdriver', {get: () => undefined});
	Object.defineProperty(navigator, 'plugins', {get: () => [1, 2, 3, 4, 5]});
	Object.defineProperty(navigator, 'languages', {get: () => ['en-AU', 'en']});
	window.chrome = window.chrome || {runtime: {}};
`

// mouseMoveScript dispatches a synthetic mouse move so the challenge sees
// some human-looking activity.
const mouseMoveScript = `
	document.dispatchEvent(new MouseEvent('mousemove', {
		clientX: 100 + Math.random() * 400,
		clientY: 100 + Math.random() * 300
	}));
`

// Browser drives a headless Chrome session against REA.
type Browser struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	headless bool
}

// NewBrowser creates a browser session. Call Start before use and Stop on
// every exit path.
func NewBrowser(headless bool) *Browser {
	return &Browser{headless: headless}
}

// Start initializes the Chrome allocator with anti-detection flags.
func (b *Browser) Start() error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("headless", b.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("lang", "en-AU"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(browserUserAgent),
	)

	b.allocCtx, b.cancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return nil
}

// Stop closes the browser.
func (b *Browser) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
}

// ScrapePage loads one search results page and assembles its PageResult.
// Fetch failures land in the result's error slot so the caller's page loop
// can carry on.
func (b *Browser) ScrapePage(ctx context.Context, pageURL string) models.PageResult {
	result := models.PageResult{URL: pageURL, Listings: []models.Listing{}}

	taskCtx, cancel := chromedp.NewContext(b.allocCtx)
	defer cancel()
	taskCtx, cancel = context.WithTimeout(taskCtx, 45*time.Second)
	defer cancel()

	err := chromedp.Run(taskCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(stealthScript, nil),
	)
	if err != nil {
		result.Error = fetchError(err)
		return result
	}

	randomDelay(2*time.Second, 4*time.Second)

	var html string
	if err := chromedp.Run(taskCtx, chromedp.OuterHTML("html", &html)); err != nil {
		result.Error = fetchError(err)
		return result
	}

	if isChallengePage(html) {
		log.Printf("Detected Kasada challenge on %s, waiting...", pageURL)
		if stillBlocked := b.waitOutChallenge(taskCtx, &html); stillBlocked {
			result.Error = errBlocked
			return result
		}
	}

	if err := b.scrollPage(taskCtx); err != nil {
		log.Printf("Scroll failed (continuing): %v", err)
	}
	randomDelay(1*time.Second, 2*time.Second)

	if err := chromedp.Run(taskCtx, chromedp.OuterHTML("html", &html)); err != nil {
		result.Error = fetchError(err)
		return result
	}

	result = parsePage(pageURL, html)

	// The markup scan can miss anchors rendered after hydration, so query
	// the live document as a last resort.
	if len(result.Listings) == 0 {
		if listings := b.domListings(taskCtx); len(listings) > 0 {
			result.Listings = listings
		}
	}

	return result
}

// waitOutChallenge gives Kasada time to clear, nudges it with a synthetic
// mouse move and rechecks once. Reports whether the page is still blocked.
func (b *Browser) waitOutChallenge(ctx context.Context, html *string) bool {
	time.Sleep(10 * time.Second)

	if err := chromedp.Run(ctx, chromedp.Evaluate(mouseMoveScript, nil)); err != nil {
		log.Printf("Mouse move script failed: %v", err)
	}
	time.Sleep(5 * time.Second)

	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", html)); err != nil {
		return true
	}
	return isChallengePage(*html)
}

// scrollPage scrolls down in stages to trigger lazy loading, then back up.
func (b *Browser) scrollPage(ctx context.Context) error {
	for i := 1; i <= 3; i++ {
		script := fmt.Sprintf("window.scrollTo(0, document.body.scrollHeight * %d / 4);", i)
		if err := chromedp.Run(ctx, chromedp.Evaluate(script, nil)); err != nil {
			return err
		}
		randomDelay(500*time.Millisecond, 1500*time.Millisecond)
	}
	return chromedp.Run(ctx, chromedp.Evaluate("window.scrollTo(0, 0);", nil))
}

// domListings queries the rendered document for listing anchors. A query
// failure is logged and yields whatever was collected; it never fails the
// page.
func (b *Browser) domListings(ctx context.Context) []models.Listing {
	var nodes []*cdp.Node
	err := chromedp.Run(ctx,
		chromedp.Nodes(`a[href*="/property-"]`, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	)
	if err != nil {
		log.Printf("Error scanning rendered links: %v", err)
		return nil
	}

	hrefs := make([]string, 0, len(nodes))
	for _, node := range nodes {
		if href := node.AttributeValue("href"); href != "" {
			hrefs = append(hrefs, href)
		}
	}

	return listingsFromLinks(hrefs)
}

// fetchError turns a navigation failure into the page-level error string.
func fetchError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "page load timeout"
	}
	return err.Error()
}

// randomDelay sleeps for a random duration between min and max. Fixed
// delays are a detectable pattern.
func randomDelay(min, max time.Duration) {
	if max <= min {
		time.Sleep(min)
		return
	}
	time.Sleep(min + time.Duration(rand.Int63n(int64(max-min))))
}
