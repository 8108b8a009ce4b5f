package scraper

import (
	"testing"
)

func testListing(id string) map[string]interface{} {
	return map[string]interface{}{
		"id":        id,
		"prettyUrl": "/property-rural-nsw-mudgee-" + id,
	}
}

// nest wraps v in n levels of single-key objects.
func nest(v interface{}, n int) map[string]interface{} {
	for i := 0; i < n; i++ {
		v = map[string]interface{}{"level": v}
	}
	return v.(map[string]interface{})
}

func TestExtractEmbeddedJSONArgonaut(t *testing.T) {
	html := `<html><script>window.ArgonautExchange = {"rpiResults": {}};</script></html>`
	data := extractEmbeddedJSON(html)
	if data == nil {
		t.Fatal("expected payload")
	}
	if _, ok := data["rpiResults"]; !ok {
		t.Errorf("unexpected payload: %v", data)
	}
}

func TestExtractEmbeddedJSONNextData(t *testing.T) {
	html := `<html><script type="application/json" id="__NEXT_DATA__">{"props": {"pageProps": {}}}</script></html>`
	data := extractEmbeddedJSON(html)
	if data == nil {
		t.Fatal("expected payload")
	}
	if _, ok := data["props"]; !ok {
		t.Errorf("unexpected payload: %v", data)
	}
}

func TestExtractEmbeddedJSONSkipsUnparseable(t *testing.T) {
	// The Argonaut pattern matches but does not parse, so the next
	// pattern should be tried.
	html := `<html><script>window.ArgonautExchange = {broken};</script>` +
		`<script type="application/json" id="__NEXT_DATA__">{"props": {}}</script></html>`
	data := extractEmbeddedJSON(html)
	if data == nil {
		t.Fatal("expected fallback payload")
	}
	if _, ok := data["props"]; !ok {
		t.Errorf("unexpected payload: %v", data)
	}
}

func TestExtractEmbeddedJSONNone(t *testing.T) {
	if data := extractEmbeddedJSON("<html><body>hello</body></html>"); data != nil {
		t.Errorf("expected nil, got %v", data)
	}
}

func TestExtractListingsFixedPath(t *testing.T) {
	data := map[string]interface{}{
		"rpiResults": map[string]interface{}{
			"tieredResults": []interface{}{
				map[string]interface{}{
					"results": []interface{}{
						testListing("143200001"),
						map[string]interface{}{"noId": true},
						testListing("143200002"),
					},
				},
			},
		},
	}

	listings := extractListingsFromJSON(data)
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}
	if listings[0].ExternalID != "143200001" || listings[1].ExternalID != "143200002" {
		t.Errorf("wrong listings: %+v", listings)
	}
}

func TestExtractListingsRecursiveFallback(t *testing.T) {
	data := map[string]interface{}{
		"some": map[string]interface{}{
			"deep": []interface{}{testListing("143200003")},
		},
	}

	listings := extractListingsFromJSON(data)
	if len(listings) != 1 || listings[0].ExternalID != "143200003" {
		t.Fatalf("got %+v, want one listing 143200003", listings)
	}
}

func TestFindListingsRecursiveDepthCutoff(t *testing.T) {
	if got := findListingsRecursive(nest(testListing("143200004"), 9), 0); len(got) != 1 {
		t.Errorf("depth 9: got %d listings, want 1", len(got))
	}
	if got := findListingsRecursive(nest(testListing("143200004"), 11), 0); len(got) != 0 {
		t.Errorf("depth 11: got %d listings, want 0 (hard cutoff)", len(got))
	}
}

func TestFindListingsRecursiveSkipsMetadataKeys(t *testing.T) {
	for _, key := range []string{"tracking", "analytics", "meta"} {
		data := map[string]interface{}{
			"outer": map[string]interface{}{
				key: testListing("143200005"),
			},
		}
		if got := findListingsRecursive(data, 0); len(got) != 0 {
			t.Errorf("listing under %q should never be reached, got %d", key, len(got))
		}
	}
}

func TestFindListingsRecursiveTerminalMatch(t *testing.T) {
	outer := testListing("143200006")
	outer["nested"] = testListing("143200007")

	got := findListingsRecursive(map[string]interface{}{"results": outer}, 0)
	if len(got) != 1 {
		t.Fatalf("got %d listings, want 1 (confirmed listings are terminal)", len(got))
	}
	if got[0].ExternalID != "143200006" {
		t.Errorf("got %q, want the outer listing", got[0].ExternalID)
	}
}
