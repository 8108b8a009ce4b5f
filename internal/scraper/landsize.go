package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

var landSizeNumPattern = regexp.MustCompile(`([\d.]+)`)

// parseLandSize converts a land size display string ("2.5 ha", "10 acres",
// "500 sqm") to square meters. Only the first numeric token is used; ranges
// like "2-5 ha" take the lower bound. Strings without a recognized unit are
// assumed to already be in square meters.
func parseLandSize(sizeStr string) (float64, bool) {
	sizeStr = strings.ToLower(strings.TrimSpace(sizeStr))
	sizeStr = strings.ReplaceAll(sizeStr, ",", "")

	matches := landSizeNumPattern.FindStringSubmatch(sizeStr)
	if len(matches) < 2 {
		return 0, false
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, false
	}

	switch {
	case strings.Contains(sizeStr, "hectare") || strings.Contains(sizeStr, "ha"):
		return value * 10000, true
	case strings.Contains(sizeStr, "acre"):
		return value * 4046.86, true
	case strings.Contains(sizeStr, "m²") || strings.Contains(sizeStr, "sqm") || strings.Contains(sizeStr, "m2"):
		return value, true
	default:
		return value, true
	}
}
