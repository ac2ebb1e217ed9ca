package ingest

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// NormalizeRelativeTime converts a maps-site recency string ("3 weeks ago")
// into a stable "January-2006" label, using now as the reference point. The
// conversion happens once at ingestion; the label is never re-derived, so a
// review keeps the same month even when it is revisited days later.
//
// Scraped strings sometimes arrive with star glyphs and rating text glued
// on; only the line carrying a day/week/month/year marker is considered.
func NormalizeRelativeTime(raw string, now time.Time) string {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return "Unknown Date"
	}

	if strings.ContainsRune(clean, '') || strings.Contains(clean, "\n") {
		for _, part := range strings.Split(clean, "\n") {
			if containsTimeMarker(part) {
				clean = strings.TrimSpace(part)
				break
			}
		}
	}

	unit, ok := timeMarker(clean)
	if !ok {
		return clean
	}

	n := leadingNumber(clean, unit)
	var at time.Time
	switch unit {
	case "day":
		at = now.AddDate(0, 0, -n)
	case "week":
		at = now.AddDate(0, 0, -n*7)
	case "month":
		at = now.AddDate(0, 0, -n*30)
	case "year":
		at = now.AddDate(0, 0, -n*365)
	}
	return at.Format("January-2006")
}

func containsTimeMarker(s string) bool {
	_, ok := timeMarker(s)
	return ok
}

func timeMarker(s string) (string, bool) {
	lower := strings.ToLower(s)
	for _, unit := range []string{"day", "week", "month", "year"} {
		if strings.Contains(lower, unit) {
			return unit, true
		}
	}
	return "", false
}

// leadingNumber extracts the count before the unit; "a week ago" and
// "yesterday"-style strings count as 1.
func leadingNumber(s, unit string) int {
	lower := strings.ToLower(s)
	prefix := lower[:strings.Index(lower, unit)]
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, prefix)
	if digits == "" {
		return 1
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
