package activities

import (
	"regexp"
	"strings"
)

var monthsPattern = regexp.MustCompile(`(\d+)\s*month`)

// Keyword tables for free-text time references, checked in order.
var (
	shortTermKeywords = []string{"latest", "recent", "now"}
	yearKeywords      = []string{"this year", "a year", "last year", "1 year", "12 months"}
	longTermKeywords  = []string{"deep historical", "historical", "all time", "long term"}
)

// normalizeTimeframe maps a free-text time reference to a numeric horizon code.
// Empty references default to the short window; unrecognized references fall
// back to a year. Always returns a value.
func normalizeTimeframe(ref string) string {
	r := strings.ToLower(strings.TrimSpace(ref))
	if r == "" {
		return "3"
	}
	for _, kw := range shortTermKeywords {
		if strings.Contains(r, kw) {
			return "3"
		}
	}
	for _, kw := range yearKeywords {
		if strings.Contains(r, kw) {
			return "12"
		}
	}
	for _, kw := range longTermKeywords {
		if strings.Contains(r, kw) {
			return "48"
		}
	}
	if m := monthsPattern.FindStringSubmatch(r); m != nil {
		return m[1]
	}
	return "12"
}

// chartTimeframe resolves the time frame for chart-details calls. Charts only
// understand the two long-form codes; anything else widens to "48".
func chartTimeframe(ref string) string {
	tf := normalizeTimeframe(ref)
	if tf != "12" && tf != "48" {
		return "48"
	}
	return tf
}
