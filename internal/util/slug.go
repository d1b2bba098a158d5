// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Matches spaces, underscores, and slashes (for replacement with dashes).
	wordSeparatorRe = regexp.MustCompile(`[\s_/]+`)
	// Matches non-alphanumeric characters (except dashes).
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9-]`)
	// Matches multiple consecutive dashes.
	multipleDashRe = regexp.MustCompile(`-+`)
)

// stripDiacritics removes combining marks so accented characters fold to
// their base letter ("Café" → "Cafe") instead of being dropped entirely.
var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Slugify converts a title or tag name to a canonical URL slug.
// The slug is the source of truth for article and tag identity.
//
// Normalization rules:
//  1. Fold diacritics to base letters
//  2. Trim whitespace and lowercase
//  3. Replace spaces, underscores, and slashes with dashes
//  4. Remove non-alphanumeric characters (except dashes)
//  5. Collapse multiple dashes
//  6. Trim leading/trailing dashes
//
// Examples:
//
//	"My Great Day"  → "my-great-day"
//	"Café Society"  → "cafe-society"
//	"slow_burn"     → "slow-burn"
//	"  multi   word " → "multi-word"
//	"--leading--"   → "leading"
func Slugify(input string) string {
	s, _, err := transform.String(stripDiacritics, input)
	if err != nil {
		s = input
	}

	s = strings.ToLower(strings.TrimSpace(s))
	s = wordSeparatorRe.ReplaceAllString(s, "-")
	s = nonAlphanumericRe.ReplaceAllString(s, "")
	s = multipleDashRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	return s
}
