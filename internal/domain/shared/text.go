package shared

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText trims and NFC-normalizes user supplied text so that
// byte-wise substring search treats equivalent characters alike.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NormalizeQuery NFC-normalizes a search query. Surrounding spaces are
// kept because they are part of the substring being matched.
func NormalizeQuery(s string) string {
	return norm.NFC.String(s)
}
