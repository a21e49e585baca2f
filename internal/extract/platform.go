package extract

import "strings"

// minWordPressMarkers is the match threshold for the WordPress
// fingerprint. A single marker appears on plenty of non-WordPress
// pages (a hotlinked wp-content image, say); two is a strong signal.
const minWordPressMarkers = 2

// wordPressMarkers are raw-markup substrings characteristic of a
// WordPress installation.
var wordPressMarkers = []string{
	"wp-content",
	"wp-includes",
	"wp-json",
	"wp-admin",
	"wp-block-",
	"wp-emoji",
	"wpforms",
}

// isLikelyWordPress fingerprints the page as WordPress by counting
// distinct markers in the raw markup plus the generator meta tag.
func isLikelyWordPress(doc *document) bool {
	markup := strings.ToLower(doc.markup)

	matches := 0
	for _, marker := range wordPressMarkers {
		if strings.Contains(markup, marker) {
			matches++
		}
	}
	if strings.Contains(strings.ToLower(doc.generator), "wordpress") {
		matches++
	}
	return matches >= minWordPressMarkers
}
