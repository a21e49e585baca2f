// Package main provides the entry point for the geoscan CLI.
//
// geoscan audits web pages for machine readability: it fetches a page
// through a cascade of anti-bot-resilient strategies, extracts
// structured data (schema.org entities, media, FAQ content, metadata),
// and scores the page from 0 to 100 with prioritized recommendations.
//
// Usage:
//
//	geoscan audit <url>
//	geoscan audit --markup-file page.html
//	geoscan serve --listen :8417
//
// See --help for all available options.
package main

// main is the entry point for geoscan.
func main() {
	Execute()
}
