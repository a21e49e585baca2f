package provider

import "strings"

// serviceUnknownStr is the string representation for unknown services.
const serviceUnknownStr = "unknown"

// Service represents a supported scraping provider.
type Service string

// Service constants.
const (
	// ServiceUnknown represents an unrecognized provider.
	ServiceUnknown Service = ""
	// ServiceScrapingBee represents app.scrapingbee.com.
	ServiceScrapingBee Service = "scrapingbee"
	// ServiceScraperAPI represents api.scraperapi.com.
	ServiceScraperAPI Service = "scraperapi"
	// ServiceZenRows represents api.zenrows.com.
	ServiceZenRows Service = "zenrows"
	// ServiceBrowserless represents chrome.browserless.io.
	ServiceBrowserless Service = "browserless"
)

// String returns the string representation of the Service.
func (s Service) String() string {
	if s == ServiceUnknown {
		return serviceUnknownStr
	}
	return string(s)
}

// IsValid returns true if this is a known service.
func (s Service) IsValid() bool {
	switch s {
	case ServiceScrapingBee, ServiceScraperAPI, ServiceZenRows, ServiceBrowserless:
		return true
	default:
		return false
	}
}

// ParseService converts a configuration string to a Service. Matching
// is case-insensitive so hand-written config files are forgiving.
func ParseService(s string) Service {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scrapingbee":
		return ServiceScrapingBee
	case "scraperapi":
		return ServiceScraperAPI
	case "zenrows":
		return ServiceZenRows
	case "browserless":
		return ServiceBrowserless
	default:
		return ServiceUnknown
	}
}
