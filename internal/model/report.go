package model

import (
	"errors"
	"net/url"
	"time"
)

// AuditMode selects how the markup under audit is obtained.
type AuditMode string

// Audit mode constants.
const (
	// ModeURL fetches the page through the acquisition cascade.
	ModeURL AuditMode = "url"
	// ModeMarkup audits caller-supplied markup without any fetching.
	ModeMarkup AuditMode = "markup"
)

// MinMarkupLength is the minimum accepted length for caller-supplied
// markup in ModeMarkup. Anything shorter is rejected as invalid input
// before any analysis runs.
const MinMarkupLength = 100

// DefaultPageType is the page classification used when the caller does
// not provide one.
const DefaultPageType = "article"

// Input validation errors. These map to 400-class outcomes at the
// transport boundary and are surfaced before any acquisition attempt.
var (
	// ErrMissingURL is returned when ModeURL is requested without a URL.
	ErrMissingURL = errors.New("missing or invalid URL")

	// ErrMarkupTooShort is returned when ModeMarkup is requested with
	// markup shorter than MinMarkupLength.
	ErrMarkupTooShort = errors.New("markup too short to audit")
)

// AuditRequest describes one audit to perform. It is immutable once
// built; Validate is the only operation and has no side effects.
type AuditRequest struct {
	// Mode selects URL fetching or markup pasting.
	Mode AuditMode `json:"mode"`

	// URL is the page to audit (ModeURL), or a free-form label for the
	// pasted markup (ModeMarkup).
	URL string `json:"url"`

	// Markup is the caller-supplied markup (ModeMarkup only).
	Markup string `json:"markup,omitempty"`

	// PageType is a free-form classification hint ("article",
	// "landing", ...). Defaults to DefaultPageType.
	PageType string `json:"pageType"`

	// UseProxyStrategy enables the advanced-bypass strategy group.
	UseProxyStrategy bool `json:"useProxyStrategy"`

	// UseScrapingProvider tries the configured scraping provider early
	// in the cascade instead of only as a last resort.
	UseScrapingProvider bool `json:"useScrapingProvider"`

	// IdentifyAsBot announces the auditor openly with a bot user agent
	// before any other strategy runs.
	IdentifyAsBot bool `json:"identifyAsBot"`
}

// Validate checks the request for input errors. It returns
// ErrMissingURL or ErrMarkupTooShort, or nil for a valid request.
func (r *AuditRequest) Validate() error {
	switch r.Mode {
	case ModeMarkup:
		if len(r.Markup) < MinMarkupLength {
			return ErrMarkupTooShort
		}
	default:
		if !validAuditURL(r.URL) {
			return ErrMissingURL
		}
	}
	return nil
}

// validAuditURL reports whether s is an absolute http or https URL
// with a host. Anything else is rejected before the cascade runs: a
// malformed target would burn every strategy on a request that can
// never succeed.
func validAuditURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// NormalizedPageType returns the page type hint, defaulting to
// DefaultPageType when empty.
func (r *AuditRequest) NormalizedPageType() string {
	if r.PageType == "" {
		return DefaultPageType
	}
	return r.PageType
}

// EntityStats aggregates schema.org entity detection results.
// Counts include both JSON-LD and microdata sources; when both signal
// the same entity the counts are summed, not deduplicated.
type EntityStats struct {
	// Organization is the number of Organization entities found.
	Organization int `json:"organization"`

	// Person is the number of Person entities found.
	Person int `json:"person"`

	// Service is the number of Service entities found.
	Service int `json:"service"`

	// Product is the number of Product entities found.
	Product int `json:"product"`

	// LocalBusiness is the number of LocalBusiness entities found.
	LocalBusiness int `json:"localBusiness"`

	// Details holds one record per JSON-LD entity.
	Details []ExtractedEntity `json:"details"`
}

// Total returns the combined count of the four entity kinds that feed
// the entity score (LocalBusiness is reported but not scored).
func (e *EntityStats) Total() int {
	return e.Organization + e.Person + e.Service + e.Product
}

// Detail caps for the media lists. Real pages can carry hundreds of
// images; the report stays bounded regardless.
const (
	// MaxImagesWithoutAltDetails bounds the offending-image list.
	MaxImagesWithoutAltDetails = 20
	// MaxImagesDetails bounds the full image descriptor list.
	MaxImagesDetails = 30
)

// OptimizedMediaStats counts elements carrying the geo-* marker
// classes that flag media as answer-engine optimized.
type OptimizedMediaStats struct {
	// Images is the number of geo-image marked elements.
	Images int `json:"images"`

	// Videos is the number of geo-video marked elements.
	Videos int `json:"videos"`

	// Audios is the number of geo-audio marked elements.
	Audios int `json:"audios"`
}

// MediaStats aggregates media detection results.
type MediaStats struct {
	// Images is the total number of img elements.
	Images int `json:"images"`

	// ImagesWithAlt is the number of images with a non-empty alt
	// description. An empty alt attribute does not count.
	ImagesWithAlt int `json:"imagesWithAlt"`

	// ImagesWithoutAlt is Images minus ImagesWithAlt.
	ImagesWithoutAlt int `json:"imagesWithoutAlt"`

	// ImagesWithoutAltDetails lists descriptors of offending images,
	// capped at MaxImagesWithoutAltDetails.
	ImagesWithoutAltDetails []string `json:"imagesWithoutAltDetails"`

	// ImagesDetails lists descriptors of all images, capped at
	// MaxImagesDetails.
	ImagesDetails []string `json:"imagesDetails"`

	// Videos counts native video elements plus embeds whose source
	// references a known video-hosting domain.
	Videos int `json:"videos"`

	// Audios counts native audio elements.
	Audios int `json:"audios"`

	// GEOOptimized counts media carrying geo-* marker classes.
	GEOOptimized OptimizedMediaStats `json:"geoOptimized"`
}

// FAQEntry is one question/answer pair.
type FAQEntry struct {
	// Question is the question text.
	Question string `json:"question"`

	// Answer is the answer text.
	Answer string `json:"answer"`

	// HasSchema reports whether the pair came from a FAQPage JSON-LD
	// block rather than from heuristic disclosure-element detection.
	HasSchema bool `json:"hasSchema"`
}

// QuoteEntry is one captured blockquote.
type QuoteEntry struct {
	// Text is the blockquote text content.
	Text string `json:"text"`

	// Cite is the cite attribute value, when present.
	Cite string `json:"cite"`

	// Author is the text of a nested cite element, when present.
	Author string `json:"author"`
}

// ContentStats aggregates structured-content detection results.
type ContentStats struct {
	// FAQ is the number of FAQ entries retained in FAQDetails.
	FAQ int `json:"faq"`

	// FAQDetails holds the retained question/answer pairs. When a
	// FAQPage JSON-LD block yields at least one pair, it fully
	// replaces the heuristic list.
	FAQDetails []FAQEntry `json:"faqDetails"`

	// HasFAQSchema reports whether a FAQPage JSON-LD block exists.
	HasFAQSchema bool `json:"hasFAQSchema"`

	// Blockquotes is the total number of blockquote elements.
	Blockquotes int `json:"blockquotes"`

	// QuotesDetails holds one record per non-empty blockquote.
	QuotesDetails []QuoteEntry `json:"quotesDetails"`

	// Cites is the number of cite elements in the document.
	Cites int `json:"cites"`

	// HasSchemaOrg reports whether any structured-data markup is
	// present at all: a microdata attribute or a JSON-LD block.
	HasSchemaOrg bool `json:"hasSchemaOrg"`

	// HasJSONLD reports whether any JSON-LD block is present.
	HasJSONLD bool `json:"hasJSONLD"`
}

// MetadataStats aggregates page metadata detection results.
// Lengths are byte lengths; they are part of the report contract.
type MetadataStats struct {
	// HasTitle reports whether a title element exists.
	HasTitle bool `json:"hasTitle"`

	// Title is the trimmed title text.
	Title string `json:"title"`

	// TitleLength is the byte length of Title.
	TitleLength int `json:"titleLength"`

	// HasDescription reports whether a meta description exists.
	HasDescription bool `json:"hasDescription"`

	// Description is the trimmed meta description.
	Description string `json:"description"`

	// DescriptionLength is the byte length of Description.
	DescriptionLength int `json:"descriptionLength"`

	// HasOG reports whether the page has a usable social preview:
	// both og:title and og:image must be present.
	HasOG bool `json:"hasOG"`

	// OGTitle is the trimmed og:title content.
	OGTitle string `json:"ogTitle"`
}

// JSONLDBlock is one JSON-LD script block found in the page, kept in
// the report so consumers can inspect the raw structured data.
type JSONLDBlock struct {
	// Type is the declared @type, or the comma-joined unique types of
	// a @graph block, or "Unknown".
	Type string `json:"type"`

	// Data is the decoded block content.
	Data any `json:"data"`
}

// AuditReport is the complete result of one page audit.
// All fields are populated before the report is returned; a failed
// acquisition never produces a partial report.
type AuditReport struct {
	// URL is the audited page URL or markup label.
	URL string `json:"url"`

	// PageType is the page classification hint.
	PageType string `json:"pageType"`

	// Timestamp is when the audit ran.
	Timestamp time.Time `json:"timestamp"`

	// Score is the final audit score, 0-100, truncated to two decimals.
	Score float64 `json:"score"`

	// IsLikelyWordPress reports whether the page fingerprints as a
	// WordPress site (at least two of the known markers present).
	IsLikelyWordPress bool `json:"isLikelyWordPress"`

	// FetchedVia names the acquisition strategy that produced the
	// markup, or "markup" for pasted input.
	FetchedVia string `json:"fetchedVia,omitempty"`

	// Entities is the schema.org entity fact group.
	Entities EntityStats `json:"entities"`

	// Media is the media fact group.
	Media MediaStats `json:"media"`

	// Content is the structured-content fact group.
	Content ContentStats `json:"content"`

	// Metadata is the page-metadata fact group.
	Metadata MetadataStats `json:"metadata"`

	// JSONLD holds all JSON-LD blocks found in the page.
	JSONLD []JSONLDBlock `json:"jsonld"`

	// Breakdown is the four-category point decomposition.
	Breakdown ScoreBreakdown `json:"breakdown"`

	// Recommendations is the prioritized remediation list.
	Recommendations []Recommendation `json:"recommendations"`
}

// NewAuditReport creates an AuditReport for the given request with the
// timestamp set and all slices initialized, so an empty report still
// serializes with empty arrays rather than nulls.
func NewAuditReport(req *AuditRequest) *AuditReport {
	url := req.URL
	if req.Mode == ModeMarkup && url == "" {
		url = "pasted markup"
	}
	return &AuditReport{
		URL:       url,
		PageType:  req.NormalizedPageType(),
		Timestamp: time.Now(),
		Entities:  EntityStats{Details: make([]ExtractedEntity, 0)},
		Media: MediaStats{
			ImagesWithoutAltDetails: make([]string, 0),
			ImagesDetails:           make([]string, 0),
		},
		Content: ContentStats{
			FAQDetails:    make([]FAQEntry, 0),
			QuotesDetails: make([]QuoteEntry, 0),
		},
		JSONLD:          make([]JSONLDBlock, 0),
		Recommendations: make([]Recommendation, 0),
	}
}
