package extract

import (
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/ticoet/geoscan/internal/model"
)

// Result contains all fact groups extracted from one page.
//
// Design decision: We return a comprehensive result struct from a
// single parsing pass rather than exposing per-group methods because:
//  1. One DOM walk is cheaper than five
//  2. Related facts (JSON-LD presence feeds both content and
//     metadata scoring) stay consistent by construction
//  3. The caller copies the groups it needs into the report
type Result struct {
	// Entities is the schema.org entity fact group.
	Entities model.EntityStats

	// Media is the media fact group.
	Media model.MediaStats

	// Content is the structured-content fact group.
	Content model.ContentStats

	// Metadata is the page-metadata fact group.
	Metadata model.MetadataStats

	// JSONLD holds every decoded JSON-LD block.
	JSONLD []model.JSONLDBlock

	// IsLikelyWordPress reports whether the page fingerprints as
	// WordPress.
	IsLikelyWordPress bool
}

// Extractor analyzes page markup.
//
// Design decision: We use golang.org/x/net/html for parsing rather
// than regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
//  4. Standard library extension, well-maintained
type Extractor struct {
	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// document holds the nodes of interest collected in one DOM walk.
// The analyzers consume it instead of re-walking the tree.
type document struct {
	markup      string
	jsonldRaw   []string
	details     []*html.Node
	blockquotes []*html.Node
	images      []*html.Node
	videos      int
	audios      int
	cites       int
	geoImages   int
	geoVideos   int
	geoAudios   int

	titleFound bool
	title      string

	descriptionFound bool
	description      string

	ogTitle string
	ogImage string

	generator string

	microdataCount  int
	microdataOrg    int
	microdataPerson int
}

// Extract analyzes markup and returns a complete Result. It never
// fails: markup the parser cannot make sense of simply yields empty
// fact groups.
func (e *Extractor) Extract(markup string) *Result {
	result := &Result{
		Entities: model.EntityStats{Details: make([]model.ExtractedEntity, 0)},
		Media: model.MediaStats{
			ImagesWithoutAltDetails: make([]string, 0),
			ImagesDetails:           make([]string, 0),
		},
		Content: model.ContentStats{
			FAQDetails:    make([]model.FAQEntry, 0),
			QuotesDetails: make([]model.QuoteEntry, 0),
		},
		JSONLD: make([]model.JSONLDBlock, 0),
	}

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		// html.Parse only fails on reader errors, which a string
		// reader never produces. Guard anyway.
		e.logger.Warn("markup parse failed", "error", err)
		return result
	}

	doc := e.collect(root, markup)

	blocks := decodeJSONLDBlocks(doc.jsonldRaw, e.logger)
	result.JSONLD = blocks

	e.analyzeEntities(doc, blocks, result)
	e.analyzeMedia(doc, result)
	e.analyzeContent(doc, blocks, result)
	e.analyzeMetadata(doc, result)
	result.IsLikelyWordPress = isLikelyWordPress(doc)

	return result
}

// collect walks the DOM tree once and gathers every node the
// analyzers need.
func (e *Extractor) collect(root *html.Node, markup string) *document {
	doc := &document{markup: markup}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			e.collectElement(n, doc)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return doc
}

// collectElement records one element node into the document.
func (e *Extractor) collectElement(n *html.Node, doc *document) {
	class := getAttr(n, "class")
	if strings.Contains(class, "geo-image") {
		doc.geoImages++
	}
	if strings.Contains(class, "geo-video") {
		doc.geoVideos++
	}
	if strings.Contains(class, "geo-audio") {
		doc.geoAudios++
	}

	if hasAttr(n, "itemscope") || hasAttr(n, "itemtype") {
		doc.microdataCount++
	}
	if hasAttr(n, "itemscope") {
		itemtype := getAttr(n, "itemtype")
		switch {
		case strings.Contains(itemtype, "schema.org/Organization"):
			doc.microdataOrg++
		case strings.Contains(itemtype, "schema.org/Person"):
			doc.microdataPerson++
		}
	}

	switch n.Data {
	case "script":
		if strings.EqualFold(getAttr(n, "type"), "application/ld+json") {
			doc.jsonldRaw = append(doc.jsonldRaw, textContent(n))
		}

	case "details":
		// Only a summary that is a direct child makes the element a
		// disclosure FAQ candidate.
		if directChild(n, "summary") != nil {
			doc.details = append(doc.details, n)
		}

	case "blockquote":
		doc.blockquotes = append(doc.blockquotes, n)

	case "cite":
		doc.cites++

	case "img":
		doc.images = append(doc.images, n)

	case "video":
		doc.videos++

	case "audio":
		doc.audios++

	case "iframe", "embed":
		if isVideoEmbed(getAttr(n, "src")) {
			doc.videos++
		}

	case "title":
		// Keep the first title only; duplicated title elements exist
		// in the wild and the first one is what browsers show.
		if !doc.titleFound {
			doc.titleFound = true
			doc.title = strings.TrimSpace(textContent(n))
		}

	case "meta":
		name := getAttr(n, "name")
		property := getAttr(n, "property")
		content := getAttr(n, "content")
		switch {
		case strings.EqualFold(name, "description") && !doc.descriptionFound:
			doc.descriptionFound = true
			doc.description = strings.TrimSpace(content)
		case strings.EqualFold(name, "generator"):
			doc.generator = content
		case strings.EqualFold(property, "og:title") && doc.ogTitle == "":
			doc.ogTitle = strings.TrimSpace(content)
		case strings.EqualFold(property, "og:image") && doc.ogImage == "":
			doc.ogImage = content
		}
	}
}

// videoHosts are the embed source domains counted as video content.
var videoHosts = []string{
	"youtube.com",
	"youtu.be",
	"vimeo.com",
	"dailymotion.com",
}

// isVideoEmbed reports whether an iframe/embed source references a
// known video-hosting domain.
func isVideoEmbed(src string) bool {
	if src == "" {
		return false
	}
	src = strings.ToLower(src)
	for _, host := range videoHosts {
		if strings.Contains(src, host) {
			return true
		}
	}
	return false
}

// getAttr returns the value of the named attribute, or empty string.
func getAttr(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// hasAttr reports whether the named attribute is present, regardless
// of its value. Boolean attributes like itemscope are typically
// written without a value.
func hasAttr(n *html.Node, name string) bool {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return true
		}
	}
	return false
}

// textContent concatenates all text nodes under n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// findChild returns the first descendant element with the given tag
// name, or nil.
func findChild(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := findChild(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// directChild returns the first direct child element with the given
// tag name, without descending further.
func directChild(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}
