package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/ticoet/geoscan/internal/model"
)

// consentFragments are class/id substrings identifying cookie-consent
// tooling. Disclosure elements inside a matching ancestor are consent
// banner controls, not page FAQ.
var consentFragments = []string{
	"cmplz",
	"cookie",
	"consent",
	"gdpr",
	"rgpd",
	"tarteaucitron",
	"axeptio",
	"didomi",
	"onetrust",
	"cookiebot",
}

// analyzeContent fills the structured-content fact group: FAQs,
// blockquotes, citation markers, and the structured-data presence
// flags.
func (e *Extractor) analyzeContent(doc *document, blocks []model.JSONLDBlock, result *Result) {
	content := &result.Content

	for _, details := range doc.details {
		if insideConsentBanner(details) {
			continue
		}
		if entry, ok := disclosureFAQ(details); ok {
			content.FAQDetails = append(content.FAQDetails, entry)
		}
	}

	// A FAQPage block with extractable pairs fully replaces the
	// heuristic list. Merging the two would double-report pages that
	// mark up their visible FAQ.
	schemaFAQ, hasFAQSchema := faqFromBlocks(blocks)
	content.HasFAQSchema = hasFAQSchema
	if len(schemaFAQ) > 0 {
		content.FAQDetails = schemaFAQ
	}
	content.FAQ = len(content.FAQDetails)

	content.Blockquotes = len(doc.blockquotes)
	for _, quote := range doc.blockquotes {
		text := strings.TrimSpace(textContent(quote))
		if text == "" {
			continue
		}
		entry := model.QuoteEntry{
			Text: text,
			Cite: getAttr(quote, "cite"),
		}
		if citeElement := findChild(quote, "cite"); citeElement != nil {
			entry.Author = strings.TrimSpace(textContent(citeElement))
		}
		content.QuotesDetails = append(content.QuotesDetails, entry)
	}

	content.Cites = doc.cites
	content.HasJSONLD = len(doc.jsonldRaw) > 0
	content.HasSchemaOrg = doc.microdataCount > 0 || content.HasJSONLD
}

// insideConsentBanner walks the ancestor chain of a node looking for
// a consent-tool fragment in any class or id. The walk is iterative:
// parent references bound it by tree depth, not stack depth.
func insideConsentBanner(n *html.Node) bool {
	for parent := n; parent != nil; parent = parent.Parent {
		if parent.Type != html.ElementNode {
			continue
		}
		marker := strings.ToLower(getAttr(parent, "class") + " " + getAttr(parent, "id"))
		for _, fragment := range consentFragments {
			if strings.Contains(marker, fragment) {
				return true
			}
		}
	}
	return false
}

// disclosureFAQ builds one question/answer pair from a details
// element: question from its summary, answer from the concatenated
// text of its other element children. Pairs without a question are
// dropped.
func disclosureFAQ(details *html.Node) (model.FAQEntry, bool) {
	summary := directChild(details, "summary")
	if summary == nil {
		return model.FAQEntry{}, false
	}
	question := strings.TrimSpace(textContent(summary))
	if question == "" {
		return model.FAQEntry{}, false
	}

	var answer strings.Builder
	for c := details.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data == "summary" {
			continue
		}
		if text := strings.TrimSpace(textContent(c)); text != "" {
			answer.WriteString(text)
			answer.WriteString(" ")
		}
	}

	return model.FAQEntry{
		Question: question,
		Answer:   strings.TrimSpace(answer.String()),
	}, true
}

// faqFromBlocks extracts question/answer pairs from FAQPage JSON-LD
// blocks. The second return reports whether any FAQPage block exists,
// independent of whether pairs could be extracted from it.
func faqFromBlocks(blocks []model.JSONLDBlock) ([]model.FAQEntry, bool) {
	var entries []model.FAQEntry
	found := false

	for _, block := range blocks {
		for _, item := range blockItems(block.Data) {
			if entityTypeIs(item, "FAQPage") {
				found = true
				entries = append(entries, faqPairs(item)...)
			}
		}
	}
	return entries, found
}

// entityTypeIs reports whether an item declares the given @type,
// checking every member of a @type array.
func entityTypeIs(item map[string]any, want string) bool {
	switch t := item["@type"].(type) {
	case string:
		return t == want
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

// faqPairs walks a FAQPage item's mainEntity list and extracts each
// Question's name and accepted answer text.
func faqPairs(item map[string]any) []model.FAQEntry {
	mainEntity, ok := item["mainEntity"].([]any)
	if !ok {
		// A single question may also appear as one object.
		if single, ok := item["mainEntity"].(map[string]any); ok {
			mainEntity = []any{single}
		} else {
			return nil
		}
	}

	entries := make([]model.FAQEntry, 0, len(mainEntity))
	for _, raw := range mainEntity {
		question, ok := raw.(map[string]any)
		if !ok || !entityTypeIs(question, "Question") {
			continue
		}
		name := strings.TrimSpace(stringField(question, "name"))
		if name == "" {
			continue
		}
		entry := model.FAQEntry{Question: name, HasSchema: true}
		if accepted, ok := question["acceptedAnswer"].(map[string]any); ok {
			entry.Answer = strings.TrimSpace(stringField(accepted, "text"))
		}
		entries = append(entries, entry)
	}
	return entries
}
