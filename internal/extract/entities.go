package extract

import (
	"fmt"
	"strings"

	"github.com/ticoet/geoscan/internal/model"
)

// analyzeEntities fills the entity fact group from JSON-LD blocks and
// microdata declarations. Counts sum both sources; a page declaring
// the same organization in JSON-LD and microdata counts it twice.
func (e *Extractor) analyzeEntities(doc *document, blocks []model.JSONLDBlock, result *Result) {
	for _, block := range blocks {
		for _, item := range blockItems(block.Data) {
			kind := entityKind(item)
			if !kind.IsValid() {
				continue
			}
			entity := buildEntity(kind, item)
			result.Entities.Details = append(result.Entities.Details, entity)
			switch kind {
			case model.EntityKindOrganization:
				result.Entities.Organization++
			case model.EntityKindPerson:
				result.Entities.Person++
			case model.EntityKindService:
				result.Entities.Service++
			case model.EntityKindProduct:
				result.Entities.Product++
			case model.EntityKindLocalBusiness:
				result.Entities.LocalBusiness++
			}
		}
	}

	// Microdata contributes to counts only, never to details.
	result.Entities.Organization += doc.microdataOrg
	result.Entities.Person += doc.microdataPerson
}

// entityKind resolves the recognized kind of one JSON-LD item. A
// @type array yields the first recognized member, so an item typed
// ["Thing", "Organization"] still counts as an Organization.
func entityKind(item map[string]any) model.EntityKind {
	switch t := item["@type"].(type) {
	case string:
		return model.ParseEntityKind(t)
	case []any:
		for _, v := range t {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if kind := model.ParseEntityKind(s); kind.IsValid() {
				return kind
			}
		}
	}
	return model.EntityKindUnknown
}

// buildEntity constructs the detailed record for one recognized item,
// populating only the fields relevant to its kind.
func buildEntity(kind model.EntityKind, item map[string]any) model.ExtractedEntity {
	entity := model.ExtractedEntity{
		Kind:      kind,
		Name:      entityName(item),
		HasJSONLD: true,
	}

	switch kind {
	case model.EntityKindOrganization:
		entity.URL = stringField(item, "url")
		entity.Logo = displayString(item["logo"])
	case model.EntityKindPerson:
		entity.JobTitle = stringField(item, "jobTitle")
		_, entity.WorksFor = item["worksFor"]
	case model.EntityKindService:
		entity.Description = stringField(item, "description")
	case model.EntityKindProduct:
		entity.Brand = displayString(item["brand"])
		entity.Offers = formatOffers(item["offers"])
	case model.EntityKindLocalBusiness:
		entity.Address = displayString(item["address"])
		entity.Telephone = stringField(item, "telephone")
	}

	return entity
}

// entityName returns the item name, falling back to the sentinel for
// unnamed items.
func entityName(item map[string]any) string {
	if name := strings.TrimSpace(stringField(item, "name")); name != "" {
		return name
	}
	return model.UnnamedEntity
}

// displayString normalizes a field that may be a plain string or a
// nested object (ImageObject, Brand, PostalAddress) to one display
// string. Nested objects prefer url, then name; a PostalAddress joins
// its street, postal code, and locality parts.
func displayString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case map[string]any:
		if url := stringField(value, "url"); url != "" {
			return url
		}
		if name := stringField(value, "name"); name != "" {
			return name
		}
		parts := make([]string, 0, 3)
		for _, key := range []string{"streetAddress", "postalCode", "addressLocality"} {
			if part := strings.TrimSpace(stringField(value, key)); part != "" {
				parts = append(parts, part)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// formatOffers normalizes an offers field, which may be one offer
// object or a list of them, to formatted strings combining price,
// currency, and availability.
func formatOffers(v any) []string {
	var raw []any
	switch value := v.(type) {
	case map[string]any:
		raw = []any{value}
	case []any:
		raw = value
	default:
		return nil
	}

	offers := make([]string, 0, len(raw))
	for _, item := range raw {
		offer, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if formatted := formatOffer(offer); formatted != "" {
			offers = append(offers, formatted)
		}
	}
	if len(offers) == 0 {
		return nil
	}
	return offers
}

// formatOffer renders one offer as "price currency (availability)",
// omitting the parts the offer does not declare.
func formatOffer(offer map[string]any) string {
	price := priceString(offer["price"])
	currency := stringField(offer, "priceCurrency")
	availability := availabilityLabel(stringField(offer, "availability"))

	var sb strings.Builder
	if price != "" {
		sb.WriteString(price)
		if currency != "" {
			sb.WriteString(" ")
			sb.WriteString(currency)
		}
	}
	if availability != "" {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("(" + availability + ")")
	}
	return sb.String()
}

// priceString renders a price that may arrive as a JSON string or
// number.
func priceString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		if value == float64(int64(value)) {
			return fmt.Sprintf("%d", int64(value))
		}
		return fmt.Sprintf("%g", value)
	}
	return ""
}

// availabilityLabel strips the schema.org URL prefix from an
// availability value ("https://schema.org/InStock" reads as
// "InStock").
func availabilityLabel(v string) string {
	if v == "" {
		return ""
	}
	if idx := strings.LastIndex(v, "/"); idx >= 0 {
		return v[idx+1:]
	}
	return v
}
