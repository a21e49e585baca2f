package model

// entityUnknownStr is the string representation for unknown entity kinds.
const entityUnknownStr = "unknown"

// UnnamedEntity is the sentinel name used when a structured-data item
// does not declare a name. It is part of the report wire format, so
// changing it is a breaking change for report consumers.
const UnnamedEntity = "Unnamed"

// EntityKind represents a schema.org entity type recognized by the
// entity extractor. The set is closed: types outside this set are
// silently dropped during extraction.
type EntityKind string

// Entity kind constants.
const (
	// EntityKindUnknown represents an unrecognized entity type.
	EntityKindUnknown EntityKind = ""
	// EntityKindOrganization represents schema.org/Organization.
	EntityKindOrganization EntityKind = "Organization"
	// EntityKindPerson represents schema.org/Person.
	EntityKindPerson EntityKind = "Person"
	// EntityKindService represents schema.org/Service.
	EntityKindService EntityKind = "Service"
	// EntityKindProduct represents schema.org/Product.
	EntityKindProduct EntityKind = "Product"
	// EntityKindLocalBusiness represents schema.org/LocalBusiness.
	EntityKindLocalBusiness EntityKind = "LocalBusiness"
)

// String returns the string representation of the EntityKind.
func (k EntityKind) String() string {
	if k == EntityKindUnknown {
		return entityUnknownStr
	}
	return string(k)
}

// IsValid returns true if this is a known entity kind.
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityKindOrganization, EntityKindPerson, EntityKindService,
		EntityKindProduct, EntityKindLocalBusiness:
		return true
	default:
		return false
	}
}

// ParseEntityKind converts a schema.org @type string to an EntityKind.
// Unrecognized types map to EntityKindUnknown.
func ParseEntityKind(s string) EntityKind {
	switch s {
	case "Organization":
		return EntityKindOrganization
	case "Person":
		return EntityKindPerson
	case "Service":
		return EntityKindService
	case "Product":
		return EntityKindProduct
	case "LocalBusiness":
		return EntityKindLocalBusiness
	default:
		return EntityKindUnknown
	}
}

// ExtractedEntity is one detailed entity record built from a JSON-LD
// item. Only the fields relevant to the entity's kind are populated;
// Name is always set, falling back to UnnamedEntity.
type ExtractedEntity struct {
	// Kind is the recognized entity type.
	Kind EntityKind `json:"type"`

	// Name is the entity name, or UnnamedEntity when absent.
	Name string `json:"name"`

	// URL is the entity URL (Organization).
	URL string `json:"url,omitempty"`

	// Logo is the entity logo reference (Organization), normalized to
	// a display string when the source declares a nested ImageObject.
	Logo string `json:"logo,omitempty"`

	// JobTitle is the person's job title (Person).
	JobTitle string `json:"jobTitle,omitempty"`

	// WorksFor indicates whether the person declares an employer (Person).
	WorksFor bool `json:"worksFor,omitempty"`

	// Description is the entity description (Service).
	Description string `json:"description,omitempty"`

	// Brand is the product brand (Product), normalized to a display
	// string whether the source declares a string or a nested Brand.
	Brand string `json:"brand,omitempty"`

	// Offers are formatted offer strings (Product), one per offer,
	// combining price, currency, and availability.
	Offers []string `json:"offers,omitempty"`

	// Address is the business address (LocalBusiness), normalized to a
	// display string whether the source declares a string or a nested
	// PostalAddress.
	Address string `json:"address,omitempty"`

	// Telephone is the business phone number (LocalBusiness).
	Telephone string `json:"telephone,omitempty"`

	// HasJSONLD reports whether the entity came from a JSON-LD block.
	// Microdata declarations contribute to counts only and never
	// produce detailed records, so this is always true today; the flag
	// is kept in the wire format for report consumers.
	HasJSONLD bool `json:"hasJSONLD"`
}
