package model

// Priority represents the urgency of a recommendation.
type Priority string

// Priority constants, ordered from most to least urgent.
const (
	// PriorityHigh marks issues that measurably hurt machine readability.
	PriorityHigh Priority = "high"
	// PriorityMedium marks improvements with moderate impact.
	PriorityMedium Priority = "medium"
	// PriorityLow marks optional polish.
	PriorityLow Priority = "low"
)

// String returns the string representation of the Priority.
func (p Priority) String() string {
	return string(p)
}

// IsValid returns true if this is a known priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Recommendation categories. Each recommendation belongs to exactly
// one category, matching the breakdown component it improves plus a
// catch-all "Technical" bucket.
const (
	// CategoryEntities groups schema.org entity recommendations.
	CategoryEntities = "Entities"
	// CategoryContent groups structured-content recommendations.
	CategoryContent = "Content"
	// CategoryMedia groups media recommendations.
	CategoryMedia = "Media"
	// CategoryMetadata groups page-metadata recommendations.
	CategoryMetadata = "Metadata"
	// CategoryTechnical groups markup-level recommendations.
	CategoryTechnical = "Technical"
)

// Recommendation is a single prioritized remediation action.
// Recommendations are generated by an order-stable rule table; no rule
// suppresses another, so the list order is deterministic for a given
// report.
type Recommendation struct {
	// Priority is the urgency of the action.
	Priority Priority `json:"priority"`

	// Category is the recommendation category label.
	Category string `json:"category"`

	// Message is the human-readable action text.
	Message string `json:"message"`
}
