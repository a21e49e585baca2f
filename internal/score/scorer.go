package score

import "github.com/ticoet/geoscan/internal/model"

// Point values awarded by the breakdown rules.
const (
	pointsOrganizationPresent = 10.0
	pointsPerPerson           = 5.0
	maxScoredPersons          = 2
	pointsEntityVariety       = 10.0
	minEntitiesForVariety     = 3

	pointsAltRatioWeight = 10.0
	pointsVideoPresent   = 10.0
	pointsAudioPresent   = 5.0

	pointsFAQSection  = 10.0
	minFAQEntries     = 2
	pointsFAQSchema   = 5.0
	pointsBlockquotes = 5.0
	pointsJSONLD      = 5.0
	pointsTitle       = 5.0
	pointsDescription = 5.0
	pointsOpenGraph   = 5.0
)

// Breakdown computes the four-component point decomposition from the
// extracted fact groups. Each component is clamped to its cap and
// truncated to two decimals independently.
func Breakdown(entities model.EntityStats, media model.MediaStats,
	content model.ContentStats, metadata model.MetadataStats) model.ScoreBreakdown {
	return model.ScoreBreakdown{
		Entities:  entityPoints(entities),
		Media:     mediaPoints(media),
		Structure: structurePoints(content),
		Metadata:  metadataPoints(content, metadata),
	}
}

// entityPoints scores the schema.org entity group (cap 30): presence
// of an Organization, up to two Persons, and overall entity variety.
func entityPoints(entities model.EntityStats) float64 {
	points := 0.0
	if entities.Organization > 0 {
		points += pointsOrganizationPresent
	}
	if entities.Person > 0 {
		points += pointsPerPerson * float64(min(entities.Person, maxScoredPersons))
	}
	if entities.Total() >= minEntitiesForVariety {
		points += pointsEntityVariety
	}
	return model.Trunc2(min(model.MaxEntityPoints, points))
}

// mediaPoints scores the media group (cap 25): the alt-text ratio
// scaled to 10 points plus flat bonuses for video and audio presence.
func mediaPoints(media model.MediaStats) float64 {
	points := 0.0
	if media.Images > 0 {
		points += pointsAltRatioWeight * float64(media.ImagesWithAlt) / float64(media.Images)
	}
	if media.Videos > 0 {
		points += pointsVideoPresent
	}
	if media.Audios > 0 {
		points += pointsAudioPresent
	}
	return model.Trunc2(min(model.MaxMediaPoints, points))
}

// structurePoints scores the structured-content group (cap 25): a
// real FAQ section, FAQ structured data, quotations, and JSON-LD
// presence.
func structurePoints(content model.ContentStats) float64 {
	points := 0.0
	if content.FAQ >= minFAQEntries {
		points += pointsFAQSection
	}
	if content.HasFAQSchema {
		points += pointsFAQSchema
	}
	if content.Blockquotes > 0 {
		points += pointsBlockquotes
	}
	if content.HasJSONLD {
		points += pointsJSONLD
	}
	return model.Trunc2(min(model.MaxStructurePoints, points))
}

// metadataPoints scores the page-metadata group (cap 20): title,
// description, social preview, and JSON-LD presence each award a flat
// five points.
func metadataPoints(content model.ContentStats, metadata model.MetadataStats) float64 {
	points := 0.0
	if metadata.HasTitle {
		points += pointsTitle
	}
	if metadata.HasDescription {
		points += pointsDescription
	}
	if metadata.HasOG {
		points += pointsOpenGraph
	}
	if content.HasJSONLD {
		points += pointsJSONLD
	}
	return model.Trunc2(min(model.MaxMetadataPoints, points))
}
