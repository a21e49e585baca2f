package score

import (
	"fmt"

	"github.com/ticoet/geoscan/internal/model"
)

// videoRecommendationScoreCutoff suppresses the video suggestion on
// pages that already score well without one.
const videoRecommendationScoreCutoff = 80.0

// Recommendations evaluates the remediation rule table against the
// fact groups and the final score. Every rule is independent; the
// output order matches the rule order and is stable for a given
// report.
func Recommendations(entities model.EntityStats, media model.MediaStats,
	content model.ContentStats, metadata model.MetadataStats, score float64) []model.Recommendation {
	recs := make([]model.Recommendation, 0)

	add := func(priority model.Priority, category, message string) {
		recs = append(recs, model.Recommendation{
			Priority: priority,
			Category: category,
			Message:  message,
		})
	}

	if entities.Organization+entities.Person == 0 {
		add(model.PriorityHigh, model.CategoryEntities,
			"Add Schema.org entities (Organization, Person) with JSON-LD")
	}
	if entities.Organization == 0 {
		add(model.PriorityHigh, model.CategoryEntities,
			"Create an Organization entity for your business")
	}
	if content.FAQ == 0 {
		add(model.PriorityHigh, model.CategoryContent,
			"Add a FAQ section with Schema.org FAQPage markup")
	}
	if content.Blockquotes == 0 {
		add(model.PriorityMedium, model.CategoryContent,
			"Add quotations to strengthen credibility")
	}
	if media.ImagesWithoutAlt > 0 {
		add(model.PriorityHigh, model.CategoryMedia,
			fmt.Sprintf("Add an alt attribute to %d image(s)", media.ImagesWithoutAlt))
	}
	if !content.HasJSONLD {
		add(model.PriorityHigh, model.CategoryTechnical,
			"Implement JSON-LD Schema.org markup (more effective than microdata)")
	}
	if media.Videos == 0 && score < videoRecommendationScoreCutoff {
		add(model.PriorityMedium, model.CategoryMedia,
			"Add videos to enrich the content")
	}
	if !metadata.HasOG {
		add(model.PriorityMedium, model.CategoryMetadata,
			"Add Open Graph tags (og:title, og:image)")
	}

	return recs
}
