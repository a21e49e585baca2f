package score

import (
	"strings"
	"testing"

	"github.com/ticoet/geoscan/internal/model"
)

func TestRecommendations_emptyPage(t *testing.T) {
	t.Parallel()

	recs := Recommendations(model.EntityStats{}, model.MediaStats{},
		model.ContentStats{}, model.MetadataStats{}, 0)

	// Every rule except the alt-attribute one fires on an empty page.
	wantCategories := []string{
		model.CategoryEntities,
		model.CategoryEntities,
		model.CategoryContent,
		model.CategoryContent,
		model.CategoryTechnical,
		model.CategoryMedia,
		model.CategoryMetadata,
	}
	if len(recs) != len(wantCategories) {
		t.Fatalf("got %d recommendations, want %d", len(recs), len(wantCategories))
	}
	for i, want := range wantCategories {
		if recs[i].Category != want {
			t.Errorf("recs[%d].Category = %q, want %q", i, recs[i].Category, want)
		}
	}
}

func TestRecommendations_orderStable(t *testing.T) {
	t.Parallel()

	facts := func() ([]model.Recommendation, []model.Recommendation) {
		entities := model.EntityStats{Person: 1}
		media := model.MediaStats{Images: 3, ImagesWithAlt: 1, ImagesWithoutAlt: 2}
		content := model.ContentStats{}
		metadata := model.MetadataStats{HasTitle: true}
		return Recommendations(entities, media, content, metadata, 12.5),
			Recommendations(entities, media, content, metadata, 12.5)
	}

	first, second := facts()
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("recs[%d] differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRecommendations_altCountInterpolated(t *testing.T) {
	t.Parallel()

	media := model.MediaStats{Images: 7, ImagesWithAlt: 3, ImagesWithoutAlt: 4}
	recs := Recommendations(model.EntityStats{}, media, model.ContentStats{},
		model.MetadataStats{}, 0)

	found := false
	for _, rec := range recs {
		if rec.Category == model.CategoryMedia && strings.Contains(rec.Message, "alt") {
			found = true
			if !strings.Contains(rec.Message, "4") {
				t.Errorf("alt message = %q, want the missing count 4 interpolated", rec.Message)
			}
			if rec.Priority != model.PriorityHigh {
				t.Errorf("alt priority = %q, want high", rec.Priority)
			}
		}
	}
	if !found {
		t.Error("no alt-attribute recommendation generated")
	}
}

func TestRecommendations_videoRuleScoreCutoff(t *testing.T) {
	t.Parallel()

	wellScored := model.MetadataStats{HasTitle: true, HasDescription: true, HasOG: true}

	t.Run("suppressed at high score", func(t *testing.T) {
		t.Parallel()

		recs := Recommendations(model.EntityStats{Organization: 1},
			model.MediaStats{}, model.ContentStats{HasJSONLD: true}, wellScored, 85.0)
		for _, rec := range recs {
			if strings.Contains(rec.Message, "video") {
				t.Errorf("video recommendation present at score 85: %q", rec.Message)
			}
		}
	})

	t.Run("fires below cutoff", func(t *testing.T) {
		t.Parallel()

		recs := Recommendations(model.EntityStats{Organization: 1},
			model.MediaStats{}, model.ContentStats{HasJSONLD: true}, wellScored, 60.0)
		found := false
		for _, rec := range recs {
			if strings.Contains(rec.Message, "video") {
				found = true
			}
		}
		if !found {
			t.Error("video recommendation missing at score 60")
		}
	})
}

func TestRecommendations_noneOnGoodPage(t *testing.T) {
	t.Parallel()

	entities := model.EntityStats{Organization: 1, Person: 1}
	media := model.MediaStats{Images: 2, ImagesWithAlt: 2, Videos: 1}
	content := model.ContentStats{FAQ: 3, HasFAQSchema: true, Blockquotes: 1, HasJSONLD: true}
	metadata := model.MetadataStats{HasTitle: true, HasDescription: true, HasOG: true}

	recs := Recommendations(entities, media, content, metadata, 95.0)
	if len(recs) != 0 {
		t.Errorf("got %d recommendations on a fully optimized page, want 0: %+v", len(recs), recs)
	}
}
