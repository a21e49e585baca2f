package score

import (
	"math"
	"testing"

	"github.com/ticoet/geoscan/internal/model"
)

func TestBreakdown_entities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		entities model.EntityStats
		want     float64
	}{
		{
			name:     "empty",
			entities: model.EntityStats{},
			want:     0,
		},
		{
			name:     "single organization",
			entities: model.EntityStats{Organization: 1},
			want:     10.0,
		},
		{
			name:     "organization and two persons",
			entities: model.EntityStats{Organization: 1, Person: 2},
			want:     30.0, // 10 + 5*2 + variety bonus (total 3)
		},
		{
			name:     "person count capped at two",
			entities: model.EntityStats{Person: 5},
			want:     20.0, // 5*2 + variety bonus
		},
		{
			name:     "variety from mixed kinds",
			entities: model.EntityStats{Organization: 1, Service: 1, Product: 1},
			want:     20.0, // 10 + variety
		},
		{
			name:     "local business does not feed variety",
			entities: model.EntityStats{Organization: 1, LocalBusiness: 5},
			want:     10.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Breakdown(tt.entities, model.MediaStats{}, model.ContentStats{}, model.MetadataStats{})
			if got.Entities != tt.want {
				t.Errorf("Entities = %v, want %v", got.Entities, tt.want)
			}
		})
	}
}

func TestBreakdown_media(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		media model.MediaStats
		want  float64
	}{
		{
			name:  "no media",
			media: model.MediaStats{},
			want:  0,
		},
		{
			name:  "quarter alt ratio",
			media: model.MediaStats{Images: 4, ImagesWithAlt: 1},
			want:  2.5,
		},
		{
			name:  "full alt ratio with video and audio",
			media: model.MediaStats{Images: 2, ImagesWithAlt: 2, Videos: 1, Audios: 1},
			want:  25.0, // 10 + 10 + 5, exactly at cap
		},
		{
			name:  "ratio truncated not rounded",
			media: model.MediaStats{Images: 3, ImagesWithAlt: 1},
			want:  3.33, // 10/3 = 3.333... truncated
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Breakdown(model.EntityStats{}, tt.media, model.ContentStats{}, model.MetadataStats{})
			if got.Media != tt.want {
				t.Errorf("Media = %v, want %v", got.Media, tt.want)
			}
		})
	}
}

func TestBreakdown_structure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content model.ContentStats
		want    float64
	}{
		{
			name:    "empty",
			content: model.ContentStats{},
			want:    0,
		},
		{
			name:    "single FAQ entry below threshold",
			content: model.ContentStats{FAQ: 1},
			want:    0,
		},
		{
			name:    "everything",
			content: model.ContentStats{FAQ: 3, HasFAQSchema: true, Blockquotes: 2, HasJSONLD: true},
			want:    25.0,
		},
		{
			name:    "jsonld only",
			content: model.ContentStats{HasJSONLD: true},
			want:    5.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Breakdown(model.EntityStats{}, model.MediaStats{}, tt.content, model.MetadataStats{})
			if got.Structure != tt.want {
				t.Errorf("Structure = %v, want %v", got.Structure, tt.want)
			}
		})
	}
}

func TestBreakdown_metadata(t *testing.T) {
	t.Parallel()

	content := model.ContentStats{HasJSONLD: true}
	metadata := model.MetadataStats{HasTitle: true, HasDescription: true, HasOG: true}

	got := Breakdown(model.EntityStats{}, model.MediaStats{}, content, metadata)
	if got.Metadata != 20.0 {
		t.Errorf("Metadata = %v, want 20.0", got.Metadata)
	}
}

func TestBreakdown_scoreBounds(t *testing.T) {
	t.Parallel()

	// Deliberately excessive facts: every component must clamp.
	entities := model.EntityStats{Organization: 9, Person: 9, Service: 9, Product: 9}
	media := model.MediaStats{Images: 1, ImagesWithAlt: 1, Videos: 3, Audios: 3}
	content := model.ContentStats{FAQ: 9, HasFAQSchema: true, Blockquotes: 9, HasJSONLD: true}
	metadata := model.MetadataStats{HasTitle: true, HasDescription: true, HasOG: true}

	breakdown := Breakdown(entities, media, content, metadata)
	sum := breakdown.Sum()

	if sum < 0 || sum > 100 {
		t.Errorf("Sum() = %v, want within [0, 100]", sum)
	}
	if sum != 100.0 {
		t.Errorf("Sum() = %v, want 100.0 when every component saturates", sum)
	}
	if got := breakdown.Entities + breakdown.Media + breakdown.Structure + breakdown.Metadata; got != sum {
		t.Errorf("component sum %v != Sum() %v", got, sum)
	}
}

func TestTrunc2_idempotent(t *testing.T) {
	t.Parallel()

	values := []float64{0, 2.5, 3.333333, 10.0 / 3.0, 99.999, 100, 0.005, math.Pi}
	for _, v := range values {
		once := model.Trunc2(v)
		twice := model.Trunc2(once)
		if once != twice {
			t.Errorf("Trunc2 not idempotent for %v: %v != %v", v, once, twice)
		}
	}
}
