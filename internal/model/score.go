package model

import "math"

// Score caps for each breakdown component. The four caps sum to 100,
// which bounds the final score.
const (
	// MaxEntityPoints caps the entities component.
	MaxEntityPoints = 30.0
	// MaxMediaPoints caps the media component.
	MaxMediaPoints = 25.0
	// MaxStructurePoints caps the structure component.
	MaxStructurePoints = 25.0
	// MaxMetadataPoints caps the metadata component.
	MaxMetadataPoints = 20.0
)

// ScoreBreakdown is the four-category point decomposition of the audit
// score. Each component is independently clamped to its cap and
// truncated to two decimals; the final score is the truncated sum.
type ScoreBreakdown struct {
	// Entities is the schema.org entity component (max 30).
	Entities float64 `json:"entities"`

	// Media is the media enrichment component (max 25).
	Media float64 `json:"media"`

	// Structure is the structured-content component (max 25).
	Structure float64 `json:"structure"`

	// Metadata is the page-metadata component (max 20).
	Metadata float64 `json:"metadata"`
}

// Sum returns the truncated total of all components.
func (b ScoreBreakdown) Sum() float64 {
	return Trunc2(b.Entities + b.Media + b.Structure + b.Metadata)
}

// Trunc2 truncates a value to two decimal places, always rounding
// toward zero for non-negative inputs. Reports, comparisons, and
// regression baselines depend on this arithmetic bit-for-bit, so it
// must not be replaced with nearest-rounding.
//
// Trunc2 is idempotent: Trunc2(Trunc2(x)) == Trunc2(x).
func Trunc2(v float64) float64 {
	return math.Floor(v*100) / 100
}
