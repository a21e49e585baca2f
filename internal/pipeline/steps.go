package pipeline

import (
	"context"

	"github.com/ticoet/geoscan/internal/extract"
	"github.com/ticoet/geoscan/internal/fetch"
	"github.com/ticoet/geoscan/internal/model"
	"github.com/ticoet/geoscan/internal/score"
)

// AcquireStep obtains the markup to audit: from the request itself in
// markup mode, through the acquisition cascade otherwise.
type AcquireStep struct {
	// orchestrator runs the strategy cascade for URL-mode requests.
	orchestrator *fetch.Orchestrator
}

// NewAcquireStep creates an AcquireStep backed by the given
// orchestrator.
func NewAcquireStep(orchestrator *fetch.Orchestrator) *AcquireStep {
	return &AcquireStep{orchestrator: orchestrator}
}

// Name returns the step name.
func (s *AcquireStep) Name() string {
	return "acquire"
}

// Do validates the request and fills in the markup. Input errors and
// acquisition exhaustion abort the pipeline here, before any
// extraction runs.
func (s *AcquireStep) Do(ctx context.Context, audit *Audit) error {
	if err := audit.Request.Validate(); err != nil {
		return err
	}

	if audit.Request.Mode == model.ModeMarkup {
		audit.Markup = audit.Request.Markup
		audit.Report.FetchedVia = string(model.ModeMarkup)
		return nil
	}

	outcome, err := s.orchestrator.Acquire(ctx, audit.Request)
	if err != nil {
		return err
	}
	audit.Markup = outcome.Body
	audit.Report.FetchedVia = outcome.Strategy
	return nil
}

// ExtractStep runs the content extractor over the acquired markup and
// copies the fact groups into the report.
type ExtractStep struct {
	// extractor analyzes the markup.
	extractor *extract.Extractor
}

// NewExtractStep creates an ExtractStep.
func NewExtractStep(extractor *extract.Extractor) *ExtractStep {
	return &ExtractStep{extractor: extractor}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do extracts the fact groups. Extraction is best-effort and never
// fails; malformed markup yields empty facts.
func (s *ExtractStep) Do(_ context.Context, audit *Audit) error {
	result := s.extractor.Extract(audit.Markup)

	report := audit.Report
	report.Entities = result.Entities
	report.Media = result.Media
	report.Content = result.Content
	report.Metadata = result.Metadata
	report.JSONLD = result.JSONLD
	report.IsLikelyWordPress = result.IsLikelyWordPress
	return nil
}

// ScoreStep computes the breakdown and the final score from the
// extracted facts.
type ScoreStep struct{}

// NewScoreStep creates a ScoreStep.
func NewScoreStep() *ScoreStep {
	return &ScoreStep{}
}

// Name returns the step name.
func (s *ScoreStep) Name() string {
	return "score"
}

// Do fills in the breakdown and the truncated total.
func (s *ScoreStep) Do(_ context.Context, audit *Audit) error {
	report := audit.Report
	report.Breakdown = score.Breakdown(report.Entities, report.Media, report.Content, report.Metadata)
	report.Score = report.Breakdown.Sum()
	return nil
}

// RecommendStep evaluates the remediation rule table. It must run
// after ScoreStep because one rule reads the final score.
type RecommendStep struct{}

// NewRecommendStep creates a RecommendStep.
func NewRecommendStep() *RecommendStep {
	return &RecommendStep{}
}

// Name returns the step name.
func (s *RecommendStep) Name() string {
	return "recommend"
}

// Do fills in the recommendation list.
func (s *RecommendStep) Do(_ context.Context, audit *Audit) error {
	report := audit.Report
	report.Recommendations = score.Recommendations(
		report.Entities, report.Media, report.Content, report.Metadata, report.Score)
	return nil
}

// DefaultSteps returns the standard audit sequence.
func DefaultSteps(orchestrator *fetch.Orchestrator, extractor *extract.Extractor) []Step {
	return []Step{
		NewAcquireStep(orchestrator),
		NewExtractStep(extractor),
		NewScoreStep(),
		NewRecommendStep(),
	}
}
