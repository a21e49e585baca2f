package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ticoet/geoscan/internal/model"
)

func sampleReport() *model.AuditReport {
	req := &model.AuditRequest{Mode: model.ModeURL, URL: "https://example.com/"}
	report := model.NewAuditReport(req)
	report.Timestamp = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	report.FetchedVia = "browser"
	report.Entities.Organization = 1
	report.Entities.Details = append(report.Entities.Details, model.ExtractedEntity{
		Kind:      model.EntityKindOrganization,
		Name:      "Acme",
		HasJSONLD: true,
	})
	report.Media = model.MediaStats{
		Images: 4, ImagesWithAlt: 3, ImagesWithoutAlt: 1,
		ImagesWithoutAltDetails: []string{"/hero.png"},
		ImagesDetails:           []string{"/hero.png", "/a.png", "/b.png", "/c.png"},
	}
	report.Content = model.ContentStats{
		FAQ: 2,
		FAQDetails: []model.FAQEntry{
			{Question: "Q1?", Answer: "A1", HasSchema: true},
			{Question: "Q2?", Answer: "A2", HasSchema: true},
		},
		HasFAQSchema:  true,
		HasJSONLD:     true,
		HasSchemaOrg:  true,
		QuotesDetails: []model.QuoteEntry{},
	}
	report.Metadata = model.MetadataStats{HasTitle: true, Title: "Example"}
	report.Breakdown = model.ScoreBreakdown{Entities: 10, Media: 7.5, Structure: 20, Metadata: 10}
	report.Score = report.Breakdown.Sum()
	report.Recommendations = []model.Recommendation{
		{Priority: model.PriorityHigh, Category: model.CategoryMedia, Message: "Add an alt attribute to 1 image(s)"},
	}
	return report
}

func TestJSONWriter_Write(t *testing.T) {
	t.Parallel()

	t.Run("compact wire format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewJSONWriter(&buf).Write(sampleReport())
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if n != buf.Len() {
			t.Errorf("returned %d bytes, buffer has %d", n, buf.Len())
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		// Wire-format field names are a compatibility contract.
		for _, field := range []string{
			"url", "pageType", "timestamp", "score", "isLikelyWordPress",
			"entities", "media", "content", "metadata", "jsonld",
			"breakdown", "recommendations",
		} {
			if _, ok := decoded[field]; !ok {
				t.Errorf("field %q missing from JSON output", field)
			}
		}

		entities, ok := decoded["entities"].(map[string]any)
		if !ok {
			t.Fatal("entities is not an object")
		}
		if got := entities["organization"]; got != float64(1) {
			t.Errorf("entities.organization = %v, want 1", got)
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(sampleReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("pretty output has no indentation")
		}
	})
}

func TestMarkdownWriter_Write(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"# Machine-Readability Audit",
		"## Score Breakdown",
		"## Entities",
		"Organization: Acme",
		"## Recommendations",
		"Add an alt attribute to 1 image(s)",
		"https://example.com/",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

func TestMarkdownWriter_Write_noRecommendations(t *testing.T) {
	t.Parallel()

	report := sampleReport()
	report.Recommendations = nil

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "fully optimized") {
		t.Error("markdown output missing the empty-recommendations note")
	}
}

func TestMultiWriter_Write(t *testing.T) {
	t.Parallel()

	var jsonBuf, mdBuf bytes.Buffer
	multi := NewMultiWriter(NewJSONWriter(&jsonBuf), NewMarkdownWriter(&mdBuf))

	if _, err := multi.Write(sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if jsonBuf.Len() == 0 {
		t.Error("JSON writer received nothing")
	}
	if mdBuf.Len() == 0 {
		t.Error("Markdown writer received nothing")
	}
}
