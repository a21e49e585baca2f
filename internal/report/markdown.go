package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/ticoet/geoscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the
// given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AuditReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeBreakdown(md, report)
	w.writeEntities(md, report)
	w.writeMedia(md, report)
	w.writeContent(md, report)
	w.writeRecommendations(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with audit information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AuditReport) {
	md.H1("Machine-Readability Audit")
	md.PlainText("")

	platform := "no"
	if report.IsLikelyWordPress {
		platform = "yes"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + report.URL + "`"},
			{"Page type", report.PageType},
			{"Audited", report.Timestamp.Format("2006-01-02 15:04:05 MST")},
			{"Fetched via", report.FetchedVia},
			{"Score", fmt.Sprintf("%.2f / 100", report.Score)},
			{"Likely WordPress", platform},
		},
	})
	md.PlainText("")
}

// writeBreakdown writes the score decomposition table.
func (w *MarkdownWriter) writeBreakdown(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Score Breakdown")
	md.PlainText("")

	b := report.Breakdown
	md.Table(markdown.TableSet{
		Header: []string{"Component", "Points", "Max"},
		Rows: [][]string{
			{"Entities", fmt.Sprintf("%.2f", b.Entities), "30"},
			{"Media", fmt.Sprintf("%.2f", b.Media), "25"},
			{"Structure", fmt.Sprintf("%.2f", b.Structure), "25"},
			{"Metadata", fmt.Sprintf("%.2f", b.Metadata), "20"},
		},
	})
	md.PlainText("")
}

// writeEntities writes the detected schema.org entities.
func (w *MarkdownWriter) writeEntities(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Entities")
	md.PlainText("")

	entities := report.Entities
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Count"},
		Rows: [][]string{
			{"Organization", strconv.Itoa(entities.Organization)},
			{"Person", strconv.Itoa(entities.Person)},
			{"Service", strconv.Itoa(entities.Service)},
			{"Product", strconv.Itoa(entities.Product)},
			{"LocalBusiness", strconv.Itoa(entities.LocalBusiness)},
		},
	})
	md.PlainText("")

	if len(entities.Details) > 0 {
		items := make([]string, 0, len(entities.Details))
		for _, detail := range entities.Details {
			items = append(items, detail.Kind.String()+": "+detail.Name)
		}
		md.BulletList(items...)
		md.PlainText("")
	}
}

// writeMedia writes the media facts.
func (w *MarkdownWriter) writeMedia(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Media")
	md.PlainText("")

	media := report.Media
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Images", strconv.Itoa(media.Images)},
			{"Images with alt text", strconv.Itoa(media.ImagesWithAlt)},
			{"Images missing alt text", strconv.Itoa(media.ImagesWithoutAlt)},
			{"Videos", strconv.Itoa(media.Videos)},
			{"Audios", strconv.Itoa(media.Audios)},
		},
	})
	md.PlainText("")
}

// writeContent writes the structured-content facts.
func (w *MarkdownWriter) writeContent(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Structured Content")
	md.PlainText("")

	content := report.Content
	yesNo := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"FAQ entries", strconv.Itoa(content.FAQ)},
			{"FAQ structured data", yesNo(content.HasFAQSchema)},
			{"Blockquotes", strconv.Itoa(content.Blockquotes)},
			{"JSON-LD present", yesNo(content.HasJSONLD)},
			{"Any schema.org markup", yesNo(content.HasSchemaOrg)},
		},
	})
	md.PlainText("")

	for _, faq := range content.FAQDetails {
		md.Details(faq.Question, faq.Answer)
	}
	if len(content.FAQDetails) > 0 {
		md.PlainText("")
	}
}

// writeRecommendations writes the prioritized remediation list.
func (w *MarkdownWriter) writeRecommendations(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Recommendations")
	md.PlainText("")

	if len(report.Recommendations) == 0 {
		md.PlainText("No recommendations; the page is fully optimized.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Recommendations))
	for _, rec := range report.Recommendations {
		rows = append(rows, []string{rec.Priority.String(), rec.Category, rec.Message})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Priority", "Category", "Action"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by geoscan*")
}
