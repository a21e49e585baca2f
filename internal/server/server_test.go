package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ticoet/geoscan/internal/model"
)

// validPage builds markup that passes response validation.
func validPage(extra string) string {
	return "<html><head><title>T</title></head><body><div>" +
		extra + strings.Repeat("padding ", 80) + "</div></body></html>"
}

func postAudit(t *testing.T, handler http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/audit", &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_handleAudit_markupMode(t *testing.T) {
	t.Parallel()

	srv := New(":0")
	handler := srv.Router()

	markup := validPage(`<script type="application/ld+json">{"@type":"Organization","name":"Acme"}</script>`)
	rec := postAudit(t, handler, &model.AuditRequest{
		Mode:   model.ModeMarkup,
		Markup: markup,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var report model.AuditReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if report.FetchedVia != "markup" {
		t.Errorf("FetchedVia = %q, want %q", report.FetchedVia, "markup")
	}
	if report.Entities.Organization != 1 {
		t.Errorf("Entities.Organization = %d, want 1", report.Entities.Organization)
	}
	if report.Score <= 0 {
		t.Errorf("Score = %v, want > 0", report.Score)
	}
}

func TestServer_handleAudit_urlMode(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(validPage("<blockquote>quoted</blockquote>")))
	}))
	defer backend.Close()

	srv := New(":0")
	handler := srv.Router()

	rec := postAudit(t, handler, &model.AuditRequest{
		Mode: model.ModeURL,
		URL:  backend.URL,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var report model.AuditReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if report.FetchedVia == "" || report.FetchedVia == "markup" {
		t.Errorf("FetchedVia = %q, want a fetch strategy name", report.FetchedVia)
	}
	if report.Content.Blockquotes != 1 {
		t.Errorf("Content.Blockquotes = %d, want 1", report.Content.Blockquotes)
	}
}

func TestServer_handleAudit_inputErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    any
		wantMsg string
	}{
		{
			name:    "missing URL",
			body:    &model.AuditRequest{Mode: model.ModeURL},
			wantMsg: "missing or invalid URL",
		},
		{
			name:    "malformed URL",
			body:    &model.AuditRequest{Mode: model.ModeURL, URL: "notaurl"},
			wantMsg: "missing or invalid URL",
		},
		{
			name:    "non-http scheme",
			body:    &model.AuditRequest{Mode: model.ModeURL, URL: "ftp://example.com/x"},
			wantMsg: "missing or invalid URL",
		},
		{
			name:    "markup too short",
			body:    &model.AuditRequest{Mode: model.ModeMarkup, Markup: "<html></html>"},
			wantMsg: "markup too short",
		},
		{
			name:    "malformed JSON",
			body:    `{"mode": `,
			wantMsg: "invalid request body",
		},
	}

	srv := New(":0")
	handler := srv.Router()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := postAudit(t, handler, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}

			var resp struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if !strings.Contains(resp.Error, tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", resp.Error, tt.wantMsg)
			}
		})
	}
}

func TestServer_handleAudit_acquisitionFailure(t *testing.T) {
	t.Parallel()

	// Every strategy gets a response too short to validate, so the
	// whole cascade is exhausted.
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer backend.Close()

	srv := New(":0")
	handler := srv.Router()

	rec := postAudit(t, handler, &model.AuditRequest{
		Mode: model.ModeURL,
		URL:  backend.URL,
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var resp struct {
		Error              string `json:"error"`
		ProviderConfigured *bool  `json:"providerConfigured"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.Contains(resp.Error, "paste the page markup") {
		t.Errorf("error = %q, want the markup-paste hint", resp.Error)
	}
	if resp.ProviderConfigured == nil {
		t.Fatal("providerConfigured missing from acquisition error response")
	}
	if *resp.ProviderConfigured {
		t.Error("providerConfigured = true, want false without a provider")
	}
}

func TestServer_handleHealthz(t *testing.T) {
	t.Parallel()

	srv := New(":0")
	handler := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); !strings.Contains(got, `"status":"ok"`) {
		t.Errorf("body = %q, want status ok", got)
	}
}
