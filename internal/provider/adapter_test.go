package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/ticoet/geoscan/internal/config"
)

// roundTripperFunc lets tests intercept outgoing provider calls
// without a network listener.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func interceptClient(f roundTripperFunc) *http.Client {
	return &http.Client{Transport: f}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid service", func(t *testing.T) {
		t.Parallel()

		a, err := New(config.Provider{Service: "scrapingbee", APIKey: "k"})
		if err != nil {
			t.Fatalf("New() error = %v, want nil", err)
		}
		if got, want := a.Name(), "provider:scrapingbee"; got != want {
			t.Errorf("Name() = %q, want %q", got, want)
		}
	})

	t.Run("unknown service", func(t *testing.T) {
		t.Parallel()

		_, err := New(config.Provider{Service: "webscrapers-r-us", APIKey: "k"})
		if !errors.Is(err, ErrUnknownService) {
			t.Errorf("New() error = %v, want ErrUnknownService", err)
		}
	})
}

func TestAdapter_buildRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		service     string
		wantMethod  string
		wantHost    string
		wantQueries map[string]string
	}{
		{
			name:       "scrapingbee",
			service:    "scrapingbee",
			wantMethod: http.MethodGet,
			wantHost:   "app.scrapingbee.com",
			wantQueries: map[string]string{
				"api_key":       "secret",
				"url":           "https://example.com/",
				"render_js":     "true",
				"premium_proxy": "true",
				"block_ads":     "true",
				"wait":          "5000",
			},
		},
		{
			name:       "scraperapi",
			service:    "scraperapi",
			wantMethod: http.MethodGet,
			wantHost:   "api.scraperapi.com",
			wantQueries: map[string]string{
				"api_key": "secret",
				"url":     "https://example.com/",
				"render":  "true",
			},
		},
		{
			name:       "zenrows",
			service:    "zenrows",
			wantMethod: http.MethodGet,
			wantHost:   "api.zenrows.com",
			wantQueries: map[string]string{
				"apikey":        "secret",
				"url":           "https://example.com/",
				"js_render":     "true",
				"antibot":       "true",
				"premium_proxy": "true",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, err := New(config.Provider{Service: tt.service, APIKey: "secret"})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			req, err := a.buildRequest(context.Background(), "https://example.com/")
			if err != nil {
				t.Fatalf("buildRequest() error = %v", err)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("method = %q, want %q", req.Method, tt.wantMethod)
			}
			if req.URL.Host != tt.wantHost {
				t.Errorf("host = %q, want %q", req.URL.Host, tt.wantHost)
			}
			q := req.URL.Query()
			for k, want := range tt.wantQueries {
				if got := q.Get(k); got != want {
					t.Errorf("query %q = %q, want %q", k, got, want)
				}
			}
		})
	}
}

func TestAdapter_buildRequest_browserless(t *testing.T) {
	t.Parallel()

	a, err := New(config.Provider{Service: "browserless", APIKey: "secret"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	req, err := a.buildRequest(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatalf("buildRequest() error = %v", err)
	}
	if req.Method != http.MethodPost {
		t.Errorf("method = %q, want POST", req.Method)
	}
	if got := req.URL.Query().Get("token"); got != "secret" {
		t.Errorf("token = %q, want %q", got, "secret")
	}

	var payload map[string]any
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got := payload["url"]; got != "https://example.com/" {
		t.Errorf("payload url = %v, want https://example.com/", got)
	}
}

func TestAdapter_buildRequest_optionsOverride(t *testing.T) {
	t.Parallel()

	a, err := New(config.Provider{
		Service: "scrapingbee",
		APIKey:  "secret",
		Options: map[string]string{
			"country_code": "fr",
			"wait":         "9000",
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	req, err := a.buildRequest(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatalf("buildRequest() error = %v", err)
	}
	q := req.URL.Query()
	if got := q.Get("country_code"); got != "fr" {
		t.Errorf("country_code = %q, want %q", got, "fr")
	}
	if got := q.Get("wait"); got != "9000" {
		t.Errorf("wait = %q, want %q (option should override default)", got, "9000")
	}
}

func TestAdapter_Fetch(t *testing.T) {
	t.Parallel()

	bigBody := strings.Repeat("<html><body>content</body></html>", 30)

	tests := []struct {
		name       string
		status     int
		body       string
		wantBody   string
		wantStatus int
	}{
		{
			name:       "success",
			status:     http.StatusOK,
			body:       bigBody,
			wantBody:   bigBody,
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-200 rejected",
			status:     http.StatusForbidden,
			body:       bigBody,
			wantBody:   "",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "short body rejected",
			status:     http.StatusOK,
			body:       "<html></html>",
			wantBody:   "",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := interceptClient(func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: tt.status,
					Body:       io.NopCloser(strings.NewReader(tt.body)),
					Header:     make(http.Header),
				}, nil
			})

			a, err := New(config.Provider{Service: "zenrows", APIKey: "k"},
				WithHTTPClient(client))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			out := a.Fetch(context.Background(), "https://example.com/")
			if out.Body != tt.wantBody {
				t.Errorf("Body length = %d, want length %d", len(out.Body), len(tt.wantBody))
			}
			if out.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", out.StatusCode, tt.wantStatus)
			}
			if out.Strategy != "provider:zenrows" {
				t.Errorf("Strategy = %q, want %q", out.Strategy, "provider:zenrows")
			}
		})
	}
}

func TestParseService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		want  Service
		valid bool
	}{
		{"scrapingbee", ServiceScrapingBee, true},
		{"ScrapingBee", ServiceScrapingBee, true},
		{"scraperapi", ServiceScraperAPI, true},
		{"zenrows", ServiceZenRows, true},
		{"browserless", ServiceBrowserless, true},
		{"", Service(""), false},
		{"puppeteer", Service("puppeteer"), false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got := ParseService(tt.in)
			if got.IsValid() != tt.valid {
				t.Errorf("ParseService(%q).IsValid() = %v, want %v", tt.in, got.IsValid(), tt.valid)
			}
			if tt.valid && got != tt.want {
				t.Errorf("ParseService(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
