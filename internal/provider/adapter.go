package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/ticoet/geoscan/internal/config"
	"github.com/ticoet/geoscan/internal/fetch"
)

// Provider timeouts are generous because the services perform headless
// rendering before responding; a render of a heavy page routinely
// takes over a minute.
const (
	providerConnectTimeout = 30 * time.Second
	providerTimeout        = 120 * time.Second
)

// ErrUnknownService is returned by New for a service name outside the
// known set.
var ErrUnknownService = fmt.Errorf("unknown scraping service")

// Adapter calls one configured scraping provider. It implements
// fetch.Strategy so the orchestrator treats provider delegation like
// any other cascade entry.
//
// Design decision: one adapter type with per-service request builders
// rather than one type per service. The services differ only in how
// the API call is shaped (query string vs JSON body); response
// handling and the validity gate are identical.
type Adapter struct {
	// service is the validated provider selection.
	service Service

	// apiKey authenticates against the provider.
	apiKey string

	// options are free-form provider parameters from the config file.
	options map[string]string

	// client is the HTTP client shared across calls. Provider APIs sit
	// behind sane TLS, so the default transport is fine here.
	client *http.Client

	// maxBodySize caps response body reads.
	maxBodySize int64

	// logger for structured logging.
	logger *slog.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// WithMaxBodySize caps response body reads.
func WithMaxBodySize(size int64) AdapterOption {
	return func(a *Adapter) {
		a.maxBodySize = size
	}
}

// WithHTTPClient replaces the HTTP client. Intended for tests.
func WithHTTPClient(client *http.Client) AdapterOption {
	return func(a *Adapter) {
		a.client = client
	}
}

// New builds an Adapter from the loaded provider configuration. It
// returns ErrUnknownService for a service name outside the known set,
// so misconfiguration surfaces at startup rather than mid-cascade.
func New(cfg config.Provider, opts ...AdapterOption) (*Adapter, error) {
	service := ParseService(cfg.Service)
	if !service.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, cfg.Service)
	}

	a := &Adapter{
		service: service,
		apiKey:  cfg.APIKey,
		options: cfg.Options,
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: providerConnectTimeout}).DialContext,
			},
			Timeout: providerTimeout,
		},
		maxBodySize: fetch.DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}

	return a, nil
}

// Name implements fetch.Strategy.
func (a *Adapter) Name() string {
	return "provider:" + a.service.String()
}

// Fetch delegates retrieval of the target URL to the provider. Only an
// HTTP 200 with a body above the minimum validity length counts as
// success; everything else is a failure recorded in the outcome, never
// an escalated error.
func (a *Adapter) Fetch(ctx context.Context, target string) fetch.Outcome {
	req, err := a.buildRequest(ctx, target)
	if err != nil {
		return fetch.Outcome{Err: err, Strategy: a.Name()}
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Debug("provider call failed", "service", a.service.String(), "error", err)
		return fetch.Outcome{Err: err, Strategy: a.Name()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, a.maxBodySize))
	if err != nil {
		return fetch.Outcome{StatusCode: resp.StatusCode, Err: err, Strategy: a.Name()}
	}

	out := fetch.Outcome{Body: string(body), StatusCode: resp.StatusCode, Strategy: a.Name()}
	if resp.StatusCode != http.StatusOK || len(out.Body) <= fetch.MinValidBodyLength {
		a.logger.Debug("provider response rejected",
			"service", a.service.String(),
			"status", resp.StatusCode,
			"bytes", len(out.Body),
		)
		out.Body = ""
	}
	return out
}

// buildRequest constructs the provider-specific API call that forwards
// the target URL, the API key, and the rendering options.
func (a *Adapter) buildRequest(ctx context.Context, target string) (*http.Request, error) {
	switch a.service {
	case ServiceScrapingBee:
		return a.scrapingBeeRequest(ctx, target)
	case ServiceScraperAPI:
		return a.scraperAPIRequest(ctx, target)
	case ServiceZenRows:
		return a.zenRowsRequest(ctx, target)
	case ServiceBrowserless:
		return a.browserlessRequest(ctx, target)
	default:
		// Unreachable: New validates the service.
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, a.service)
	}
}

// scrapingBeeRequest builds a GET against the ScrapingBee v1 API.
func (a *Adapter) scrapingBeeRequest(ctx context.Context, target string) (*http.Request, error) {
	params := url.Values{}
	params.Set("api_key", a.apiKey)
	params.Set("url", target)
	params.Set("render_js", "true")
	params.Set("premium_proxy", "true")
	params.Set("block_ads", "true")
	params.Set("wait", "5000")
	a.mergeOptions(params)

	return http.NewRequestWithContext(ctx, http.MethodGet,
		"https://app.scrapingbee.com/api/v1/?"+params.Encode(), nil)
}

// scraperAPIRequest builds a GET against the ScraperAPI endpoint.
func (a *Adapter) scraperAPIRequest(ctx context.Context, target string) (*http.Request, error) {
	params := url.Values{}
	params.Set("api_key", a.apiKey)
	params.Set("url", target)
	params.Set("render", "true")
	a.mergeOptions(params)

	return http.NewRequestWithContext(ctx, http.MethodGet,
		"https://api.scraperapi.com/?"+params.Encode(), nil)
}

// zenRowsRequest builds a GET against the ZenRows v1 API.
func (a *Adapter) zenRowsRequest(ctx context.Context, target string) (*http.Request, error) {
	params := url.Values{}
	params.Set("apikey", a.apiKey)
	params.Set("url", target)
	params.Set("js_render", "true")
	params.Set("antibot", "true")
	params.Set("premium_proxy", "true")
	a.mergeOptions(params)

	return http.NewRequestWithContext(ctx, http.MethodGet,
		"https://api.zenrows.com/v1/?"+params.Encode(), nil)
}

// browserlessRequest builds a POST against the browserless content
// API, which takes a JSON body instead of query parameters.
func (a *Adapter) browserlessRequest(ctx context.Context, target string) (*http.Request, error) {
	payload := map[string]any{
		"url": target,
		"gotoOptions": map[string]any{
			"waitUntil": "networkidle2",
		},
	}
	for k, v := range a.options {
		payload[k] = v
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://chrome.browserless.io/content?token="+url.QueryEscape(a.apiKey),
		bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// mergeOptions overlays the free-form configured options onto the
// default query parameters, letting the config file override any
// default (country_code, wait, ...).
func (a *Adapter) mergeOptions(params url.Values) {
	for k, v := range a.options {
		params.Set(k, v)
	}
}
