package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Advanced-bypass strategy names.
const (
	StrategyGoogleCache     = "google-cache"
	StrategyWayback         = "wayback"
	StrategyCrawlerUA       = "crawler-ua"
	StrategyCloudflareAware = "cloudflare-aware"
	StrategyUARotation      = "ua-rotation"
	StrategyDelayedRetry    = "delayed-retry"
	StrategyMobileUA        = "mobile-ua"
)

// cloudflareRetryDelay is how long the CDN-challenge strategy waits
// before re-issuing its one retry. Challenge pages typically clear a
// cookie-based gate after a few seconds.
const cloudflareRetryDelay = 5 * time.Second

// delayedRetryAttempts is the attempt budget of the delayed-retry
// strategy; the backoff between tries grows linearly (attempt x 2s).
const delayedRetryAttempts = 3

// BypassStrategies returns the advanced-bypass group in its fixed
// order, tried only when the caller explicitly opts in. The order is
// part of the acquisition contract: public mirrors first (no traffic
// to the target at all), then identity games, then timing games.
func BypassStrategies(cfg Config) []Strategy {
	return []Strategy{
		&googleCacheStrategy{cfg: cfg},
		&waybackStrategy{cfg: cfg},
		&crawlerUAStrategy{cfg: cfg},
		&cloudflareAwareStrategy{cfg: cfg},
		&uaRotationStrategy{cfg: cfg},
		&delayedRetryStrategy{cfg: cfg},
		&mobileUAStrategy{cfg: cfg},
	}
}

// googleCacheStrategy fetches Google's cached copy of the page instead
// of the page itself.
type googleCacheStrategy struct {
	cfg Config
}

func (s *googleCacheStrategy) Name() string { return StrategyGoogleCache }

func (s *googleCacheStrategy) Fetch(ctx context.Context, target string) Outcome {
	client, err := newHTTPClient(clientConfig{
		connectTimeout: 15 * time.Second,
		timeout:        30 * time.Second,
		maxRedirects:   5,
		proxyAddress:   s.cfg.ProxyAddress,
	})
	if err != nil {
		return Outcome{Err: err, Strategy: s.Name()}
	}

	cacheURL := "https://webcache.googleusercontent.com/search?q=cache:" + url.QueryEscape(target)
	out := doRequest(ctx, client, cacheURL, s.Name(), browserHeaders(chromeUserAgent), s.cfg.MaxBodySize)
	if out.Err == nil && out.StatusCode != 200 {
		out.Body = ""
	}
	return out
}

// waybackStrategy asks the Internet Archive's availability API for the
// closest snapshot and fetches it.
type waybackStrategy struct {
	cfg Config
}

func (s *waybackStrategy) Name() string { return StrategyWayback }

// waybackResponse mirrors the subset of the availability API response
// we need.
type waybackResponse struct {
	ArchivedSnapshots struct {
		Closest struct {
			Available bool   `json:"available"`
			URL       string `json:"url"`
		} `json:"closest"`
	} `json:"archived_snapshots"`
}

func (s *waybackStrategy) Fetch(ctx context.Context, target string) Outcome {
	client, err := newHTTPClient(clientConfig{
		connectTimeout: 15 * time.Second,
		timeout:        40 * time.Second,
		maxRedirects:   5,
		proxyAddress:   s.cfg.ProxyAddress,
	})
	if err != nil {
		return Outcome{Err: err, Strategy: s.Name()}
	}

	lookupURL := "https://archive.org/wayback/available?url=" + url.QueryEscape(target)
	lookup := doRequest(ctx, client, lookupURL, s.Name(), nil, s.cfg.MaxBodySize)
	if lookup.Err != nil || lookup.StatusCode != 200 {
		return Outcome{StatusCode: lookup.StatusCode, Err: lookup.Err, Strategy: s.Name()}
	}

	var resp waybackResponse
	if err := json.Unmarshal([]byte(lookup.Body), &resp); err != nil {
		return Outcome{Err: err, Strategy: s.Name()}
	}
	closest := resp.ArchivedSnapshots.Closest
	if !closest.Available || closest.URL == "" {
		return Outcome{Strategy: s.Name()}
	}

	out := doRequest(ctx, client, closest.URL, s.Name(), browserHeaders(chromeUserAgent), s.cfg.MaxBodySize)
	if out.Err == nil && out.StatusCode != 200 {
		out.Body = ""
	}
	return out
}

// crawlerUAStrategy impersonates search-engine crawlers, trying each
// identity in the fixed pool until one yields a validated body.
type crawlerUAStrategy struct {
	cfg Config
}

func (s *crawlerUAStrategy) Name() string { return StrategyCrawlerUA }

func (s *crawlerUAStrategy) Fetch(ctx context.Context, target string) Outcome {
	client, err := newHTTPClient(clientConfig{
		connectTimeout: 15 * time.Second,
		timeout:        30 * time.Second,
		maxRedirects:   5,
		proxyAddress:   s.cfg.ProxyAddress,
	})
	if err != nil {
		return Outcome{Err: err, Strategy: s.Name()}
	}

	var last Outcome
	for _, ua := range crawlerUserAgents {
		headers := map[string]string{
			"User-Agent": ua,
			"Accept":     "text/html,application/xhtml+xml,*/*;q=0.8",
		}
		out := doRequest(ctx, client, target, s.Name(), headers, s.cfg.MaxBodySize)
		if out.Err == nil && out.StatusCode >= 200 && out.StatusCode < 400 && Validate(out.Body).Accepted {
			return out
		}
		last = out
		if ctx.Err() != nil {
			break
		}
	}
	last.Body = ""
	return last
}

// cloudflareAwareStrategy issues one request and, on a challenge
// response (403/503 or a challenge marker in the body), waits and
// re-issues the same request once through the same session. The cookie
// jar lives only for this retry sequence and is discarded on every
// exit path.
type cloudflareAwareStrategy struct {
	cfg Config
}

func (s *cloudflareAwareStrategy) Name() string { return StrategyCloudflareAware }

func (s *cloudflareAwareStrategy) Fetch(ctx context.Context, target string) Outcome {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return Outcome{Err: err, Strategy: s.Name()}
	}

	client, err := newHTTPClient(clientConfig{
		connectTimeout: 15 * time.Second,
		timeout:        45 * time.Second,
		maxRedirects:   5,
		proxyAddress:   s.cfg.ProxyAddress,
		jar:            jar,
	})
	if err != nil {
		return Outcome{Err: err, Strategy: s.Name()}
	}

	headers := browserHeaders(chromeUserAgent)
	out := doRequest(ctx, client, target, s.Name(), headers, s.cfg.MaxBodySize)
	if out.Err != nil {
		return out
	}

	if s.isChallenge(out) {
		if err := sleepCtx(ctx, cloudflareRetryDelay); err != nil {
			return Outcome{Err: err, Strategy: s.Name()}
		}
		out = doRequest(ctx, client, target, s.Name(), headers, s.cfg.MaxBodySize)
	}

	if out.Err == nil && (out.StatusCode < 200 || out.StatusCode >= 400) {
		out.Body = ""
	}
	return out
}

// isChallenge reports whether the response looks like a CDN challenge:
// the characteristic status codes, or one of the challenge signatures
// in the body.
func (s *cloudflareAwareStrategy) isChallenge(out Outcome) bool {
	if out.StatusCode == http.StatusForbidden || out.StatusCode == http.StatusServiceUnavailable {
		return true
	}
	lower := strings.ToLower(out.Body)
	for _, sig := range challengeSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}

// uaRotationStrategy picks one desktop identity at random per call.
type uaRotationStrategy struct {
	cfg Config
}

func (s *uaRotationStrategy) Name() string { return StrategyUARotation }

func (s *uaRotationStrategy) Fetch(ctx context.Context, target string) Outcome {
	client, err := newHTTPClient(clientConfig{
		connectTimeout: 15 * time.Second,
		timeout:        30 * time.Second,
		maxRedirects:   5,
		proxyAddress:   s.cfg.ProxyAddress,
	})
	if err != nil {
		return Outcome{Err: err, Strategy: s.Name()}
	}

	out := doRequest(ctx, client, target, s.Name(), browserHeaders(randomDesktopUserAgent()), s.cfg.MaxBodySize)
	if out.Err == nil && (out.StatusCode < 200 || out.StatusCode >= 400) {
		out.Body = ""
	}
	return out
}

// delayedRetryStrategy retries the browser fetch up to three times
// with linearly increasing backoff, for targets that rate-limit bursts
// but serve patient clients.
type delayedRetryStrategy struct {
	cfg Config
}

func (s *delayedRetryStrategy) Name() string { return StrategyDelayedRetry }

func (s *delayedRetryStrategy) Fetch(ctx context.Context, target string) Outcome {
	client, err := newHTTPClient(clientConfig{
		connectTimeout: 15 * time.Second,
		timeout:        30 * time.Second,
		maxRedirects:   5,
		proxyAddress:   s.cfg.ProxyAddress,
	})
	if err != nil {
		return Outcome{Err: err, Strategy: s.Name()}
	}

	var last Outcome
	for attempt := 1; attempt <= delayedRetryAttempts; attempt++ {
		out := doRequest(ctx, client, target, s.Name(), browserHeaders(chromeUserAgent), s.cfg.MaxBodySize)
		if out.Err == nil && out.StatusCode >= 200 && out.StatusCode < 400 && Validate(out.Body).Accepted {
			return out
		}
		last = out
		if attempt < delayedRetryAttempts {
			if err := sleepCtx(ctx, time.Duration(attempt)*2*time.Second); err != nil {
				return Outcome{Err: err, Strategy: s.Name()}
			}
		}
	}
	last.Body = ""
	return last
}

// mobileUAStrategy fetches with a random mobile identity.
type mobileUAStrategy struct {
	cfg Config
}

func (s *mobileUAStrategy) Name() string { return StrategyMobileUA }

func (s *mobileUAStrategy) Fetch(ctx context.Context, target string) Outcome {
	client, err := newHTTPClient(clientConfig{
		connectTimeout: 15 * time.Second,
		timeout:        30 * time.Second,
		maxRedirects:   5,
		proxyAddress:   s.cfg.ProxyAddress,
	})
	if err != nil {
		return Outcome{Err: err, Strategy: s.Name()}
	}

	headers := map[string]string{
		"User-Agent":      randomMobileUserAgent(),
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "fr-FR,fr;q=0.9,en-US;q=0.8,en;q=0.7",
	}
	out := doRequest(ctx, client, target, s.Name(), headers, s.cfg.MaxBodySize)
	if out.Err == nil && (out.StatusCode < 200 || out.StatusCode >= 400) {
		out.Body = ""
	}
	return out
}
