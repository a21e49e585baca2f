package fetch

import (
	"context"
	"time"
)

// Strategy names recorded in outcomes. Kept as constants because the
// orchestrator's attempt log and the report's fetchedVia field expose
// them.
const (
	StrategyBot     = "bot"
	StrategyBrowser = "browser"
	StrategyBasic   = "basic"
	StrategyPlain   = "plain"
)

// Config holds transport settings shared by all strategies of one
// orchestrator. Loaded once per run; never mutated.
type Config struct {
	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form
	// applied to every strategy's transport.
	ProxyAddress string

	// MaxBodySize caps response body reads. Zero means
	// DefaultMaxBodySize.
	MaxBodySize int64
}

// botStrategy fetches with a self-describing bot identity and marker
// headers. Used only when the caller explicitly asks to be announced.
type botStrategy struct {
	cfg Config
}

// NewBotStrategy returns the bot-identified fetch strategy.
func NewBotStrategy(cfg Config) Strategy {
	return &botStrategy{cfg: cfg}
}

func (s *botStrategy) Name() string { return StrategyBot }

func (s *botStrategy) Fetch(ctx context.Context, url string) Outcome {
	client, err := newHTTPClient(clientConfig{
		connectTimeout: 10 * time.Second,
		timeout:        30 * time.Second,
		maxRedirects:   5,
		proxyAddress:   s.cfg.ProxyAddress,
	})
	if err != nil {
		return Outcome{Err: err, Strategy: s.Name()}
	}

	headers := map[string]string{
		"User-Agent":      BotUserAgent,
		"Accept":          "text/html,application/xhtml+xml,*/*;q=0.8",
		"X-Audit-Bot":     "1",
		"X-Audit-Purpose": "machine-readability-audit",
	}

	out := doRequest(ctx, client, url, s.Name(), headers, s.cfg.MaxBodySize)
	if out.Err == nil && out.StatusCode != 200 {
		out.Body = ""
	}
	return out
}

// browserStrategy fetches with a full modern-browser header set and a
// search-engine referrer. This is the cheapest strategy that gets past
// naive user-agent filtering, so the cascade tries it first.
type browserStrategy struct {
	cfg Config
}

// NewBrowserStrategy returns the realistic-browser fetch strategy.
func NewBrowserStrategy(cfg Config) Strategy {
	return &browserStrategy{cfg: cfg}
}

func (s *browserStrategy) Name() string { return StrategyBrowser }

func (s *browserStrategy) Fetch(ctx context.Context, url string) Outcome {
	client, err := newHTTPClient(clientConfig{
		connectTimeout: 15 * time.Second,
		timeout:        45 * time.Second,
		maxRedirects:   5,
		proxyAddress:   s.cfg.ProxyAddress,
	})
	if err != nil {
		return Outcome{Err: err, Strategy: s.Name()}
	}

	out := doRequest(ctx, client, url, s.Name(), browserHeaders(chromeUserAgent), s.cfg.MaxBodySize)
	// Redirect exhaustion surfaces as a transport error from the
	// client, so any response seen here is a final hop. Keep only
	// bodies below the 4xx error range.
	if out.Err == nil && (out.StatusCode < 200 || out.StatusCode >= 400) {
		out.Body = ""
	}
	return out
}

// basicStrategy fetches with minimal headers and conservative
// timeouts, accepting only a clean 200.
type basicStrategy struct {
	cfg Config
}

// NewBasicStrategy returns the basic fetch strategy.
func NewBasicStrategy(cfg Config) Strategy {
	return &basicStrategy{cfg: cfg}
}

func (s *basicStrategy) Name() string { return StrategyBasic }

func (s *basicStrategy) Fetch(ctx context.Context, url string) Outcome {
	client, err := newHTTPClient(clientConfig{
		connectTimeout: 10 * time.Second,
		timeout:        30 * time.Second,
		maxRedirects:   5,
		proxyAddress:   s.cfg.ProxyAddress,
	})
	if err != nil {
		return Outcome{Err: err, Strategy: s.Name()}
	}

	headers := map[string]string{
		"User-Agent": BotUserAgent,
	}

	out := doRequest(ctx, client, url, s.Name(), headers, s.cfg.MaxBodySize)
	if out.Err == nil && out.StatusCode != 200 {
		out.Body = ""
	}
	return out
}

// plainStrategy is the local fallback: the simplest possible HTTP/1.1
// GET with no identity headers at all, tried last before delegating to
// an external provider. Occasionally a filter keyed on header
// anomalies lets a bare request through.
type plainStrategy struct {
	cfg Config
}

// NewPlainStrategy returns the local-fallback fetch strategy.
func NewPlainStrategy(cfg Config) Strategy {
	return &plainStrategy{cfg: cfg}
}

func (s *plainStrategy) Name() string { return StrategyPlain }

func (s *plainStrategy) Fetch(ctx context.Context, url string) Outcome {
	client, err := newHTTPClient(clientConfig{
		connectTimeout: 10 * time.Second,
		timeout:        20 * time.Second,
		maxRedirects:   5,
		proxyAddress:   s.cfg.ProxyAddress,
		forceHTTP1:     true,
	})
	if err != nil {
		return Outcome{Err: err, Strategy: s.Name()}
	}

	out := doRequest(ctx, client, url, s.Name(), nil, s.cfg.MaxBodySize)
	if out.Err == nil && out.StatusCode != 200 {
		out.Body = ""
	}
	return out
}
