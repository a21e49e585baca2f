package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

// DefaultMaxBodySize limits how much of a response body is read.
// 5MB is sufficient for any real HTML page while preventing memory
// exhaustion from unexpectedly large responses.
const DefaultMaxBodySize = 5 * 1024 * 1024

// ErrTooManyRedirects is returned inside an Outcome when a strategy's
// redirect budget is exhausted.
var ErrTooManyRedirects = errors.New("stopped after redirect limit")

// clientConfig describes the transport a strategy wants. Each strategy
// builds its own client from one of these so no transport state leaks
// between strategies.
type clientConfig struct {
	// connectTimeout bounds connection establishment.
	connectTimeout time.Duration

	// timeout bounds the whole request including body read.
	timeout time.Duration

	// maxRedirects is the redirect budget; 0 disables redirects.
	maxRedirects int

	// proxyAddress is an optional SOCKS5 proxy in "host:port" form.
	proxyAddress string

	// jar is an optional cookie jar. Only the CDN-challenge strategy
	// uses one, scoped to a single retry sequence.
	jar http.CookieJar

	// forceHTTP1 disables HTTP/2 negotiation for transports that want
	// the simplest possible wire behavior.
	forceHTTP1 bool
}

// newHTTPClient builds an http.Client for one strategy invocation.
//
// TLS verification is intentionally disabled: audit targets routinely
// present incomplete chains or staging certificates, and a failed
// handshake would mask the page we are trying to score. We never send
// credentials, so the MITM exposure is acceptable here.
func newHTTPClient(cfg clientConfig) (*http.Client, error) {
	dialer := &net.Dialer{Timeout: cfg.connectTimeout}

	transport := &http.Transport{
		DialContext:       dialer.DialContext,
		TLSClientConfig:   &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // See above.
		DisableKeepAlives: true,
	}
	if cfg.forceHTTP1 {
		transport.ForceAttemptHTTP2 = false
		transport.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	}

	if cfg.proxyAddress != "" {
		// SOCKS5 with no auth, the common local-proxy setup.
		socks, err := proxy.SOCKS5("tcp", cfg.proxyAddress, nil, dialer)
		if err != nil {
			return nil, err
		}
		if ctxDialer, ok := socks.(proxy.ContextDialer); ok {
			transport.DialContext = ctxDialer.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return socks.Dial(network, addr)
			}
		}
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   cfg.timeout,
		Jar:       cfg.jar,
	}

	if cfg.maxRedirects <= 0 {
		client.CheckRedirect = func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else {
		maxRedirects := cfg.maxRedirects
		client.CheckRedirect = func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return ErrTooManyRedirects
			}
			return nil
		}
	}

	return client, nil
}

// browserHeaders returns the full modern-browser header set used by
// the realistic strategies. The referrer claims an organic search
// arrival, which some soft blocks treat as a trust signal.
func browserHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":                userAgent,
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
		"Accept-Language":           "fr-FR,fr;q=0.9,en-US;q=0.8,en;q=0.7",
		"Cache-Control":             "max-age=0",
		"Upgrade-Insecure-Requests": "1",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Sec-Fetch-User":            "?1",
		"sec-ch-ua":                 `"Google Chrome";v="119", "Chromium";v="119", "Not?A_Brand";v="24"`,
		"sec-ch-ua-mobile":          "?0",
		"sec-ch-ua-platform":        `"Windows"`,
		"Referer":                   "https://www.google.com/",
	}
}

// doRequest performs one GET with the given client and headers and
// packs the response into an Outcome. The body is capped at
// maxBodySize via LimitReader so a hostile server cannot exhaust
// memory.
func doRequest(ctx context.Context, client *http.Client, url, strategyName string, headers map[string]string, maxBodySize int64) Outcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Outcome{Err: err, Strategy: strategyName}
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Outcome{Err: err, Strategy: strategyName}
	}
	defer resp.Body.Close()

	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Outcome{StatusCode: resp.StatusCode, Err: err, Strategy: strategyName}
	}

	return Outcome{Body: string(body), StatusCode: resp.StatusCode, Strategy: strategyName}
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
// Returns ctx.Err() when interrupted.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
