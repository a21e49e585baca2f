package fetch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ticoet/geoscan/internal/model"
)

// StrategyCache is the pseudo-strategy name recorded when markup comes
// from the page cache instead of the network.
const StrategyCache = "cache"

// AcquisitionError is returned when every strategy (and the provider,
// if configured) failed validation. It is fatal for the request and
// maps to a 500-class outcome at the transport boundary.
type AcquisitionError struct {
	// URL is the target that could not be acquired.
	URL string

	// Attempts is how many strategy attempts were made.
	Attempts int

	// ProviderConfigured reports whether a scraping provider was
	// available. Callers use this to steer users toward either
	// configuring a provider or pasting markup directly.
	ProviderConfigured bool
}

// Error implements the error interface. The message deliberately
// suggests the markup-paste fallback: some pages are unreachable for
// any automated client and the paste path always works.
func (e *AcquisitionError) Error() string {
	hint := "no scraping provider was configured; configuring one may help"
	if e.ProviderConfigured {
		hint = "even the configured scraping provider was blocked"
	}
	return fmt.Sprintf("unable to acquire %s after %d attempts (%s); paste the page markup to audit it anyway", e.URL, e.Attempts, hint)
}

// PageStore is the optional cache consulted before the cascade runs.
// Implementations store only validated markup.
type PageStore interface {
	// Get returns the cached body and the strategy that fetched it.
	Get(ctx context.Context, url string) (body, via string, ok bool)

	// Put stores a validated body.
	Put(ctx context.Context, url, body, via string) error
}

// Orchestrator runs the strategy cascade for one request. Strategies
// are attempted strictly sequentially in a fixed priority order that
// encodes a cost tradeoff: cheapest and least intrusive first, paid
// third-party rendering last. The first validated body wins.
//
// Orchestrators are cheap to build and hold no mutable state across
// Acquire calls; concurrent requests must each use their own instance.
type Orchestrator struct {
	// bot, browser, basic, plain are the core strategies.
	bot     Strategy
	browser Strategy
	basic   Strategy
	plain   Strategy

	// bypass is the advanced-bypass group in its fixed sub-order.
	bypass []Strategy

	// provider is the scraping-provider adapter, nil when none is
	// configured.
	provider Strategy

	// store is the optional page cache.
	store PageStore

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithProvider sets the scraping-provider strategy used in the
// provider slots of the cascade.
func WithProvider(s Strategy) Option {
	return func(o *Orchestrator) {
		o.provider = s
	}
}

// WithPageStore enables the page cache.
func WithPageStore(store PageStore) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithStrategies replaces the four core strategies. Intended for
// tests that need call-count instrumentation.
func WithStrategies(bot, browser, basic, plain Strategy) Option {
	return func(o *Orchestrator) {
		o.bot = bot
		o.browser = browser
		o.basic = basic
		o.plain = plain
	}
}

// WithBypassStrategies replaces the advanced-bypass group. Intended
// for tests.
func WithBypassStrategies(strategies []Strategy) Option {
	return func(o *Orchestrator) {
		o.bypass = strategies
	}
}

// NewOrchestrator creates an Orchestrator with the standard strategy
// set built from cfg.
func NewOrchestrator(cfg Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		bot:     NewBotStrategy(cfg),
		browser: NewBrowserStrategy(cfg),
		basic:   NewBasicStrategy(cfg),
		plain:   NewPlainStrategy(cfg),
		bypass:  BypassStrategies(cfg),
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}

// Acquire obtains validated markup for the request's URL. It returns
// the winning outcome, or an *AcquisitionError when every strategy is
// exhausted. Per-strategy failures are logged and swallowed; only
// total exhaustion escalates.
func (o *Orchestrator) Acquire(ctx context.Context, req *model.AuditRequest) (Outcome, error) {
	target := req.URL
	attempts := 0

	if o.store != nil {
		if body, via, ok := o.store.Get(ctx, target); ok {
			o.logger.Debug("cache hit", "url", target, "via", via)
			return Outcome{Body: body, StatusCode: 200, Strategy: StrategyCache}, nil
		}
	}

	try := func(s Strategy) (Outcome, bool) {
		attempts++
		out := s.Fetch(ctx, target)
		if !out.OK() {
			o.logger.Debug("strategy failed",
				"strategy", s.Name(),
				"url", target,
				"status", out.StatusCode,
				"error", out.Err,
			)
			return out, false
		}
		verdict := Validate(out.Body)
		if !verdict.Accepted {
			o.logger.Debug("strategy rejected",
				"strategy", s.Name(),
				"url", target,
				"status", out.StatusCode,
				"reason", string(verdict.Reason),
			)
			return out, false
		}
		o.logger.Info("markup acquired", "strategy", s.Name(), "url", target, "bytes", len(out.Body))
		return out, true
	}

	finish := func(out Outcome) (Outcome, error) {
		if o.store != nil {
			if err := o.store.Put(ctx, target, out.Body, out.Strategy); err != nil {
				// Cache failures never fail the audit.
				o.logger.Warn("page cache write failed", "url", target, "error", err)
			}
		}
		return out, nil
	}

	// 1. Announced bot fetch, only on explicit request.
	if req.IdentifyAsBot {
		if out, ok := try(o.bot); ok {
			return finish(out)
		}
	}

	providerTried := false

	// 2. Early provider delegation, only on explicit request.
	if req.UseScrapingProvider && o.provider != nil {
		providerTried = true
		if out, ok := try(o.provider); ok {
			return finish(out)
		}
	}

	// 3. Advanced-bypass group, only on explicit request.
	if req.UseProxyStrategy {
		for _, s := range o.bypass {
			if out, ok := try(s); ok {
				return finish(out)
			}
			if ctx.Err() != nil {
				break
			}
		}
	}

	// 4-6. The standard cascade.
	for _, s := range []Strategy{o.browser, o.basic, o.plain} {
		if out, ok := try(s); ok {
			return finish(out)
		}
		if ctx.Err() != nil {
			break
		}
	}

	// 7. Provider as last resort, if configured and not already tried.
	if o.provider != nil && !providerTried {
		if out, ok := try(o.provider); ok {
			return finish(out)
		}
	}

	return Outcome{}, &AcquisitionError{
		URL:                target,
		Attempts:           attempts,
		ProviderConfigured: o.provider != nil,
	}
}
