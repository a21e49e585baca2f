package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ticoet/geoscan/internal/cache"
	"github.com/ticoet/geoscan/internal/config"
	"github.com/ticoet/geoscan/internal/extract"
	"github.com/ticoet/geoscan/internal/fetch"
	"github.com/ticoet/geoscan/internal/log"
	"github.com/ticoet/geoscan/internal/model"
	"github.com/ticoet/geoscan/internal/pipeline"
	"github.com/ticoet/geoscan/internal/provider"
	"github.com/ticoet/geoscan/internal/report"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [url]...",
		Short: "Audit web pages for machine readability",
		Long: `Audit fetches each page through a cascade of fetch strategies, extracts
structured data, and scores the page for machine readability.

The cascade tries the cheapest strategy first and escalates only on
failure: cache, bot identity (opt-in), scraping provider (opt-in),
advanced bypass group (opt-in), headless-browser headers, basic headers,
plain HTTP. A configured scraping provider is always tried as a last
resort before giving up.

Examples:
  # Audit a single page
  geoscan audit https://example.com/

  # Audit several pages concurrently
  geoscan audit https://example.com/ https://example.org/

  # Audit pasted markup when the page resists all fetch strategies
  geoscan audit --markup-file page.html
  curl -s https://example.com/ | geoscan audit --markup-file -

  # Escalate through the advanced bypass group
  geoscan audit --use-proxy-strategy https://protected.example.com/

  # Use a scraping provider early in the cascade
  geoscan audit --use-scraping-provider https://protected.example.com/

  # Markdown report written to a file
  geoscan audit --markdown -o report.md https://example.com/

Provider configuration (scraping-provider.yaml) example:
  service: scrapingbee
  api_key: "YOUR_KEY"
  options:
    country_code: fr`,
		Args: cobra.ArbitraryArgs,
		RunE: runAuditCmd,
	}

	// Acquisition flags
	cmd.Flags().StringP("markup-file", "f", "",
		"Audit markup from a local file instead of fetching (\"-\" reads stdin)")
	cmd.Flags().String("page-type", "",
		"Page classification hint (article, landing, product, ...)")
	cmd.Flags().Bool("use-proxy-strategy", false,
		"Enable the advanced-bypass strategy group")
	cmd.Flags().Bool("use-scraping-provider", false,
		"Try the configured scraping provider early in the cascade")
	cmd.Flags().Bool("identify-as-bot", false,
		"Announce the auditor openly with a bot user agent first")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address applied to all strategies (host:port)")

	// Provider flags
	cmd.Flags().StringP("provider-config", "c", "",
		"Provider configuration file path (default: scraping-provider.yaml in current or XDG config directory)")
	cmd.Flags().Bool("check-provider", false,
		"Probe the configured scraping provider and exit")

	// Cache flags
	cmd.Flags().Bool("cache", false,
		"Cache validated pages in a local SQLite database")
	cmd.Flags().String("cache-dir", "",
		"Page cache directory (default: XDG cache directory)")
	cmd.Flags().Duration("cache-ttl", config.DefaultCacheTTL,
		"How long cached pages stay fresh")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent audits for multiple targets")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (default; mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	checkProvider, err := cmd.Flags().GetBool("check-provider")
	if err != nil {
		return err
	}

	// Set up structured logging
	verbose := getVerboseFlag(cmd)
	logger := log.New(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	// The provider probe runs without targets, so validate after.
	if checkProvider {
		return runCheckProvider(ctx, cfg, logger)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	return runAudit(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.MarkupFile, err = cmd.Flags().GetString("markup-file")
	if err != nil {
		return nil, err
	}

	cfg.PageType, err = cmd.Flags().GetString("page-type")
	if err != nil {
		return nil, err
	}

	cfg.UseProxyStrategy, err = cmd.Flags().GetBool("use-proxy-strategy")
	if err != nil {
		return nil, err
	}

	cfg.UseScrapingProvider, err = cmd.Flags().GetBool("use-scraping-provider")
	if err != nil {
		return nil, err
	}

	cfg.IdentifyAsBot, err = cmd.Flags().GetBool("identify-as-bot")
	if err != nil {
		return nil, err
	}

	cfg.ProxyAddress, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, err
	}

	cfg.ProviderConfigPath, err = cmd.Flags().GetString("provider-config")
	if err != nil {
		return nil, err
	}

	cfg.UseCache, err = cmd.Flags().GetBool("cache")
	if err != nil {
		return nil, err
	}

	cfg.CacheDir, err = cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, err
	}

	cfg.CacheTTL, err = cmd.Flags().GetDuration("cache-ttl")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Positional arguments are the URLs to audit
	cfg.Targets = args

	return cfg, nil
}

// loadProviderAdapter resolves, loads, and validates the scraping
// provider configuration. A missing configuration returns nil without
// error: the cascade simply runs without a provider.
func loadProviderAdapter(cfg *config.Config, logger *slog.Logger) (*provider.Adapter, error) {
	path := config.FindProviderConfig(cfg.ProviderConfigPath)
	if path == "" {
		if cfg.ProviderConfigPath != "" {
			return nil, fmt.Errorf("provider configuration file not found: %s", cfg.ProviderConfigPath)
		}
		return nil, nil
	}

	pc := config.LoadProvider(path)
	if !pc.Enabled() {
		logger.Warn("provider configuration is incomplete, continuing without a provider", "path", path)
		return nil, nil
	}

	adapter, err := provider.New(pc,
		provider.WithLogger(logger),
		provider.WithMaxBodySize(cfg.MaxBodySize),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid provider configuration %s: %w", path, err)
	}

	logger.Info("scraping provider configured", "service", pc.Service)
	return adapter, nil
}

// runCheckProvider validates the loaded provider configuration
// (service known, key non-empty) without making any request.
func runCheckProvider(_ context.Context, cfg *config.Config, logger *slog.Logger) error {
	adapter, err := loadProviderAdapter(cfg, logger)
	if err != nil {
		return err
	}
	if adapter == nil {
		return fmt.Errorf("no scraping provider configured (create %s or pass --provider-config)", config.DefaultProviderConfigFile)
	}

	fmt.Printf("Provider configuration OK: %s\n", adapter.Name())
	return nil
}

// runAudit executes the audit over all targets.
func runAudit(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Markup mode bypasses the whole acquisition side.
	if cfg.MarkupFile != "" {
		return runMarkupAudit(ctx, cfg, logger)
	}

	adapter, err := loadProviderAdapter(cfg, logger)
	if err != nil {
		return err
	}

	var store fetch.PageStore
	if cfg.UseCache {
		dir := cfg.CacheDir
		if dir == "" {
			dir = config.XDGCacheDir()
		}
		opts := cache.DefaultOptions()
		opts.TTL = cfg.CacheTTL
		pc, err := cache.Open(dir, opts)
		if err != nil {
			return fmt.Errorf("failed to open page cache: %w", err)
		}
		defer pc.Close() //nolint:errcheck // Best effort cleanup.
		store = pc
		logger.Info("page cache opened", "dir", dir, "ttl", cfg.CacheTTL)
	}

	fetchCfg := fetch.Config{
		ProxyAddress: cfg.ProxyAddress,
		MaxBodySize:  cfg.MaxBodySize,
	}

	// Each audit gets its own orchestrator and extractor so
	// concurrent audits share no mutable state.
	pipelineFactory := func() *pipeline.Pipeline {
		opts := []fetch.Option{fetch.WithLogger(logger)}
		if adapter != nil {
			opts = append(opts, fetch.WithProvider(adapter))
		}
		if store != nil {
			opts = append(opts, fetch.WithPageStore(store))
		}
		orchestrator := fetch.NewOrchestrator(fetchCfg, opts...)

		p := pipeline.New(pipeline.WithLogger(logger))
		p.AddSteps(pipeline.DefaultSteps(orchestrator, extract.NewExtractor())...)
		return p
	}

	requestFactory := func(url string) *model.AuditRequest {
		return &model.AuditRequest{
			Mode:                model.ModeURL,
			URL:                 url,
			PageType:            cfg.PageType,
			UseProxyStrategy:    cfg.UseProxyStrategy,
			UseScrapingProvider: cfg.UseScrapingProvider,
			IdentifyAsBot:       cfg.IdentifyAsBot,
		}
	}

	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchAudit(ctx, cfg, pipelineFactory, requestFactory, logger)
	}
	return runSequentialAudit(ctx, cfg, pipelineFactory, requestFactory, logger)
}

// runMarkupAudit audits caller-supplied markup from a file or stdin.
func runMarkupAudit(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	markup, label, err := readMarkupFile(cfg.MarkupFile)
	if err != nil {
		return err
	}

	req := &model.AuditRequest{
		Mode:     model.ModeMarkup,
		URL:      label,
		Markup:   markup,
		PageType: cfg.PageType,
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(pipeline.DefaultSteps(nil, extract.NewExtractor())...)

	audit := pipeline.NewAudit(req)
	if err := p.Execute(ctx, audit); err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	return outputReport(cfg, audit.Report)
}

// readMarkupFile reads markup from path, or from stdin when path is
// "-". The returned label identifies the source in the report.
func readMarkupFile(path string) (markup, label string, err error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read markup from stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-provided file path is intentional.
	if err != nil {
		return "", "", fmt.Errorf("failed to read markup file: %w", err)
	}
	return string(data), path, nil
}

// runSequentialAudit audits targets one at a time.
func runSequentialAudit(ctx context.Context, cfg *config.Config, pipelineFactory func() *pipeline.Pipeline, requestFactory func(string) *model.AuditRequest, logger *slog.Logger) error {
	var failed int
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprintf(os.Stderr, "Auditing %s...\n", target)
		startTime := time.Now()

		audit := pipeline.NewAudit(requestFactory(target))
		if err := pipelineFactory().Execute(ctx, audit); err != nil {
			logger.Error("audit failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Audit error for %s: %v\n", target, err)
			failed++
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Fprintf(os.Stderr, "Audit completed in %s (score: %.2f)\n\n",
			elapsed.Round(time.Millisecond), audit.Report.Score)

		if err := outputReport(cfg, audit.Report); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d audits failed", failed, len(cfg.Targets))
	}
	return nil
}

// runBatchAudit audits multiple targets concurrently.
func runBatchAudit(ctx context.Context, cfg *config.Config, pipelineFactory func() *pipeline.Pipeline, requestFactory func(string) *model.AuditRequest, logger *slog.Logger) error {
	fmt.Fprintf(os.Stderr, "Starting batch audit of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(pipelineFactory, requestFactory,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	results, err := bp.Process(ctx, cfg.Targets)
	if err != nil {
		return err
	}

	var failed int
	for i, result := range results {
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "[%d/%d] Audit error for %s: %v\n",
				i+1, len(results), result.URL, result.Err)
			failed++
			continue
		}

		fmt.Fprintf(os.Stderr, "[%d/%d] Audit completed: %s (score: %.2f)\n",
			i+1, len(results), result.URL, result.Report.Score)

		if err := outputReport(cfg, result.Report); err != nil {
			logger.Error("report failed", "target", result.URL, "error", err)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Fprintf(os.Stderr, "\nBatch audit completed in %s\n", elapsed.Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("%d of %d audits failed", failed, len(results))
	}
	return nil
}

// outputReport writes the audit report in the requested format.
func outputReport(cfg *config.Config, auditReport *model.AuditReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Best effort cleanup.
		output = f
	} else {
		output = os.Stdout
	}

	if cfg.MarkdownReport {
		_, err := report.NewMarkdownWriter(output).Write(auditReport)
		return err
	}

	// JSON is the default format.
	_, err := report.NewJSONWriter(output, report.WithPrettyPrint()).Write(auditReport)
	return err
}
