package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ticoet/geoscan/internal/cache"
	"github.com/ticoet/geoscan/internal/config"
	"github.com/ticoet/geoscan/internal/fetch"
	"github.com/ticoet/geoscan/internal/log"
	"github.com/ticoet/geoscan/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the audit HTTP server",
		Long: `Serve starts an HTTP server exposing the audit engine.

Endpoints:
  POST /audit    Run an audit; the body is the same request record the
                 CLI builds from its flags (mode, url, markup, pageType,
                 useProxyStrategy, useScrapingProvider, identifyAsBot).
  GET  /healthz  Liveness probe.

Examples:
  geoscan serve
  geoscan serve --listen :9000 --cache`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "l", config.DefaultListenAddr,
		"Address to listen on (host:port)")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address applied to all strategies (host:port)")
	cmd.Flags().StringP("provider-config", "c", "",
		"Provider configuration file path (default: scraping-provider.yaml in current or XDG config directory)")
	cmd.Flags().Bool("cache", false,
		"Cache validated pages in a local SQLite database")
	cmd.Flags().String("cache-dir", "",
		"Page cache directory (default: XDG cache directory)")
	cmd.Flags().Duration("cache-ttl", config.DefaultCacheTTL,
		"How long cached pages stay fresh")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()

	var err error
	cfg.ListenAddr, err = cmd.Flags().GetString("listen")
	if err != nil {
		return err
	}
	cfg.ProxyAddress, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return err
	}
	cfg.ProviderConfigPath, err = cmd.Flags().GetString("provider-config")
	if err != nil {
		return err
	}
	cfg.UseCache, err = cmd.Flags().GetBool("cache")
	if err != nil {
		return err
	}
	cfg.CacheDir, err = cmd.Flags().GetString("cache-dir")
	if err != nil {
		return err
	}
	cfg.CacheTTL, err = cmd.Flags().GetDuration("cache-ttl")
	if err != nil {
		return err
	}

	// The server logs JSON for log aggregation; the CLI logs text.
	verbose := getVerboseFlag(cmd)
	logger := log.NewJSON(os.Stderr, verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, draining...")
		cancel()
	}()

	return runServe(ctx, cfg, logger)
}

// runServe builds the server dependencies and blocks until shutdown.
func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	adapter, err := loadProviderAdapter(cfg, logger)
	if err != nil {
		return err
	}

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithFetchConfig(fetch.Config{
			ProxyAddress: cfg.ProxyAddress,
			MaxBodySize:  cfg.MaxBodySize,
		}),
	}
	if adapter != nil {
		opts = append(opts, server.WithProvider(adapter))
	}

	if cfg.UseCache {
		dir := cfg.CacheDir
		if dir == "" {
			dir = config.XDGCacheDir()
		}
		cacheOpts := cache.DefaultOptions()
		cacheOpts.TTL = cfg.CacheTTL
		pc, err := cache.Open(dir, cacheOpts)
		if err != nil {
			return fmt.Errorf("failed to open page cache: %w", err)
		}
		defer pc.Close() //nolint:errcheck // Best effort cleanup.
		opts = append(opts, server.WithPageStore(pc))
		logger.Info("page cache opened", "dir", dir, "ttl", cfg.CacheTTL)
	}

	return server.New(cfg.ListenAddr, opts...).ListenAndServe(ctx)
}
