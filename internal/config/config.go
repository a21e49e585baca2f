package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "geoscan"

	// DefaultBatchSize is the number of concurrent audits when the CLI
	// receives multiple targets. Each audit is internally sequential;
	// only independent targets run in parallel.
	DefaultBatchSize = 4

	// DefaultCacheTTL is how long a cached page stays fresh. Audits
	// are usually re-run within a working session while iterating on a
	// page, so a short TTL keeps results honest.
	DefaultCacheTTL = 15 * time.Minute

	// DefaultListenAddr is the default address for the audit HTTP
	// server.
	DefaultListenAddr = ":8417"

	// DefaultMaxBodySize limits the maximum response body size to
	// read. 5MB covers any real HTML page while preventing memory
	// exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024
)

// Config holds all configuration options for geoscan. It is populated
// from CLI flags and passed through the application via dependency
// injection rather than global state.
//
// Design decision: a single flat struct instead of nested sub-configs.
// The option count is manageable, and nesting would add complexity
// without benefit.
type Config struct {
	// Targets is the list of URLs to audit.
	Targets []string

	// MarkupFile is a path to a local markup file to audit instead of
	// fetching. "-" reads standard input.
	MarkupFile string

	// PageType is the free-form page classification hint.
	PageType string

	// UseProxyStrategy enables the advanced-bypass strategy group.
	UseProxyStrategy bool

	// UseScrapingProvider tries the configured provider early in the
	// cascade instead of only as a last resort.
	UseScrapingProvider bool

	// IdentifyAsBot announces the auditor with a bot user agent first.
	IdentifyAsBot bool

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form
	// applied to all strategy transports.
	ProxyAddress string

	// ProviderConfigPath is the path to the provider configuration
	// file. Empty means search the default locations.
	ProviderConfigPath string

	// JSONReport enables JSON report output (default).
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables markdown report output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path. Empty writes to stdout.
	ReportFile string

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// BatchSize is the number of concurrent audits for multiple
	// targets.
	BatchSize int

	// UseCache enables the SQLite page cache.
	UseCache bool

	// CacheDir is the page cache directory. Empty means the XDG cache
	// directory.
	CacheDir string

	// CacheTTL is how long cached pages stay fresh.
	CacheTTL time.Duration

	// MaxBodySize caps response body reads in bytes.
	MaxBodySize int64

	// ListenAddr is the HTTP server bind address (serve command).
	ListenAddr string
}

// NewConfig creates a Config with default values. Users override
// specific values after creation.
func NewConfig() *Config {
	return &Config{
		BatchSize:   DefaultBatchSize,
		CacheTTL:    DefaultCacheTTL,
		MaxBodySize: DefaultMaxBodySize,
		ListenAddr:  DefaultListenAddr,
	}
}

// XDGConfigDir returns the XDG config directory for geoscan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for geoscan.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid for a CLI audit run.
// It returns the first problem found; fixing one error often makes
// the rest irrelevant.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 && c.MarkupFile == "" {
		return ErrNoTarget
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.CacheTTL < 0 {
		return ErrInvalidCacheTTL
	}
	return nil
}
