package config

import "errors"

// Configuration validation errors, returned by Config.Validate().
// Package-level sentinels so callers can use errors.Is while still
// getting a human-readable message.
var (
	// ErrNoTarget is returned when neither a URL nor a markup file is
	// specified.
	ErrNoTarget = errors.New("no target specified: provide a URL or use --markup-file")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidBatchSize is returned when the batch size is not
	// positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is
	// negative. Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidCacheTTL is returned when the cache TTL is negative.
	ErrInvalidCacheTTL = errors.New("invalid cache TTL: must be non-negative")
)
