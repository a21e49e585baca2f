// Package provider adapts third-party scraping services to the fetch
// strategy interface. Each supported service performs headless
// rendering and anti-bot bypass on its own infrastructure; the adapter
// only builds the provider-specific API request and applies the same
// validity gate as every other strategy.
//
// The service set is a closed enum validated when the adapter is
// built, so a typo in the configuration file fails at startup instead
// of at fetch time.
package provider
