package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultProviderConfigFile is the default provider configuration file
// name, searched in the current directory and the XDG config dir.
const DefaultProviderConfigFile = "scraping-provider.yaml"

// Provider is the scraping-provider configuration loaded from the
// external file. It is read once per run and never mutated. A zero
// Provider means "no provider configured" and disables delegation.
type Provider struct {
	// Service is the provider name (scrapingbee, scraperapi, zenrows,
	// browserless). Validated by the provider package at startup, not
	// at call time.
	Service string `yaml:"service"`

	// APIKey authenticates against the provider API.
	APIKey string `yaml:"api_key"`

	// Options are free-form provider parameters merged into the
	// request (country code, render wait, ...). Keys and values are
	// provider-specific.
	Options map[string]string `yaml:"options"`
}

// Enabled reports whether the configuration names a service and
// carries a key. A half-filled file counts as disabled.
func (p Provider) Enabled() bool {
	return p.Service != "" && p.APIKey != ""
}

// LoadProvider reads the provider configuration from path. An absent
// or malformed file yields a disabled zero configuration, never an
// error: a broken provider file should degrade the cascade, not kill
// the audit.
func LoadProvider(path string) Provider {
	if path == "" {
		return Provider{}
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional.
	if err != nil {
		return Provider{}
	}

	var p Provider
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Provider{}
	}
	return p
}

// FindProviderConfig resolves the provider config path:
//  1. the explicit path, when given
//  2. DefaultProviderConfigFile in the current directory
//  3. DefaultProviderConfigFile in the XDG config directory
//
// Returns the first existing path, or empty when none is found.
func FindProviderConfig(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultProviderConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	candidate := filepath.Join(XDGConfigDir(), DefaultProviderConfigFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}

	return ""
}
