// Package config holds the application configuration: values populated
// from CLI flags, the scraping-provider configuration file, and the
// XDG directory helpers.
//
// Configuration is loaded once at startup into immutable values and
// passed by parameter; no package reads configuration from ambient
// global state.
package config
