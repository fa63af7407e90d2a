// Package config holds the run configuration for surge.
//
// A Config is populated from CLI flags (optionally pre-seeded from a
// YAML config file), validated once at startup, and then passed through
// the application by dependency injection. It is immutable after
// validation; nothing in the engine mutates it.
//
// The package also owns the small parsers the CLI surface needs:
// duration strings ("10s", "5m", "2h", ...), "Key:Value" header flags,
// "user[:pass]" basic credentials, URL list files, and the derivation
// of the host allow-list from the configured mode and targets.
package config
