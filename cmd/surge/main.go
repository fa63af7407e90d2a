// Package main provides the entry point for the surge CLI.
//
// Surge is an HTTP load generation tool. It hammers a single URL,
// cycles through a URL list, or crawls outward from a seed page by
// following same-site links, while collecting per-request timing and
// status statistics.
//
// Usage:
//
//	surge https://example.com/
//	surge --mode single --requests 5000 https://example.com/
//	surge --mode file urls.txt
//
// See --help for all available options.
package main

// main is the entry point for surge.
func main() {
	Execute()
}
