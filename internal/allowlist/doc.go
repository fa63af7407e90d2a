// Package allowlist implements host matching for crawl and redirect gating.
//
// An AllowList decides whether a URL's host may enter the work queue or be
// followed through a redirect chain. It is built once from the command line
// (or derived from the seed URL / URL list) and shared immutably by the
// dispatcher, the link extractor, and the HTTP client's redirect policy.
//
// Two pattern kinds exist:
//
//   - Exact: case-sensitive string equality against the URL host.
//   - Wildcard: a user pattern such as "*.example.com", compiled to an
//     anchored regular expression in which a wildcard label also matches
//     the empty string, so "*.example.com" admits both "example.com" and
//     "a.b.example.com" but not "evil-example.com".
package allowlist
