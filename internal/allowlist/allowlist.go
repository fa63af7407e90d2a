package allowlist

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// WildcardToken is the stand-alone domains value that admits every host.
const WildcardToken = "*"

// Pattern matches a single host, either exactly or through a compiled
// wildcard expression.
type Pattern struct {
	// exact is the literal host to compare against. Empty when the
	// pattern is a wildcard.
	exact string

	// re is the compiled wildcard expression, anchored to the full host.
	// Nil when the pattern is exact.
	re *regexp.Regexp
}

// Exact creates a pattern that matches the given host by string equality.
func Exact(host string) Pattern {
	return Pattern{exact: host}
}

// Wildcard compiles a user-supplied pattern containing '*' labels.
//
// The pattern is split on '.', each '*' label becomes a non-greedy
// wildcard grouped together with its trailing dot, and the remaining
// labels are rejoined with literal dots. The whole expression is
// anchored to the full hostname. A wildcard label also matches the
// empty string, so "*.example.com" admits both "example.com" and
// "a.b.example.com" while rejecting "evil-example.com".
func Wildcard(pattern string) (Pattern, error) {
	labels := strings.Split(pattern, ".")

	var b strings.Builder
	b.WriteString("^")
	for i, label := range labels {
		last := i == len(labels)-1
		if label == "*" {
			if last {
				b.WriteString(".*?")
			} else {
				b.WriteString(`(?:.*?\.)?`)
			}
			continue
		}
		b.WriteString(regexp.QuoteMeta(label))
		if !last {
			b.WriteString(`\.`)
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return Pattern{}, fmt.Errorf("invalid domain pattern %q: %w", pattern, err)
	}
	return Pattern{re: re}, nil
}

// matches reports whether the pattern matches the given host.
func (p Pattern) matches(host string) bool {
	if p.re != nil {
		return p.re.MatchString(host)
	}
	return p.exact == host
}

// String returns the pattern in a human-readable form.
func (p Pattern) String() string {
	if p.re != nil {
		return p.re.String()
	}
	return p.exact
}

// AllowList is the set of host patterns a URL must match to be admitted.
// The zero value admits nothing; use Any or New to construct one.
type AllowList struct {
	// any admits every host when true, regardless of patterns.
	any bool

	// patterns is consulted in order; the first match admits the host.
	patterns []Pattern
}

// Any returns an AllowList that admits every host.
func Any() AllowList {
	return AllowList{any: true}
}

// New returns an AllowList restricted to the given patterns.
func New(patterns ...Pattern) AllowList {
	return AllowList{patterns: patterns}
}

// Compile builds an AllowList from raw domain strings. A stand-alone "*"
// entry admits everything; entries containing '*' are compiled as
// wildcards; all other entries match exactly.
func Compile(domains []string) (AllowList, error) {
	for _, d := range domains {
		if d == WildcardToken {
			return Any(), nil
		}
	}

	patterns := make([]Pattern, 0, len(domains))
	for _, d := range domains {
		if !strings.Contains(d, "*") {
			patterns = append(patterns, Exact(d))
			continue
		}
		p, err := Wildcard(d)
		if err != nil {
			return AllowList{}, err
		}
		patterns = append(patterns, p)
	}

	return New(patterns...), nil
}

// IsAny reports whether the list admits every host.
func (a AllowList) IsAny() bool {
	return a.any
}

// Add appends a pattern to the list. It has no effect on an Any list.
func (a AllowList) Add(p Pattern) AllowList {
	if a.any {
		return a
	}
	a.patterns = append(a.patterns, p)
	return a
}

// Allowed reports whether the URL's host is admitted by the list.
// A URL without a host is never admitted.
func (a AllowList) Allowed(u *url.URL) bool {
	if a.any {
		return true
	}

	host := u.Hostname()
	if host == "" {
		return false
	}

	for _, p := range a.patterns {
		if p.matches(host) {
			return true
		}
	}
	return false
}

// Patterns returns the patterns in a human-readable form, for logging.
func (a AllowList) Patterns() []string {
	if a.any {
		return []string{WildcardToken}
	}
	out := make([]string, len(a.patterns))
	for i, p := range a.patterns {
		out[i] = p.String()
	}
	return out
}
