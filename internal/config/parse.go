package config

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/surgehttp/surge/internal/allowlist"
)

// durationPattern matches the duration cap flag format: a number
// followed by a single unit letter.
var durationPattern = regexp.MustCompile(`^(\d+)([smhdMy])$`)

// ParseDurationCap parses a duration cap such as "30s", "10m", "2h".
// Supported units: s(econds), m(inutes), h(ours), d(ays), M(onths of
// 30 days), y(ears of 365 days).
func ParseDurationCap(raw string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, raw)
	}

	n, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, raw)
	}

	unit := map[string]time.Duration{
		"s": time.Second,
		"m": time.Minute,
		"h": time.Hour,
		"d": 24 * time.Hour,
		"M": 30 * 24 * time.Hour,
		"y": 365 * 24 * time.Hour,
	}[m[2]]

	return time.Duration(n) * unit, nil
}

// ParseHeaders parses repeated "Key:Value" header flags. The value may
// contain further colons; only the first one separates.
func ParseHeaders(raw []string) (http.Header, error) {
	headers := make(http.Header)
	for _, h := range raw {
		key, value, found := strings.Cut(h, ":")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHeader, h)
		}
		headers.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return headers, nil
}

// ParseBasicAuth parses a "user[:pass]" credential flag.
func ParseBasicAuth(raw string) (*BasicAuth, error) {
	if raw == "" {
		return nil, ErrInvalidBasicAuth
	}
	username, password, _ := strings.Cut(raw, ":")
	if username == "" {
		return nil, ErrInvalidBasicAuth
	}
	return &BasicAuth{Username: username, Password: password}, nil
}

// LoadURLFile reads a newline-separated URL list. Lines are trimmed of
// surrounding whitespace (including the stray '\r' of Windows line
// endings); blank lines and unparseable URLs are skipped with a warning.
// An empty resulting list is an error.
func LoadURLFile(path string, logger *slog.Logger) ([]*url.URL, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read URL file %s: %w", path, err)
	}

	var urls []*url.URL
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		u, err := url.Parse(line)
		if err != nil || u.Scheme == "" || u.Host == "" {
			logger.Warn("skipping invalid URL in file",
				"file", path,
				"line", line,
			)
			continue
		}
		urls = append(urls, u)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyURLFile, path)
	}
	return urls, nil
}

// DeriveAllowList builds the host allow-list for a run.
//
// With explicit domains: a stand-alone "*" admits everything; otherwise
// the domains are compiled and, in discover/single mode, the seed's host
// is added so the seed itself always passes the gate.
//
// Without explicit domains: file mode allows the de-duplicated exact
// hosts of the URL list; discover/single mode allows exactly the seed's
// host.
func DeriveAllowList(domains []string, mode Mode, seed *url.URL, urls []*url.URL) (allowlist.AllowList, error) {
	if len(domains) > 0 {
		list, err := allowlist.Compile(domains)
		if err != nil {
			return allowlist.AllowList{}, err
		}
		if seed != nil {
			list = list.Add(allowlist.Exact(seed.Hostname()))
		}
		return list, nil
	}

	if mode == ModeFile {
		seen := make(map[string]bool)
		var patterns []allowlist.Pattern
		for _, u := range urls {
			host := u.Hostname()
			if seen[host] {
				continue
			}
			seen[host] = true
			patterns = append(patterns, allowlist.Exact(host))
		}
		return allowlist.New(patterns...), nil
	}

	return allowlist.New(allowlist.Exact(seed.Hostname())), nil
}
