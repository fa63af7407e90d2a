package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// Link is a unit of crawl work: a URL to request and the parent page
// whose body referenced it. On a seed item Parent and URL are the same.
type Link struct {
	// Parent is the page whose body contained the link. It supplies
	// the scheme and host for resolving further relative links found
	// on this link's response.
	Parent *url.URL

	// URL is the address to request.
	URL *url.URL
}

// Seed creates a Link whose parent is the URL itself.
func Seed(u *url.URL) Link {
	return Link{Parent: u, URL: u}
}

// ResolveLink normalises a raw anchor value against the parent URL.
//
// Resolution rules:
//   - "//host/path" inherits the parent's scheme.
//   - "/path" is rooted at the parent's scheme and host.
//   - anything else without an http(s) prefix is appended to the
//     parent's path with a "/" separator.
//
// The result is parsed with url.Parse; a parse failure is returned as
// an error so the caller can report and drop the link.
func ResolveLink(raw string, parent *url.URL) (*url.URL, error) {
	link := raw

	if strings.HasPrefix(link, "//") {
		link = parent.Scheme + ":" + link
	}

	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		if strings.HasPrefix(link, "/") {
			link = fmt.Sprintf("%s://%s%s", parent.Scheme, parent.Host, link)
		} else {
			link = fmt.Sprintf("%s://%s%s/%s", parent.Scheme, parent.Host, parent.Path, link)
		}
	}

	u, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("invalid link %q: %w", raw, err)
	}
	return u, nil
}
