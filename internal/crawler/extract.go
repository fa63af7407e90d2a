package crawler

import (
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/surgehttp/surge/internal/allowlist"
)

// ErrNotUTF8 is returned when a response body is not valid UTF-8 and
// therefore cannot be parsed for links.
var ErrNotUTF8 = errors.New("body is not valid UTF-8")

// Extractor emits the admitted anchor links of an HTML document.
// It is immutable after construction and safe for concurrent use.
type Extractor struct {
	// allow gates every resolved link before it is emitted.
	allow allowlist.AllowList

	// logger records dropped links at debug level.
	logger *slog.Logger
}

// NewExtractor creates an Extractor gated by the given allow-list.
// A nil logger falls back to slog.Default.
func NewExtractor(allow allowlist.AllowList, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{allow: allow, logger: logger}
}

// Extract parses the body and returns one Link per admitted anchor
// href, in document order. Duplicates are preserved; suppressing them
// is the dispatcher's concern. Non-UTF-8 bodies yield ErrNotUTF8.
//
// Each emitted Link keeps the page's parent while the target stays on
// the parent's host; a cross-host target becomes its own parent.
func (e *Extractor) Extract(body []byte, page Link) ([]Link, error) {
	if !utf8.Valid(body) {
		return nil, ErrNotUTF8
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := getAttr(n, "href"); href != "" {
				if l, ok := e.resolve(href, page); ok {
					links = append(links, l)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// resolve normalises one href and applies the allow-list.
// The second return value is false when the link is dropped.
func (e *Extractor) resolve(href string, page Link) (Link, bool) {
	u, err := ResolveLink(href, page.Parent)
	if err != nil {
		e.logger.Debug("dropping unparseable link",
			"href", href,
			"page", page.URL.String(),
			"error", err,
		)
		return Link{}, false
	}

	if !e.allow.Allowed(u) {
		return Link{}, false
	}

	parent := page.Parent
	if u.Hostname() != parent.Hostname() {
		parent = u
	}

	return Link{Parent: parent, URL: u}, true
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
