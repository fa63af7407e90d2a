// Package crawler turns HTML responses into new crawl work.
//
// # Architecture
//
// The package has two layers. ResolveLink normalises a raw anchor value
// (absolute, protocol-relative, root-relative, or relative) against the
// parent page's URL. Extractor walks an HTML document, resolves every
// anchor href in document order, and gates each result through the host
// allow-list before emitting it as a Link.
//
// Both layers are deterministic and side-effect free apart from debug
// logging of dropped URLs; duplicate suppression is the dispatcher's job.
//
// # Parent tracking
//
// Every emitted Link carries a parent URL used to resolve the relative
// links found on the child response. The parent stays the page's own
// parent while the link remains on the same host; a cross-host link
// becomes its own parent so later discovery resolves against the new
// origin.
package crawler
