package client

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/surgehttp/surge/internal/allowlist"
)

// maxRedirects is the redirect hop limit when following is enabled.
const maxRedirects = 5

// ErrTooManyRedirects is returned when a redirect chain exceeds the hop
// limit. It surfaces as a transport error on the request.
var ErrTooManyRedirects = errors.New("stopped after 5 redirects")

// Options configure the shared HTTP client.
type Options struct {
	// ConnectTimeout bounds TCP connection establishment.
	ConnectTimeout time.Duration

	// RequestTimeout bounds each request end to end, body included.
	RequestTimeout time.Duration

	// DisableCompression turns off transparent gzip negotiation.
	DisableCompression bool

	// FollowRedirects enables the bounded, allow-list-gated policy.
	FollowRedirects bool

	// AllowList gates redirect targets. Shared with the dispatcher;
	// it must be the same snapshot the queue gate uses.
	AllowList allowlist.AllowList
}

// New creates the shared HTTP client for a run.
//
// The redirect policy closes over the allow-list: it is consulted for
// every hop, so a redirect cannot smuggle the run onto a host the queue
// gate would have rejected.
func New(opts Options) *http.Client {
	dialer := &net.Dialer{Timeout: opts.ConnectTimeout}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   opts.ConnectTimeout,
		DisableCompression:    opts.DisableCompression,
		MaxIdleConnsPerHost:   64,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	c := &http.Client{
		Transport: transport,
		Timeout:   opts.RequestTimeout,
	}

	if !opts.FollowRedirects {
		c.CheckRedirect = func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		}
		return c
	}

	allow := opts.AllowList
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) > maxRedirects {
			return ErrTooManyRedirects
		}
		if !allow.Allowed(req.URL) {
			// Disallowed target: stop cleanly with the last
			// admitted response.
			return http.ErrUseLastResponse
		}
		return nil
	}
	return c
}
