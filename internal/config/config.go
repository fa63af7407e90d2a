package config

import (
	"net/http"
	"net/url"
	"time"

	"github.com/surgehttp/surge/internal/allowlist"
)

// Default configuration values. These mirror the CLI flag defaults and
// exist as named constants so tests and the config-file loader can refer
// to them.
const (
	// DefaultConcurrency is the number of in-flight requests when no
	// --concurrent flag is given. Two keeps a default run gentle.
	DefaultConcurrency = 2

	// DefaultConnectTimeout bounds TCP connection establishment.
	DefaultConnectTimeout = 1000 * time.Millisecond

	// DefaultRequestTimeout bounds the whole request including the body.
	DefaultRequestTimeout = 3000 * time.Millisecond

	// DefaultRequests is the request cap applied when the mode is not
	// discover and no duration cap is set.
	DefaultRequests = 1000

	// MinTimeout is the floor for both timeouts. Anything lower fails
	// before it can measure, so it is rejected at validation.
	MinTimeout = 50 * time.Millisecond

	// StartupDelay is the pre-run pause that lets the user read the
	// banner before traffic starts. Skipped with --no-delayed-start.
	StartupDelay = 1500 * time.Millisecond

	// AppName is the application name, used for the User-Agent header
	// and the XDG config directory.
	AppName = "surge"
)

// Mode selects how the work queue is fed.
type Mode string

// Run modes.
const (
	// ModeDiscover seeds the queue with one URL and expands the
	// frontier by parsing anchor links from returned HTML.
	ModeDiscover Mode = "discover"

	// ModeSingle hammers a single URL until a termination condition
	// fires.
	ModeSingle Mode = "single"

	// ModeFile cycles through a newline-separated URL list file.
	ModeFile Mode = "file"
)

// ParseMode validates a raw mode string.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeDiscover, ModeSingle, ModeFile:
		return Mode(raw), nil
	default:
		return "", ErrInvalidMode
	}
}

// methods is the set of HTTP methods surge accepts.
var methods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	http.MethodPut:     true,
	http.MethodDelete:  true,
	http.MethodConnect: true,
	http.MethodTrace:   true,
	http.MethodPatch:   true,
}

// ParseMethod validates a raw HTTP method string.
func ParseMethod(raw string) (string, error) {
	if !methods[raw] {
		return "", ErrInvalidMethod
	}
	return raw, nil
}

// BasicAuth carries HTTP Basic credentials.
type BasicAuth struct {
	// Username is always present.
	Username string

	// Password may be empty when the flag value had no ':' part.
	Password string
}

// Config is the immutable run configuration.
type Config struct {
	// Mode selects discover, single, or file.
	Mode Mode

	// Method is the request verb for every issued request.
	Method string

	// URL is the seed target in discover and single modes. Nil in file mode.
	URL *url.URL

	// URLs is the parsed target list in file mode. Nil otherwise.
	URLs []*url.URL

	// Concurrency is the capacity of the permit semaphore. At least 1.
	Concurrency int

	// Requests caps the number of dispatched requests. Zero means no cap.
	Requests uint64

	// Duration caps the wall-clock run time. Zero means no cap.
	Duration time.Duration

	// ConnectTimeout bounds TCP connection establishment.
	ConnectTimeout time.Duration

	// RequestTimeout bounds each request end to end. It is also the
	// grace period granted to in-flight requests after an interrupt.
	RequestTimeout time.Duration

	// DisableCompression turns off gzip negotiation.
	DisableCompression bool

	// FollowRedirects enables the bounded, allow-list-gated redirect
	// policy. When false a redirect status is reported verbatim.
	FollowRedirects bool

	// Headers are custom request headers applied to every request.
	Headers http.Header

	// BasicAuth holds optional HTTP Basic credentials.
	BasicAuth *BasicAuth

	// AllowList gates which hosts may enter the queue or be followed
	// through redirects.
	AllowList allowlist.AllowList

	// Verbose enables the per-request trace line and debug logging.
	Verbose bool

	// PreventDuplicates enqueues each URL at most once per run.
	// Only valid in discover mode.
	PreventDuplicates bool

	// NoDelayedStart skips the pre-run pause.
	NoDelayedStart bool

	// RandomArguments enables %RAND(min,max)% substitution in URLs and
	// header values in single and file modes.
	RandomArguments bool

	// UserAgent is sent with every request.
	UserAgent string
}

// NewConfig creates a Config with default values. Flag parsing overrides
// individual fields afterwards.
func NewConfig() *Config {
	return &Config{
		Mode:           ModeDiscover,
		Method:         http.MethodGet,
		Concurrency:    DefaultConcurrency,
		ConnectTimeout: DefaultConnectTimeout,
		RequestTimeout: DefaultRequestTimeout,
		Headers:        make(http.Header),
		UserAgent:      AppName,
	}
}

// ApplyRequestDefault fills in the default request cap: 1000 requests
// when the mode is not discover and no duration cap is set. Discover
// runs and duration-capped runs stay uncapped unless --requests is given.
func (c *Config) ApplyRequestDefault(explicit bool) {
	if explicit {
		return
	}
	if c.Mode != ModeDiscover && c.Duration == 0 {
		c.Requests = DefaultRequests
	}
}

// Validate checks the configuration, returning the first violation found.
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return ErrInvalidConcurrency
	}
	if c.ConnectTimeout < MinTimeout {
		return ErrConnectTimeoutTooSmall
	}
	if c.RequestTimeout < MinTimeout {
		return ErrRequestTimeoutTooSmall
	}
	if c.Requests != 0 && c.Requests < uint64(c.Concurrency) {
		return ErrRequestsBelowConcurrency
	}
	if c.PreventDuplicates && c.Mode != ModeDiscover {
		return ErrDedupOutsideDiscover
	}

	switch c.Mode {
	case ModeFile:
		if len(c.URLs) == 0 {
			return ErrNoTarget
		}
	default:
		if c.URL == nil {
			return ErrNoTarget
		}
	}

	return nil
}
