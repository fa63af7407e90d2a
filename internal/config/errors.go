package config

import "errors"

// Configuration validation errors.
// These are returned by Config.Validate() and the flag parsers so that
// callers can use errors.Is() while still printing a readable message.
var (
	// ErrNoTarget is returned when no target URL or URL file is given.
	ErrNoTarget = errors.New("no target specified: provide a URL (or a file path in file mode)")

	// ErrInvalidMode is returned for a mode outside discover/single/file.
	ErrInvalidMode = errors.New("invalid mode: must be discover, single, or file")

	// ErrInvalidMethod is returned for an HTTP method outside the nine
	// standard methods.
	ErrInvalidMethod = errors.New("invalid method: must be one of GET, POST, HEAD, OPTIONS, PUT, DELETE, CONNECT, TRACE, PATCH")

	// ErrInvalidConcurrency is returned when concurrency is below one.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be at least 1")

	// ErrConnectTimeoutTooSmall is returned when the connection timeout
	// is below the 50 ms floor.
	ErrConnectTimeoutTooSmall = errors.New("connect timeout must be at least 50 milliseconds")

	// ErrRequestTimeoutTooSmall is returned when the request timeout is
	// below the 50 ms floor.
	ErrRequestTimeoutTooSmall = errors.New("request timeout must be at least 50 milliseconds")

	// ErrRequestsBelowConcurrency is returned when the request cap is
	// smaller than the number of concurrent requests. Such a run could
	// never fill its permits.
	ErrRequestsBelowConcurrency = errors.New("number of requests must be greater than or equal to the number of concurrent requests")

	// ErrDedupOutsideDiscover is returned when duplicate prevention is
	// requested in a mode other than discover.
	ErrDedupOutsideDiscover = errors.New("prevent-duplicate-requests is only supported in discover mode")

	// ErrInvalidDuration is returned for a duration string that does not
	// match <number><unit> with unit one of s, m, h, d, M, y.
	ErrInvalidDuration = errors.New("invalid duration: expected <number><unit> with unit s, m, h, d, M, or y")

	// ErrInvalidHeader is returned for a header flag without a ':' separator.
	ErrInvalidHeader = errors.New("invalid header: expected Key:Value")

	// ErrInvalidBasicAuth is returned for an empty basic-auth value.
	ErrInvalidBasicAuth = errors.New("invalid basic auth: expected username or username:password")

	// ErrEmptyURLFile is returned when a URL file contains no valid URLs.
	ErrEmptyURLFile = errors.New("no valid URLs found in file")
)
