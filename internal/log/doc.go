// Package log provides structured logging with credential redaction.
//
// surge sends Basic credentials and arbitrary user-supplied headers with
// every request, and verbose runs log request details. RedactHandler
// wraps any slog.Handler and masks attribute values whose key or value
// looks like a credential before the record reaches the underlying
// handler, so an Authorization header never lands in a log file.
package log
