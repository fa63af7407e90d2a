// Package client builds the shared HTTP client for a run.
//
// The client is constructed once from the run configuration and shared
// immutably by every request task. It owns the two timeouts (connect
// and whole-request), the compression setting, and the redirect policy:
// when redirects are enabled they are followed for at most five hops
// and only while each hop's target host is admitted by the allow-list.
// A disallowed target ends the chain with the last admitted response
// rather than an error; a sixth hop is a transport error. With
// redirects disabled the redirect status is reported verbatim.
package client
