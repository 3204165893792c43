// Package tlsroots builds the trusted root pool for outbound TLS.
//
// The pool starts from the system roots; extra CA bundles are appended
// for gateways reached through TLS-intercepting proxies.
package tlsroots
