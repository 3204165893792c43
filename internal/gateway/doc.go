// Package gateway is the HTTP client for the Bless gateway API.
//
// One Client is built per account. It carries the account's bearer
// credential, an http.Client routed through the account's proxy (if
// any) and a token-bucket limiter shared by every node of the account.
//
// Endpoints (relative to Config.BaseURL):
//
//	GET  /nodes                       list the account's nodes
//	POST /nodes/{pubKey}              register {"hardwareId", "ipAddress"}
//	POST /nodes/{pubKey}/start-session
//	POST /nodes/{pubKey}/stop-session
//	POST /nodes/{pubKey}/ping         -> {"status": "ok"}
//
// Every failure is a domain error: ErrTransport, ErrHTTPStatus (with
// StatusCode), ErrParse or ErrUnauthorized (401/403).
package gateway
