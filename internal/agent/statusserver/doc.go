// Package statusserver serves the agent's local status endpoint.
//
// Routes:
//
//	GET /healthz  liveness and number of active nodes
//	GET /nodes    active nodes with their account and reported address
//	GET /metrics  Prometheus metrics
//
// It uses net/http with a small middleware chain (panic recovery,
// request ids, access logging).
package statusserver
