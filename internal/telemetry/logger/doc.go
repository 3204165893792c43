// Package logger provides structured logging for blessfleet.
//
// It wraps log/slog with:
//   - JSON (default) or text output
//   - a process-wide level that can be changed at runtime
//   - redaction of credentials: attributes whose key looks sensitive,
//     bearer tokens and JWT-shaped values, and proxy URL userinfo
//   - context helpers carrying a logger and a supervisor attempt id
//
// Node identities are logged under "node_id". Keys matching a sensitive
// pattern (token, secret, credential, ...) are always redacted, so never
// log an identity under such a key.
package logger
