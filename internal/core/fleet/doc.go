// Package fleet launches and shuts down the supervisors of every node
// across all configured accounts.
//
// Run discovers each account's nodes and starts one supervisor goroutine
// per node without waiting for them. Shutdown stops the supervisors and
// closes the session of every node that was active when it was called.
package fleet
