// Package connection talks to the status endpoint of a running
// blessfleet agent.
package connection
