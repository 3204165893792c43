// Package supervisor drives the lifecycle of a single node.
//
// A Supervisor cycles through
//
//	Claiming -> Registering -> SessionStarting -> Heartbeating -> Restarting -> Claiming
//
// until its context is cancelled. The heartbeat loop runs on the
// supervisor's own goroutine, so it stops before the claim is released.
// A failed attempt releases the node's registry entry before the restart
// delay begins, so the retried claim never competes with a stale entry.
//
// A lost claim (another supervisor owns the node) ends Run with
// domain.ErrDuplicateClaim and no network calls.
package supervisor
