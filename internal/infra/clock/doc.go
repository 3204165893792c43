// Package clock provides an injectable time source.
//
// Code that waits (heartbeat intervals, restart delays) takes a Clock
// instead of calling the time package. Production wiring passes Real();
// tests pass Fake() and move time forward explicitly:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go sup.Run(ctx)
//	c.WaitForTimers(1)         // supervisor is now sleeping
//	c.Advance(240 * time.Second)
//
// WaitForTimers removes the race between a goroutine registering a
// wait and the test advancing the clock.
package clock
