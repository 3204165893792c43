package clock

import (
	"context"
	"time"
)

// Clock abstracts the time operations used by the fleet.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// After returns a channel that receives the current time once d
	// has elapsed. d <= 0 delivers immediately.
	After(d time.Duration) <-chan time.Time
}

// Sleep blocks for d on c or until ctx is done.
// It returns ctx.Err() when interrupted and nil otherwise.
func Sleep(ctx context.Context, c Clock, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	select {
	case <-c.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
