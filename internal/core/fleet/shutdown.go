package fleet

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yndnr/blessfleet/internal/core/domain"
)

// CloseResult is the outcome of one session close at shutdown.
type CloseResult struct {
	ID      domain.NodeID
	Account string
	Err     error
}

// ShutdownReport summarizes Shutdown.
type ShutdownReport struct {
	Results []CloseResult
	// SupervisorsJoined is false when ctx expired before every
	// supervisor stopped.
	SupervisorsJoined bool
}

// Attempted returns the number of close calls issued.
func (r ShutdownReport) Attempted() int {
	return len(r.Results)
}

// Failed returns the number of close calls that failed.
func (r ShutdownReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Shutdown stops the fleet. It snapshots the active nodes, stops every
// supervisor, then issues one session close per snapshot entry and
// waits for all of them. Close failures are logged and reported, never
// retried. Only the first call does any work; later calls return the
// first call's result.
func (c *Coordinator) Shutdown(ctx context.Context) (ShutdownReport, error) {
	c.shutdownOnce.Do(func() {
		c.report, c.shutdownErr = c.shutdown(ctx)
	})
	return c.report, c.shutdownErr
}

func (c *Coordinator) shutdown(ctx context.Context) (ShutdownReport, error) {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	entries := c.reg.Snapshot()
	c.log.Info("shutting down fleet", "active_nodes", len(entries))

	c.cancel()
	report := ShutdownReport{SupervisorsJoined: c.join(ctx)}
	if !report.SupervisorsJoined {
		c.log.Warn("supervisors still running at shutdown deadline")
	}

	report.Results = make([]CloseResult, len(entries))
	var g errgroup.Group
	g.SetLimit(c.cfg.CloseConcurrency)
	for i, e := range entries {
		g.Go(func() error {
			err := e.Binding.Client.StopSession(ctx, e.ID)
			report.Results[i] = CloseResult{ID: e.ID, Account: e.Binding.Account, Err: err}
			c.metrics.ObserveSessionClose(err)

			log := c.log.With("node_id", e.ID.String(), "account", e.Binding.Account)
			if err != nil {
				log.Error("session close failed", "error", err, "kind", domain.Kind(err))
			} else {
				log.Info("session closed")
			}
			return nil
		})
	}
	_ = g.Wait()

	c.log.Info("fleet stopped", "closed", report.Attempted()-report.Failed(), "failed", report.Failed())
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("shutdown: %w", err)
	}
	return report, nil
}

// join waits for every supervisor goroutine. It reports false if ctx
// ended first.
func (c *Coordinator) join(ctx context.Context) bool {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
