// Package gatewaytest provides an in-memory domain.NodeClient for tests.
package gatewaytest

import (
	"context"
	"sync"

	"github.com/yndnr/blessfleet/internal/core/domain"
)

// Call operation names recorded by Client.
const (
	OpListNodes    = "list"
	OpRegister     = "register"
	OpStartSession = "open"
	OpStopSession  = "close"
	OpPing         = "ping"
)

// Call is one recorded invocation.
type Call struct {
	Op   string
	Node domain.NodeID
	IP   string
}

// Client is a scriptable, recording domain.NodeClient.
//
// Each hook receives the 1-based count of calls made so far for its
// operation (across all nodes) and returns the error to report. Nil
// hooks succeed.
type Client struct {
	Nodes []domain.NodeDescriptor

	ListErr      error
	RegisterFunc func(n int) error
	StartFunc    func(n int) error
	StopFunc     func(n int) error
	PingFunc     func(n int) (string, error)

	// OnCall, if set, runs after every call is recorded.
	OnCall func(Call)

	mu     sync.Mutex
	calls  []Call
	counts map[string]int
}

var _ domain.NodeClient = (*Client)(nil)

func (c *Client) record(op string, id domain.NodeID, ip string) int {
	c.mu.Lock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	call := Call{Op: op, Node: id, IP: ip}
	c.calls = append(c.calls, call)
	c.counts[op]++
	n := c.counts[op]
	hook := c.OnCall
	c.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	return n
}

// ListNodes implements domain.NodeClient.
func (c *Client) ListNodes(ctx context.Context) ([]domain.NodeDescriptor, error) {
	c.record(OpListNodes, "", "")
	if c.ListErr != nil {
		return nil, c.ListErr
	}
	out := make([]domain.NodeDescriptor, len(c.Nodes))
	copy(out, c.Nodes)
	return out, nil
}

// RegisterNode implements domain.NodeClient.
func (c *Client) RegisterNode(ctx context.Context, id domain.NodeID, hardwareID, ip string) error {
	n := c.record(OpRegister, id, ip)
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.RegisterFunc != nil {
		return c.RegisterFunc(n)
	}
	return nil
}

// StartSession implements domain.NodeClient.
func (c *Client) StartSession(ctx context.Context, id domain.NodeID) error {
	n := c.record(OpStartSession, id, "")
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.StartFunc != nil {
		return c.StartFunc(n)
	}
	return nil
}

// StopSession implements domain.NodeClient. It ignores ctx
// cancellation so shutdown tests can count every close.
func (c *Client) StopSession(ctx context.Context, id domain.NodeID) error {
	n := c.record(OpStopSession, id, "")
	if c.StopFunc != nil {
		return c.StopFunc(n)
	}
	return nil
}

// Ping implements domain.NodeClient.
func (c *Client) Ping(ctx context.Context, id domain.NodeID, ip string) (domain.PingResult, error) {
	n := c.record(OpPing, id, ip)
	if err := ctx.Err(); err != nil {
		return domain.PingResult{}, err
	}
	if c.PingFunc != nil {
		status, err := c.PingFunc(n)
		if err != nil {
			return domain.PingResult{}, err
		}
		return domain.NewPingResult(status), nil
	}
	return domain.NewPingResult("ok"), nil
}

// Calls returns a copy of the recorded calls in order.
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

// Ops returns the recorded operation names in order.
func (c *Client) Ops() []string {
	calls := c.Calls()
	ops := make([]string, len(calls))
	for i, call := range calls {
		ops[i] = call.Op
	}
	return ops
}

// Count returns how many times op was called.
func (c *Client) Count(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[op]
}

// Reset forgets recorded calls and counters.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
	c.counts = nil
}
