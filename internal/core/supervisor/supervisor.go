package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/yndnr/blessfleet/internal/core/domain"
	"github.com/yndnr/blessfleet/internal/core/registry"
	"github.com/yndnr/blessfleet/internal/infra/clock"
	"github.com/yndnr/blessfleet/internal/telemetry/logger"
)

// Default lifecycle timings.
const (
	DefaultHeartbeatInterval    = 120 * time.Second
	DefaultMaxHeartbeatFailures = 3
	DefaultRestartDelay         = 240 * time.Second
)

// Config holds the lifecycle timings.
type Config struct {
	HeartbeatInterval    time.Duration
	MaxHeartbeatFailures int
	RestartDelay         time.Duration
}

// DefaultConfig returns the production timings.
func DefaultConfig() Config {
	return Config{
		HeartbeatInterval:    DefaultHeartbeatInterval,
		MaxHeartbeatFailures: DefaultMaxHeartbeatFailures,
		RestartDelay:         DefaultRestartDelay,
	}
}

// Metrics receives lifecycle events. *metric.Fleet implements it.
type Metrics interface {
	ObserveClaim(claimed bool)
	ObserveHeartbeat(err error)
	ObserveRestart(err error)
	SupervisorStarted()
	SupervisorStopped()
}

type nopMetrics struct{}

func (nopMetrics) ObserveClaim(bool)      {}
func (nopMetrics) ObserveHeartbeat(error) {}
func (nopMetrics) ObserveRestart(error)   {}
func (nopMetrics) SupervisorStarted()     {}
func (nopMetrics) SupervisorStopped()     {}

// Supervisor owns the lifecycle of one node.
type Supervisor struct {
	cfg     Config
	node    domain.NodeDescriptor
	binding domain.Binding
	reg     *registry.Registry
	clock   clock.Clock
	log     logger.Logger
	metrics Metrics

	state atomic.Int32
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithClock sets the clock used for heartbeat and restart waits.
func WithClock(c clock.Clock) Option {
	return func(s *Supervisor) {
		s.clock = c
	}
}

// WithLogger sets the supervisor logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Supervisor) {
		s.log = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(s *Supervisor) {
		if m != nil {
			s.metrics = m
		}
	}
}

// New creates a Supervisor for node. binding is what the supervisor
// stores in reg while it owns the node.
func New(cfg Config, reg *registry.Registry, node domain.NodeDescriptor, binding domain.Binding, opts ...Option) *Supervisor {
	if cfg.MaxHeartbeatFailures < 1 {
		cfg.MaxHeartbeatFailures = 1
	}
	s := &Supervisor{
		cfg:     cfg,
		node:    node,
		binding: binding,
		reg:     reg,
		clock:   clock.Real(),
		log:     logger.Default(),
		metrics: nopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("node_id", node.PubKey.String(), "account", binding.Account)
	return s
}

// NodeID returns the supervised node's identity.
func (s *Supervisor) NodeID() domain.NodeID {
	return s.node.PubKey
}

// State returns the current lifecycle state.
func (s *Supervisor) State() State {
	return State(s.state.Load())
}

func (s *Supervisor) setState(st State) {
	s.state.Store(int32(st))
}

// Run drives the node until ctx is cancelled, restarting after every
// failed attempt. It returns domain.ErrDuplicateClaim when another
// supervisor owns the node, and ctx.Err() otherwise.
func (s *Supervisor) Run(ctx context.Context) error {
	s.metrics.SupervisorStarted()
	defer s.metrics.SupervisorStopped()
	defer s.setState(StateShutDown)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.attempt(ctx)
		if errors.Is(err, domain.ErrDuplicateClaim) {
			return err
		}
		if ctx.Err() != nil {
			s.log.Debug("supervisor stopped", "reason", ctx.Err())
			return ctx.Err()
		}

		s.setState(StateRestarting)
		s.metrics.ObserveRestart(err)
		s.log.Warn("node attempt failed, restarting",
			"error", err,
			"kind", domain.Kind(err),
			"delay", s.cfg.RestartDelay,
		)
		if err := clock.Sleep(ctx, s.clock, s.cfg.RestartDelay); err != nil {
			s.log.Debug("supervisor stopped", "reason", err)
			return err
		}
	}
}

// attempt runs one Claiming..Heartbeating pass. The claim is released
// before attempt returns.
func (s *Supervisor) attempt(ctx context.Context) error {
	id := s.node.PubKey

	s.setState(StateClaiming)
	if !s.reg.TryClaim(id, s.binding) {
		s.metrics.ObserveClaim(false)
		s.log.Debug("node already supervised, skipping")
		return domain.ErrDuplicateClaim
	}
	s.metrics.ObserveClaim(true)
	defer s.reg.Release(id)

	attemptID := logger.NewAttemptID()
	ctx = logger.WithAttemptID(ctx, attemptID)
	log := s.log.With("attempt_id", attemptID)

	s.setState(StateRegistering)
	if err := s.binding.Client.RegisterNode(ctx, id, s.node.HardwareID, s.binding.Addr); err != nil {
		log.Error("node registration failed", "error", err, "kind", domain.Kind(err))
		return err
	}
	log.Info("node registered", "hardware_id", s.node.HardwareID)

	s.setState(StateSessionStarting)
	if err := s.binding.Client.StartSession(ctx, id); err != nil {
		log.Error("session start failed", "error", err, "kind", domain.Kind(err))
		return err
	}
	log.Info("session started")

	s.setState(StateHeartbeating)
	return s.heartbeat(ctx, log)
}

// heartbeat pings immediately and then every HeartbeatInterval. It runs
// on the supervisor goroutine, so it cannot outlive the claim. It returns domain.ErrHeartbeatExhausted after MaxHeartbeatFailures
// consecutive failures, or ctx.Err() once ctx is done.
func (s *Supervisor) heartbeat(ctx context.Context, log logger.Logger) error {
	id := s.node.PubKey
	failures := 0

	for {
		res, err := s.binding.Client.Ping(ctx, id, s.binding.Addr)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.metrics.ObserveHeartbeat(err)

		if err != nil {
			failures++
			log.Warn("heartbeat failed",
				"addr", s.reportedAddr(),
				"error", err,
				"kind", domain.Kind(err),
				"failures", failures,
				"max_failures", s.cfg.MaxHeartbeatFailures,
			)
			if failures >= s.cfg.MaxHeartbeatFailures {
				return domain.ErrHeartbeatExhausted.
					WithDetails(id.String()).
					WithCause(err)
			}
		} else {
			failures = 0
			log.Info("heartbeat", "status", res.Status, "connected", res.Connected, "addr", s.reportedAddr())
		}

		if err := clock.Sleep(ctx, s.clock, s.cfg.HeartbeatInterval); err != nil {
			return err
		}
	}
}

// reportedAddr is the address the node is reported under: the account's
// discovered proxy address, or "direct".
func (s *Supervisor) reportedAddr() string {
	if s.binding.Addr == "" {
		return "direct"
	}
	return s.binding.Addr
}
