package fleet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yndnr/blessfleet/internal/core/domain"
	"github.com/yndnr/blessfleet/internal/core/registry"
	"github.com/yndnr/blessfleet/internal/core/supervisor"
	"github.com/yndnr/blessfleet/internal/infra/clock"
	"github.com/yndnr/blessfleet/internal/telemetry/logger"
)

// ErrShutDown is returned by Run once Shutdown has been called.
var ErrShutDown = errors.New("fleet: coordinator shut down")

// Default fan-out limits.
const (
	DefaultDiscoveryConcurrency = 4
	DefaultCloseConcurrency     = 16
)

// Config configures a Coordinator.
type Config struct {
	Supervisor supervisor.Config
	// StrictDiscovery makes Run return account discovery failures.
	// When false the failing account is logged and skipped.
	StrictDiscovery      bool
	DiscoveryConcurrency int
	CloseConcurrency     int
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		Supervisor:           supervisor.DefaultConfig(),
		StrictDiscovery:      true,
		DiscoveryConcurrency: DefaultDiscoveryConcurrency,
		CloseConcurrency:     DefaultCloseConcurrency,
	}
}

// ConnectFunc opens the client for an account. addr is the externally
// visible address to report for the account's nodes, or "".
type ConnectFunc func(ctx context.Context, acct domain.Account) (client domain.NodeClient, addr string, err error)

// Metrics receives fleet events. *metric.Fleet implements it.
type Metrics interface {
	supervisor.Metrics
	ObserveSessionClose(err error)
}

type nopMetrics struct{}

func (nopMetrics) ObserveClaim(bool)         {}
func (nopMetrics) ObserveHeartbeat(error)    {}
func (nopMetrics) ObserveRestart(error)      {}
func (nopMetrics) ObserveSessionClose(error) {}
func (nopMetrics) SupervisorStarted()        {}
func (nopMetrics) SupervisorStopped()        {}

// Coordinator owns the fleet's supervisors.
type Coordinator struct {
	cfg     Config
	reg     *registry.Registry
	connect ConnectFunc
	clock   clock.Clock
	log     logger.Logger
	metrics Metrics
	out     io.Writer

	// ctx is the parent of every supervisor; cancel stops them all.
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup

	shutdownOnce sync.Once
	report       ShutdownReport
	shutdownErr  error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock sets the clock handed to every supervisor.
func WithClock(c clock.Clock) Option {
	return func(co *Coordinator) {
		co.clock = c
	}
}

// WithLogger sets the coordinator logger.
func WithLogger(l logger.Logger) Option {
	return func(co *Coordinator) {
		co.log = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(co *Coordinator) {
		if m != nil {
			co.metrics = m
		}
	}
}

// WithOutput sets where per-node init lines are printed.
func WithOutput(w io.Writer) Option {
	return func(co *Coordinator) {
		co.out = w
	}
}

// New creates a Coordinator. reg is shared with the status endpoint.
func New(cfg Config, reg *registry.Registry, connect ConnectFunc, opts ...Option) *Coordinator {
	if cfg.DiscoveryConcurrency < 1 {
		cfg.DiscoveryConcurrency = DefaultDiscoveryConcurrency
	}
	if cfg.CloseConcurrency < 1 {
		cfg.CloseConcurrency = DefaultCloseConcurrency
	}

	c := &Coordinator{
		cfg:     cfg,
		reg:     reg,
		connect: connect,
		clock:   clock.Real(),
		log:     logger.Default(),
		metrics: nopMetrics{},
		out:     io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c
}

// Run discovers the nodes of every account and starts their supervisors.
// It returns once discovery is done, without waiting for supervisors.
//
// With StrictDiscovery an account whose client cannot be opened or whose
// node list cannot be fetched fails Run; supervisors already started for
// other accounts keep running until Shutdown. An account still being
// discovered when Shutdown is called starts nothing further, and Run
// reports ErrShutDown.
func (c *Coordinator) Run(ctx context.Context, accounts []domain.Account) error {
	if c.isClosed() {
		return ErrShutDown
	}

	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	g.SetLimit(c.cfg.DiscoveryConcurrency)

	for _, acct := range accounts {
		g.Go(func() error {
			err := c.launchAccount(ctx, acct)
			if err == nil {
				return nil
			}
			if errors.Is(err, ErrShutDown) {
				c.log.Debug("account discovery stopped by shutdown", "account", acct.Label())
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			if !c.cfg.StrictDiscovery {
				c.log.Warn("account skipped", "account", acct.Label(), "error", err, "kind", domain.Kind(err))
				return nil
			}
			c.log.Error("account discovery failed", "account", acct.Label(), "error", err, "kind", domain.Kind(err))
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func (c *Coordinator) launchAccount(ctx context.Context, acct domain.Account) error {
	label := acct.Label()

	client, addr, err := c.connect(ctx, acct)
	if err != nil {
		return fmt.Errorf("account %s: connect: %w", label, err)
	}

	nodes, err := client.ListNodes(ctx)
	if err != nil {
		return fmt.Errorf("account %s: list nodes: %w", label, err)
	}
	c.log.Info("nodes discovered", "account", label, "count", len(nodes), "proxy", acct.HasProxy())

	binding := domain.Binding{Account: label, Client: client, Addr: addr}
	for _, node := range nodes {
		c.printInit(node, addr, acct.HasProxy())
		if !c.spawn(node, binding) {
			return ErrShutDown
		}
	}
	return nil
}

// spawn starts node's supervisor. It reports false after Shutdown.
func (c *Coordinator) spawn(node domain.NodeDescriptor, binding domain.Binding) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}

	sup := supervisor.New(c.cfg.Supervisor, c.reg, node, binding,
		supervisor.WithClock(c.clock),
		supervisor.WithLogger(c.log),
		supervisor.WithMetrics(c.metrics),
	)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		err := sup.Run(c.ctx)
		if errors.Is(err, domain.ErrDuplicateClaim) {
			c.log.Debug("duplicate node ignored", "node_id", node.PubKey.String(), "account", binding.Account)
		}
	}()
	return true
}

func (c *Coordinator) printInit(node domain.NodeDescriptor, addr string, proxied bool) {
	mode := "OFF"
	if proxied {
		mode = "ON"
		if addr != "" {
			mode += "/" + addr
		}
	}
	fmt.Fprintf(c.out, "%s Initializing node %s (hardware %s), proxy: %s\n",
		c.clock.Now().Format("2006-01-02 15:04:05"), node.PubKey, node.HardwareID, mode)
}

func (c *Coordinator) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Active returns the currently claimed nodes.
func (c *Coordinator) Active() []registry.Entry {
	return c.reg.Snapshot()
}

// Registry returns the coordinator's node registry.
func (c *Coordinator) Registry() *registry.Registry {
	return c.reg
}
