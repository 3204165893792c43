package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/blessfleet/internal/agent/config"
	"github.com/yndnr/blessfleet/internal/agent/statusserver"
	"github.com/yndnr/blessfleet/internal/core/domain"
	"github.com/yndnr/blessfleet/internal/core/fleet"
	"github.com/yndnr/blessfleet/internal/core/registry"
	"github.com/yndnr/blessfleet/internal/gateway"
	"github.com/yndnr/blessfleet/internal/infra/buildinfo"
	"github.com/yndnr/blessfleet/internal/infra/shutdown"
	"github.com/yndnr/blessfleet/internal/telemetry/logger"
	"github.com/yndnr/blessfleet/internal/telemetry/metric"
)

// RunCommand returns the run command.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run every configured node until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "status-addr",
				Usage: "Serve /healthz, /nodes and /metrics on this address",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Do not print the banner",
			},
		},
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	cfg, err := loadVerifiedConfig(c)
	if err != nil {
		return err
	}

	if !c.Bool("quiet") {
		buildinfo.Banner(c.App.Writer)
	}

	log, err := newLogger(c, cfg)
	if err != nil {
		return err
	}
	log.Info("starting blessfleet",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"accounts", len(cfg.Accounts))

	promReg := prometheus.NewRegistry()
	metrics := metric.NewFleet(promReg)
	reg := registry.New()
	metric.RegisterActiveNodes(promReg, reg.Len)

	coord := fleet.New(cfg.FleetConfig(), reg, connector(cfg, metrics, log),
		fleet.WithLogger(log),
		fleet.WithMetrics(metrics),
		fleet.WithOutput(c.App.Writer),
	)

	ctx := c.Context
	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	shutdownHandler := shutdown.NewHandler(cfg.Fleet.ShutdownTimeout)

	// Hooks run in reverse order: status endpoint first, then the fleet.
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		cancelRun()
		report, err := coord.Shutdown(ctx)
		log.Info("sessions closed",
			"attempted", report.Attempted(),
			"failed", report.Failed(),
			"supervisors_joined", report.SupervisorsJoined)
		return err
	})

	if cfg.Status.Addr != "" {
		srv := statusserver.New(cfg.Status.Addr, statusserver.NewRouter(statusserver.RouterConfig{
			Source:   coord,
			Gatherer: promReg,
			Logger:   log,
		}))
		addr, serveErr, err := srv.Start()
		if err != nil {
			return fmt.Errorf("start status server: %w", err)
		}
		log.Info("status endpoint listening", "addr", addr.String())

		go func() {
			if err := <-serveErr; err != nil {
				log.Error("status server error", "error", err)
				shutdownHandler.Trigger("status server failed")
			}
		}()
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down status server")
			return srv.Shutdown(ctx)
		})
	}

	discovery := make(chan error, 1)
	go func() {
		err := coord.Run(runCtx, cfg.Accounts)
		switch {
		case err == nil:
			log.Info("fleet started", "active_nodes", reg.Len())
		case runCtx.Err() != nil:
			log.Debug("node discovery interrupted by shutdown", "error", err)
		default:
			log.Error("node discovery failed", "error", err, "kind", domain.Kind(err))
			shutdownHandler.Trigger("discovery failed")
			discovery <- err
			return
		}
		discovery <- nil
	}()

	log.Info("press Ctrl+C to stop")
	waitErr := shutdownHandler.Wait(ctx)
	runErr := <-discovery
	log.Info("blessfleet stopped", "reason", shutdownHandler.Reason())

	if waitErr != nil {
		log.Error("shutdown error", "error", waitErr)
	}
	return errors.Join(runErr, waitErr)
}

// connector opens a gateway client per account, wired to the process
// metrics and logger.
func connector(cfg *config.AgentConfig, metrics *metric.Fleet, log logger.Logger) fleet.ConnectFunc {
	gwCfg := cfg.GatewayConfig()
	return func(ctx context.Context, acct domain.Account) (domain.NodeClient, string, error) {
		client, addr, err := gateway.Connect(ctx, gwCfg, acct,
			gateway.WithObserver(metrics),
			gateway.WithLogger(log.With("account", acct.Label())),
		)
		if err != nil {
			return nil, "", err
		}
		return client, addr, nil
	}
}
