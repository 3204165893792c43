package config

import (
	"time"

	"github.com/yndnr/blessfleet/internal/core/fleet"
	"github.com/yndnr/blessfleet/internal/core/supervisor"
	"github.com/yndnr/blessfleet/internal/gateway"
	"github.com/yndnr/blessfleet/internal/infra/buildinfo"
)

// Default configuration values.
const (
	DefaultShutdownTimeout = 30 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default agent configuration.
func Default() *AgentConfig {
	return &AgentConfig{
		Gateway: GatewaySection{
			BaseURL:        gateway.DefaultBaseURL,
			IPEchoURL:      gateway.DefaultIPEchoURL,
			Timeout:        gateway.DefaultTimeout,
			SessionTimeout: gateway.DefaultSessionTimeout,
			RateLimit:      gateway.DefaultRateLimit,
			RateBurst:      gateway.DefaultRateBurst,
			UserAgent:      buildinfo.UserAgent(),
		},
		Heartbeat: HeartbeatSection{
			Interval:    supervisor.DefaultHeartbeatInterval,
			MaxFailures: supervisor.DefaultMaxHeartbeatFailures,
		},
		Restart: RestartSection{
			Delay: supervisor.DefaultRestartDelay,
		},
		Fleet: FleetSection{
			StrictDiscovery:      true,
			DiscoveryConcurrency: fleet.DefaultDiscoveryConcurrency,
			CloseConcurrency:     fleet.DefaultCloseConcurrency,
			ShutdownTimeout:      DefaultShutdownTimeout,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// GatewayConfig converts the gateway section.
func (c *AgentConfig) GatewayConfig() gateway.Config {
	return gateway.Config{
		BaseURL:        c.Gateway.BaseURL,
		IPEchoURL:      c.Gateway.IPEchoURL,
		Timeout:        c.Gateway.Timeout,
		SessionTimeout: c.Gateway.SessionTimeout,
		RateLimit:      c.Gateway.RateLimit,
		RateBurst:      c.Gateway.RateBurst,
		UserAgent:      c.Gateway.UserAgent,
		CAFile:         c.Gateway.CAFile,
	}
}

// FleetConfig converts the heartbeat, restart and fleet sections.
func (c *AgentConfig) FleetConfig() fleet.Config {
	return fleet.Config{
		Supervisor: supervisor.Config{
			HeartbeatInterval:    c.Heartbeat.Interval,
			MaxHeartbeatFailures: c.Heartbeat.MaxFailures,
			RestartDelay:         c.Restart.Delay,
		},
		StrictDiscovery:      c.Fleet.StrictDiscovery,
		DiscoveryConcurrency: c.Fleet.DiscoveryConcurrency,
		CloseConcurrency:     c.Fleet.CloseConcurrency,
	}
}
