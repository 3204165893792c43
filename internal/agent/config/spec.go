package config

import (
	"time"

	"github.com/yndnr/blessfleet/internal/core/domain"
)

// AgentConfig is the root configuration for blessfleet.
type AgentConfig struct {
	Accounts     []domain.Account `koanf:"accounts" yaml:"accounts"`
	AccountsFile string           `koanf:"accounts_file" yaml:"accounts_file,omitempty"`
	Gateway      GatewaySection   `koanf:"gateway" yaml:"gateway"`
	Heartbeat    HeartbeatSection `koanf:"heartbeat" yaml:"heartbeat"`
	Restart      RestartSection   `koanf:"restart" yaml:"restart"`
	Fleet        FleetSection     `koanf:"fleet" yaml:"fleet"`
	Status       StatusSection    `koanf:"status" yaml:"status"`
	Log          LogSection       `koanf:"log" yaml:"log"`
}

// GatewaySection configures the remote service client.
type GatewaySection struct {
	BaseURL   string        `koanf:"base_url" yaml:"base_url"`
	IPEchoURL string        `koanf:"ip_echo_url" yaml:"ip_echo_url"`
	Timeout   time.Duration `koanf:"timeout" yaml:"timeout"`

	// SessionTimeout bounds start-session only; the gateway may hold it
	// open well past Timeout.
	SessionTimeout time.Duration `koanf:"session_timeout" yaml:"session_timeout"`

	// RateLimit is requests/second per account; 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit" yaml:"rate_limit"`
	RateBurst int     `koanf:"rate_burst" yaml:"rate_burst"`
	UserAgent string  `koanf:"user_agent" yaml:"user_agent"`

	// CAFile is an extra PEM bundle to trust, for TLS-intercepting proxies.
	CAFile string `koanf:"ca_file" yaml:"ca_file,omitempty"`
}

// HeartbeatSection configures the per-node heartbeat loop.
type HeartbeatSection struct {
	Interval    time.Duration `koanf:"interval" yaml:"interval"`
	MaxFailures int           `koanf:"max_failures" yaml:"max_failures"`
}

// RestartSection configures supervisor restarts.
type RestartSection struct {
	Delay time.Duration `koanf:"delay" yaml:"delay"`
}

// FleetSection configures discovery and shutdown.
type FleetSection struct {
	// StrictDiscovery stops the process when any account's node list
	// cannot be fetched.
	StrictDiscovery      bool          `koanf:"strict_discovery" yaml:"strict_discovery"`
	DiscoveryConcurrency int           `koanf:"discovery_concurrency" yaml:"discovery_concurrency"`
	CloseConcurrency     int           `koanf:"close_concurrency" yaml:"close_concurrency"`
	ShutdownTimeout      time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// StatusSection configures the local status endpoint.
type StatusSection struct {
	// Addr is the listen address; empty disables the endpoint.
	Addr string `koanf:"addr" yaml:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}
