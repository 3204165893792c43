package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/yndnr/blessfleet/internal/core/domain"
	"github.com/yndnr/blessfleet/internal/gateway"
)

// Verify validates the configuration. Failures wrap domain.ErrInvalidConfig.
func Verify(cfg *AgentConfig) error {
	checks := []func(*AgentConfig) error{
		verifyAccounts,
		verifyGateway,
		verifyTimings,
		verifyFleet,
		verifyStatus,
		verifyLog,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return err
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return domain.ErrInvalidConfig.WithDetails(fmt.Sprintf(format, args...))
}

func verifyAccounts(cfg *AgentConfig) error {
	if len(cfg.Accounts) == 0 {
		return invalid("no accounts configured")
	}
	for i, acct := range cfg.Accounts {
		if strings.TrimSpace(acct.Token) == "" {
			return invalid("accounts[%d].token is required", i)
		}
		if _, err := gateway.ParseProxy(acct.Proxy); err != nil {
			return invalid("accounts[%d].proxy: %v", i, err)
		}
	}
	return nil
}

func verifyGateway(cfg *AgentConfig) error {
	g := cfg.Gateway
	for name, raw := range map[string]string{
		"gateway.base_url":    g.BaseURL,
		"gateway.ip_echo_url": g.IPEchoURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("%s must be an http(s) URL, got %q", name, raw)
		}
	}
	if g.Timeout <= 0 {
		return invalid("gateway.timeout must be positive")
	}
	if g.SessionTimeout <= 0 {
		return invalid("gateway.session_timeout must be positive")
	}
	if g.RateLimit < 0 {
		return invalid("gateway.rate_limit must not be negative")
	}
	if g.RateLimit > 0 && g.RateBurst < 1 {
		return invalid("gateway.rate_burst must be at least 1 when rate_limit is set")
	}
	if g.CAFile != "" {
		if _, err := os.Stat(g.CAFile); err != nil {
			return invalid("gateway.ca_file: %v", err)
		}
	}
	return nil
}

func verifyTimings(cfg *AgentConfig) error {
	if cfg.Heartbeat.Interval <= 0 {
		return invalid("heartbeat.interval must be positive")
	}
	if cfg.Heartbeat.MaxFailures < 1 {
		return invalid("heartbeat.max_failures must be at least 1")
	}
	if cfg.Restart.Delay <= 0 {
		return invalid("restart.delay must be positive")
	}
	return nil
}

func verifyFleet(cfg *AgentConfig) error {
	if cfg.Fleet.DiscoveryConcurrency < 1 {
		return invalid("fleet.discovery_concurrency must be at least 1")
	}
	if cfg.Fleet.CloseConcurrency < 1 {
		return invalid("fleet.close_concurrency must be at least 1")
	}
	if cfg.Fleet.ShutdownTimeout <= 0 {
		return invalid("fleet.shutdown_timeout must be positive")
	}
	return nil
}

func verifyStatus(cfg *AgentConfig) error {
	if cfg.Status.Addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Status.Addr); err != nil {
		return invalid("status.addr: %v", err)
	}
	return nil
}

func verifyLog(cfg *AgentConfig) error {
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log.level %q is not one of debug, info, warn, error", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "json", "text":
	default:
		return invalid("log.format %q is not json or text", cfg.Log.Format)
	}
	return nil
}
