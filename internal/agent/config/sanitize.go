package config

import (
	"strings"

	"github.com/yndnr/blessfleet/internal/core/domain"
	"github.com/yndnr/blessfleet/internal/telemetry/logger"
)

// Sanitize returns a copy of the config with tokens and proxy
// credentials masked, for display and logging.
func Sanitize(cfg *AgentConfig) *AgentConfig {
	sanitized := *cfg

	sanitized.Accounts = make([]domain.Account, len(cfg.Accounts))
	for i, acct := range cfg.Accounts {
		sanitized.Accounts[i] = domain.Account{
			Token: maskSecret(acct.Token),
			Proxy: logger.RedactURL(acct.Proxy),
		}
	}

	return &sanitized
}

// maskSecret masks a secret value for safe logging.
func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + strings.Repeat("*", 8) + s[len(s)-4:]
}

// Map renders cfg as nested maps keyed like the config file, with
// durations as strings. Callers sanitize first.
func (c *AgentConfig) Map() map[string]any {
	accounts := make([]map[string]any, len(c.Accounts))
	for i, acct := range c.Accounts {
		accounts[i] = map[string]any{"token": acct.Token}
		if acct.Proxy != "" {
			accounts[i]["proxy"] = acct.Proxy
		}
	}

	return map[string]any{
		"accounts":      accounts,
		"accounts_file": c.AccountsFile,
		"gateway": map[string]any{
			"base_url":        c.Gateway.BaseURL,
			"ip_echo_url":     c.Gateway.IPEchoURL,
			"timeout":         c.Gateway.Timeout.String(),
			"session_timeout": c.Gateway.SessionTimeout.String(),
			"rate_limit":      c.Gateway.RateLimit,
			"rate_burst":      c.Gateway.RateBurst,
			"user_agent":      c.Gateway.UserAgent,
			"ca_file":         c.Gateway.CAFile,
		},
		"heartbeat": map[string]any{
			"interval":     c.Heartbeat.Interval.String(),
			"max_failures": c.Heartbeat.MaxFailures,
		},
		"restart": map[string]any{
			"delay": c.Restart.Delay.String(),
		},
		"fleet": map[string]any{
			"strict_discovery":      c.Fleet.StrictDiscovery,
			"discovery_concurrency": c.Fleet.DiscoveryConcurrency,
			"close_concurrency":     c.Fleet.CloseConcurrency,
			"shutdown_timeout":      c.Fleet.ShutdownTimeout.String(),
		},
		"status": map[string]any{
			"addr": c.Status.Addr,
		},
		"log": map[string]any{
			"level":  c.Log.Level,
			"format": c.Log.Format,
		},
	}
}
