package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/blessfleet/internal/core/domain"
	"github.com/yndnr/blessfleet/internal/gateway"
	"github.com/yndnr/blessfleet/internal/infra/confloader"
)

func validConfig() *AgentConfig {
	cfg := Default()
	cfg.Accounts = []domain.Account{{Token: "eyJhbGciOiJIUzI1NiJ9.payload.sig"}}
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Gateway.BaseURL != gateway.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.Gateway.BaseURL, gateway.DefaultBaseURL)
	}
	if cfg.Gateway.SessionTimeout != gateway.DefaultSessionTimeout {
		t.Errorf("Gateway.SessionTimeout = %v, want %v", cfg.Gateway.SessionTimeout, gateway.DefaultSessionTimeout)
	}
	if cfg.Heartbeat.Interval != 120*time.Second {
		t.Errorf("Heartbeat.Interval = %v, want 2m0s", cfg.Heartbeat.Interval)
	}
	if cfg.Heartbeat.MaxFailures != 3 {
		t.Errorf("Heartbeat.MaxFailures = %d, want 3", cfg.Heartbeat.MaxFailures)
	}
	if cfg.Restart.Delay != 240*time.Second {
		t.Errorf("Restart.Delay = %v, want 4m0s", cfg.Restart.Delay)
	}
	if !cfg.Fleet.StrictDiscovery {
		t.Error("StrictDiscovery should default to true")
	}
	if cfg.Status.Addr != "" {
		t.Errorf("Status.Addr = %q, want disabled", cfg.Status.Addr)
	}
	if cfg.Log.Level != DefaultLogLevel || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AgentConfig)
		wantErr string
	}{
		{"valid", func(*AgentConfig) {}, ""},
		{"no accounts", func(c *AgentConfig) { c.Accounts = nil }, "no accounts"},
		{"empty token", func(c *AgentConfig) { c.Accounts[0].Token = " " }, "accounts[0].token"},
		{"bad proxy", func(c *AgentConfig) { c.Accounts[0].Proxy = "socks4://h:1" }, "accounts[0].proxy"},
		{"bad base url", func(c *AgentConfig) { c.Gateway.BaseURL = "ftp://x" }, "gateway.base_url"},
		{"zero timeout", func(c *AgentConfig) { c.Gateway.Timeout = 0 }, "gateway.timeout"},
		{"zero session timeout", func(c *AgentConfig) { c.Gateway.SessionTimeout = 0 }, "gateway.session_timeout"},
		{"negative rate", func(c *AgentConfig) { c.Gateway.RateLimit = -1 }, "gateway.rate_limit"},
		{"zero burst", func(c *AgentConfig) { c.Gateway.RateBurst = 0 }, "gateway.rate_burst"},
		{"unlimited rate ignores burst", func(c *AgentConfig) { c.Gateway.RateLimit = 0; c.Gateway.RateBurst = 0 }, ""},
		{"missing ca file", func(c *AgentConfig) { c.Gateway.CAFile = "/nonexistent/ca.pem" }, "gateway.ca_file"},
		{"zero interval", func(c *AgentConfig) { c.Heartbeat.Interval = 0 }, "heartbeat.interval"},
		{"zero failures", func(c *AgentConfig) { c.Heartbeat.MaxFailures = 0 }, "heartbeat.max_failures"},
		{"zero restart delay", func(c *AgentConfig) { c.Restart.Delay = 0 }, "restart.delay"},
		{"zero discovery", func(c *AgentConfig) { c.Fleet.DiscoveryConcurrency = 0 }, "fleet.discovery_concurrency"},
		{"zero close", func(c *AgentConfig) { c.Fleet.CloseConcurrency = 0 }, "fleet.close_concurrency"},
		{"zero shutdown timeout", func(c *AgentConfig) { c.Fleet.ShutdownTimeout = 0 }, "fleet.shutdown_timeout"},
		{"status addr", func(c *AgentConfig) { c.Status.Addr = "127.0.0.1:9464" }, ""},
		{"bad status addr", func(c *AgentConfig) { c.Status.Addr = "nope" }, "status.addr"},
		{"bad log level", func(c *AgentConfig) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *AgentConfig) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Verify(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Verify() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Verify() = nil, want error containing %q", tt.wantErr)
			}
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("Verify() = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Verify() = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	cfg := validConfig()
	cfg.Accounts = append(cfg.Accounts, domain.Account{Token: "short", Proxy: "alice:hunter2@10.0.0.1:8080"})

	sanitized := Sanitize(cfg)

	if cfg.Accounts[0].Token != "eyJhbGciOiJIUzI1NiJ9.payload.sig" {
		t.Error("original config should be unchanged")
	}
	if cfg.Accounts[1].Proxy != "alice:hunter2@10.0.0.1:8080" {
		t.Error("original proxy should be unchanged")
	}

	if got := sanitized.Accounts[0].Token; got != "eyJh********.sig" {
		t.Errorf("Token = %q, want masked", got)
	}
	if got := sanitized.Accounts[1].Token; got != "****" {
		t.Errorf("short Token = %q, want ****", got)
	}
	if got := sanitized.Accounts[1].Proxy; strings.Contains(got, "hunter2") || !strings.Contains(got, "10.0.0.1:8080") {
		t.Errorf("Proxy = %q, want credentials masked", got)
	}
}

func TestAgentConfig_Map(t *testing.T) {
	m := Default().Map()

	hb, ok := m["heartbeat"].(map[string]any)
	if !ok {
		t.Fatalf("heartbeat = %T", m["heartbeat"])
	}
	if hb["interval"] != "2m0s" {
		t.Errorf("heartbeat.interval = %v, want 2m0s", hb["interval"])
	}
	if _, ok := m["accounts"].([]map[string]any); !ok {
		t.Errorf("accounts = %T", m["accounts"])
	}
}

func TestConversions(t *testing.T) {
	cfg := validConfig()
	cfg.Heartbeat.Interval = 10 * time.Second
	cfg.Fleet.StrictDiscovery = false

	fc := cfg.FleetConfig()
	if fc.Supervisor.HeartbeatInterval != 10*time.Second {
		t.Errorf("HeartbeatInterval = %v", fc.Supervisor.HeartbeatInterval)
	}
	if fc.Supervisor.RestartDelay != cfg.Restart.Delay {
		t.Errorf("RestartDelay = %v", fc.Supervisor.RestartDelay)
	}
	if fc.StrictDiscovery {
		t.Error("StrictDiscovery not carried over")
	}

	cfg.Gateway.SessionTimeout = 90 * time.Second
	gc := cfg.GatewayConfig()
	if gc.BaseURL != cfg.Gateway.BaseURL || gc.RateBurst != cfg.Gateway.RateBurst {
		t.Errorf("GatewayConfig() = %+v", gc)
	}
	if gc.SessionTimeout != 90*time.Second {
		t.Errorf("SessionTimeout = %v, want 1m30s", gc.SessionTimeout)
	}
}

func TestLoadAccountsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `[
  {"token": "tok-1"},
  {"token": "tok-2", "proxy": "socks5://u:p@127.0.0.1:1080"},
  {"token": "tok-3", "proxy": null}
]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	accounts, err := LoadAccountsFile(path)
	if err != nil {
		t.Fatalf("LoadAccountsFile() error = %v", err)
	}
	if len(accounts) != 3 {
		t.Fatalf("got %d accounts, want 3", len(accounts))
	}
	if accounts[1].Proxy != "socks5://u:p@127.0.0.1:1080" {
		t.Errorf("accounts[1].Proxy = %q", accounts[1].Proxy)
	}
	if accounts[2].HasProxy() {
		t.Error("null proxy should mean no proxy")
	}
}

func TestLoadAccountsFile_Formats(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"jsonc", `[
  // main account
  {"token": "tok-1", "proxy": "http://proxy.local:8080"},
  /* spare */ {"token": "tok-2"},
]`},
		{"yaml", `- token: tok-1
  proxy: http://proxy.local:8080
- token: tok-2
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "accounts")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}

			accounts, err := LoadAccountsFile(path)
			if err != nil {
				t.Fatalf("LoadAccountsFile() error = %v", err)
			}
			if len(accounts) != 2 || accounts[0].Proxy != "http://proxy.local:8080" || accounts[1].Token != "tok-2" {
				t.Errorf("accounts = %+v", accounts)
			}
		})
	}
}

func TestLoadAccountsFile_Errors(t *testing.T) {
	if _, err := LoadAccountsFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte(`{"token": "not-an-array"}`), 0o600)
	_, err := LoadAccountsFile(path)
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("LoadAccountsFile() = %v, want ErrInvalidConfig", err)
	}
}

func TestResolveAccounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	os.WriteFile(path, []byte(`[{"token": "from-file"}]`), 0o600)

	cfg := validConfig()
	cfg.AccountsFile = path
	if err := ResolveAccounts(cfg); err != nil {
		t.Fatalf("ResolveAccounts() error = %v", err)
	}
	if len(cfg.Accounts) != 2 || cfg.Accounts[1].Token != "from-file" {
		t.Errorf("Accounts = %+v", cfg.Accounts)
	}
}

func TestLoadThroughConfloader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blessfleet.yaml")
	content := `
accounts:
  - token: tok-a
  - token: tok-b
    proxy: 10.0.0.2:3128
heartbeat:
  interval: 30s
fleet:
  strict_discovery: false
`
	os.WriteFile(path, []byte(content), 0o600)
	t.Setenv("BLESSFLEET_RESTART__DELAY", "1m")

	cfg := Default()
	if err := confloader.NewLoader(confloader.WithConfigFile(path)).Load(cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Accounts) != 2 || cfg.Accounts[1].Proxy != "10.0.0.2:3128" {
		t.Errorf("Accounts = %+v", cfg.Accounts)
	}
	if cfg.Heartbeat.Interval != 30*time.Second {
		t.Errorf("Interval = %v", cfg.Heartbeat.Interval)
	}
	if cfg.Heartbeat.MaxFailures != 3 {
		t.Errorf("MaxFailures = %d, want default kept", cfg.Heartbeat.MaxFailures)
	}
	if cfg.Restart.Delay != time.Minute {
		t.Errorf("Restart.Delay = %v, want env value", cfg.Restart.Delay)
	}
	if cfg.Fleet.StrictDiscovery {
		t.Error("StrictDiscovery should be false from file")
	}
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}
