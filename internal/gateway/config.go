package gateway

import "time"

// Default endpoint values.
const (
	DefaultBaseURL   = "https://gateway-run.bls.dev/api/v1"
	DefaultIPEchoURL = "https://tight-block-2413.txlabs.workers.dev"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5.0
	DefaultRateBurst = 10

	// DefaultSessionTimeout bounds start-session, which the gateway can
	// hold open well past DefaultTimeout.
	DefaultSessionTimeout = 5 * time.Minute
)

// Config configures a Client.
type Config struct {
	BaseURL   string
	IPEchoURL string
	// Timeout bounds every request except start-session.
	Timeout time.Duration
	// SessionTimeout bounds start-session. Zero falls back to Timeout.
	SessionTimeout time.Duration
	// RateLimit is the per-account request rate in requests/second.
	// Zero or negative disables limiting.
	RateLimit float64
	RateBurst int
	UserAgent string
	// CAFile is an extra PEM bundle trusted on top of the system roots.
	// Connect honors it.
	CAFile string
}

// DefaultConfig returns the production gateway configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		IPEchoURL:      DefaultIPEchoURL,
		Timeout:        DefaultTimeout,
		SessionTimeout: DefaultSessionTimeout,
		RateLimit:      DefaultRateLimit,
		RateBurst:      DefaultRateBurst,
		UserAgent:      "blessfleet",
	}
}
