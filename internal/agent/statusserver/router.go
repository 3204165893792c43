package statusserver

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/blessfleet/internal/telemetry/logger"
	"github.com/yndnr/blessfleet/internal/telemetry/metric"
)

// RouterConfig holds configuration for the status router.
type RouterConfig struct {
	Source NodeSource

	// Gatherer backs /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer

	Logger logger.Logger
}

// NewRouter creates the status handler with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	h := &handler{source: cfg.Source, log: log, started: time.Now()}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /nodes", h.handleNodes)
	if cfg.Gatherer != nil {
		mux.Handle("GET /metrics", metric.Handler(cfg.Gatherer))
	}

	// Order: Recover -> RequestID -> Logging -> mux
	return Chain(mux, Recover(log), RequestID(), Logging(log))
}
