package statusserver

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/yndnr/blessfleet/internal/core/registry"
	"github.com/yndnr/blessfleet/internal/telemetry/logger"
)

// NodeSource reports the currently active nodes. *fleet.Coordinator
// implements it.
type NodeSource interface {
	Active() []registry.Entry
}

// NodeView is one element of the /nodes response.
type NodeView struct {
	NodeID  string `json:"node_id" yaml:"node_id"`
	Account string `json:"account" yaml:"account"`
	Addr    string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status      string `json:"status" yaml:"status"`
	ActiveNodes int    `json:"active_nodes" yaml:"active_nodes"`
	Uptime      string `json:"uptime" yaml:"uptime"`
}

// NodesResponse is the /nodes body, sorted by node id.
type NodesResponse struct {
	Count int        `json:"count" yaml:"count"`
	Nodes []NodeView `json:"nodes" yaml:"nodes"`
}

type handler struct {
	source  NodeSource
	log     logger.Logger
	started time.Time
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		ActiveNodes: len(h.source.Active()),
		Uptime:      time.Since(h.started).Round(time.Second).String(),
	})
}

func (h *handler) handleNodes(w http.ResponseWriter, r *http.Request) {
	entries := h.source.Active()
	nodes := make([]NodeView, len(entries))
	for i, e := range entries {
		nodes[i] = NodeView{
			NodeID:  e.ID.String(),
			Account: e.Binding.Account,
			Addr:    e.Binding.Addr,
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].NodeID < nodes[j].NodeID })

	h.writeJSON(w, http.StatusOK, NodesResponse{Count: len(nodes), Nodes: nodes})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("failed to encode response", "error", err)
	}
}
