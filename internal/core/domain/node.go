package domain

import (
	"context"
	"strings"
)

// NodeID is a node's public key. It is stable across restarts.
type NodeID string

// String returns the raw identity.
func (id NodeID) String() string { return string(id) }

// NodeDescriptor is a node as returned by node discovery.
// Supervisors only read PubKey, HardwareID and IPAddress; the reward
// fields are informational.
type NodeDescriptor struct {
	PubKey      NodeID  `json:"pub_key" yaml:"pub_key"`
	HardwareID  string  `json:"hardware_id" yaml:"hardware_id"`
	IPAddress   string  `json:"ip_address,omitempty" yaml:"ip_address,omitempty"`
	IsConnected bool    `json:"is_connected" yaml:"is_connected"`
	TotalReward float64 `json:"total_reward" yaml:"total_reward"`
	TodayReward float64 `json:"today_reward" yaml:"today_reward"`
}

// PingResult is the outcome of a successful heartbeat call.
type PingResult struct {
	Status    string
	// Connected is true when the gateway answered status "ok".
	Connected bool
}

// NewPingResult builds a PingResult from the raw status string.
func NewPingResult(status string) PingResult {
	return PingResult{
		Status:    status,
		Connected: strings.EqualFold(status, "ok"),
	}
}

// NodeClient is the per-account gateway surface.
// Implementations are safe for concurrent use.
type NodeClient interface {
	ListNodes(ctx context.Context) ([]NodeDescriptor, error)
	RegisterNode(ctx context.Context, id NodeID, hardwareID, ip string) error
	StartSession(ctx context.Context, id NodeID) error
	StopSession(ctx context.Context, id NodeID) error
	Ping(ctx context.Context, id NodeID, ip string) (PingResult, error)
}

// Binding is what the registry stores for a claimed node: the client
// bound to the owning account and the address reported for the node.
type Binding struct {
	// Account is the owning account's label (never the credential).
	Account string
	Client  NodeClient
	// Addr is the proxy's externally visible address, empty without a proxy.
	Addr    string
}
