// Package registry tracks which node identities are currently owned by
// a supervisor.
//
// TryClaim is the single synchronization point that keeps two
// supervisors from managing the same node: it is an atomic
// insert-if-absent on a sharded concurrent map, so callers never lock.
package registry

import (
	"github.com/yndnr/blessfleet/internal/core/domain"
	"github.com/yndnr/blessfleet/pkg/cmap"
)

// Entry is one active node and the binding of the supervisor owning it.
type Entry struct {
	ID      domain.NodeID
	Binding domain.Binding
}

// Registry maps node identities to their active bindings.
// At most one entry exists per identity. Safe for concurrent use.
type Registry struct {
	nodes *cmap.Map[domain.NodeID, domain.Binding]
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{nodes: cmap.New[domain.NodeID, domain.Binding]()}
}

// TryClaim records binding for id if id is not already claimed.
// It returns false, leaving the registry untouched, when another
// supervisor owns id.
func (r *Registry) TryClaim(id domain.NodeID, binding domain.Binding) bool {
	return r.nodes.SetIfAbsent(id, binding)
}

// Release removes id unconditionally.
func (r *Registry) Release(id domain.NodeID) {
	r.nodes.Delete(id)
}

// Get returns the binding claimed for id.
func (r *Registry) Get(id domain.NodeID) (domain.Binding, bool) {
	return r.nodes.Get(id)
}

// Has reports whether id is claimed.
func (r *Registry) Has(id domain.NodeID) bool {
	return r.nodes.Has(id)
}

// Len returns the number of claimed identities.
func (r *Registry) Len() int {
	return r.nodes.Count()
}

// Snapshot copies the current entries. It is weakly consistent: claims
// and releases racing with the copy may or may not be included.
func (r *Registry) Snapshot() []Entry {
	items := r.nodes.Items()
	entries := make([]Entry, len(items))
	for i, it := range items {
		entries[i] = Entry{ID: it.Key, Binding: it.Value}
	}
	return entries
}
