package benchmark

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/yndnr/blessfleet/internal/core/domain"
	"github.com/yndnr/blessfleet/internal/core/registry"
	"github.com/yndnr/blessfleet/internal/gateway/gatewaytest"
)

// FleetSizes defines the fleet sizes for benchmarking.
var FleetSizes = []int{100, 1000, 10000}

// nodeIDs returns count distinct node identities.
func nodeIDs(count int) []domain.NodeID {
	ids := make([]domain.NodeID, count)
	for i := range ids {
		ids[i] = domain.NodeID(fmt.Sprintf("12D3KooW-bench-%06d", i))
	}
	return ids
}

func testBinding() domain.Binding {
	return domain.Binding{Account: "acct-bench", Client: &gatewaytest.Client{}}
}

// prefillRegistry claims every id.
func prefillRegistry(ids []domain.NodeID) *registry.Registry {
	reg := registry.New()
	b := testBinding()
	for _, id := range ids {
		reg.TryClaim(id, b)
	}
	return reg
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
}

// runWithFleetSizes runs a benchmark function for each fleet size.
func runWithFleetSizes(b *testing.B, benchFn func(b *testing.B, size int)) {
	for _, size := range FleetSizes {
		b.Run(fmt.Sprintf("nodes_%d", size), func(b *testing.B) {
			benchFn(b, size)
		})
	}
}
