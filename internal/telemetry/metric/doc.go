// Package metric provides the Prometheus metrics of the node fleet.
//
// Metrics (namespace "blessfleet"):
//
//   - gateway_calls_total{op,result} and gateway_call_duration_seconds{op}
//   - claims_total{result}: registry claims, "claimed" or "duplicate"
//   - restarts_total{reason}: supervisor restart cycles by failure kind
//   - heartbeats_total{result}
//   - supervisors_running: live supervisor goroutines
//   - active_nodes: registry entries (gauge func)
//   - sessions_closed_total{result}: shutdown session closes
//
// A nil *Fleet is valid and records nothing, so components can be built
// without metrics in tests.
package metric
