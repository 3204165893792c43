// Package domain defines the node fleet model shared by the gateway
// client, the registry, the supervisors and the fleet coordinator.
//
// Core types:
//   - NodeDescriptor: a node as reported by the gateway's node list
//   - Account: one credential plus its optional outbound proxy
//   - Binding: the client context a supervisor holds for its node
//   - NodeClient: the gateway operations a supervisor consumes
//
// Errors are DomainError values with stable codes (see errors.go).
package domain
