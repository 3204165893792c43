// Package buildinfo exposes build information injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/blessfleet/internal/infra/buildinfo.Version=v0.2.0 \
//	  -X github.com/yndnr/blessfleet/internal/infra/buildinfo.Commit=abc123"
package buildinfo
