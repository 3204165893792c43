package gateway

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/yndnr/blessfleet/internal/core/domain"
	"github.com/yndnr/blessfleet/internal/infra/tlsroots"
)

// Connect builds the Client for acct, routing through its proxy when one
// is configured. For proxied accounts the address seen by the gateway is
// discovered once and returned; otherwise addr is empty.
func Connect(ctx context.Context, cfg Config, acct domain.Account, opts ...Option) (*Client, string, error) {
	proxy, err := ParseProxy(acct.Proxy)
	if err != nil {
		return nil, "", domain.ErrInvalidConfig.WithDetails(acct.Label()).WithCause(err)
	}
	tlsConfig, err := loadTLSConfig(cfg.CAFile)
	if err != nil {
		return nil, "", err
	}

	base := []Option{WithHTTPClient(NewHTTPClient(proxy, tlsConfig))}
	c := New(cfg, acct.Token, append(base, opts...)...)
	if proxy == nil {
		return c, "", nil
	}

	addr, err := c.DiscoverAddress(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("account %s: %w", acct.Label(), err)
	}
	return c, addr, nil
}

func loadTLSConfig(caFile string) (*tls.Config, error) {
	if caFile == "" {
		return nil, nil
	}
	pool, err := tlsroots.Load(caFile)
	if err != nil {
		return nil, domain.ErrInvalidConfig.WithDetails("gateway.ca_file").WithCause(err)
	}
	return pool.TLSConfig(), nil
}
