package domain

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Account is one configured credential and its optional proxy.
type Account struct {
	Token string `koanf:"token" yaml:"token" json:"token"`
	// Proxy is "socks5://..." / "socks5h://..." for a SOCKS proxy, or an
	// HTTP proxy with or without scheme. Credentials may be embedded.
	Proxy string `koanf:"proxy" yaml:"proxy,omitempty" json:"proxy,omitempty"`
}

// Label returns a stable, non-reversible name for the account so logs
// and metrics never carry the credential.
func (a Account) Label() string {
	sum := blake2b.Sum256([]byte(a.Token))
	return "acct-" + hex.EncodeToString(sum[:4])
}

// HasProxy reports whether the account routes through a proxy.
func (a Account) HasProxy() bool {
	return strings.TrimSpace(a.Proxy) != ""
}
