package gateway

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ParseProxy normalizes an account proxy string into a URL.
//
// "socks5://" and "socks5h://" proxies are used as-is. Anything else is
// an HTTP(S) proxy; "http://" is prepended when no scheme is given.
// Credentials may be embedded as user:pass@.
func ParseProxy(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "socks"):
		if !strings.HasPrefix(lower, "socks5://") && !strings.HasPrefix(lower, "socks5h://") {
			return nil, fmt.Errorf("unsupported socks proxy scheme in %q (want socks5 or socks5h)", redactProxy(raw))
		}
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
	default:
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse proxy %q: %w", redactProxy(raw), err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("proxy %q has no host", redactProxy(raw))
	}
	return u, nil
}

// NewHTTPClient builds the http.Client for one account. With a nil
// proxy the environment's proxy settings apply; with a nil tlsConfig the
// system roots are trusted. Request timeouts are set per call by Client.
func NewHTTPClient(proxy *url.URL, tlsConfig *tls.Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxy != nil {
		transport.Proxy = http.ProxyURL(proxy)
	}
	if tlsConfig != nil {
		transport.TLSClientConfig = tlsConfig
	}

	return &http.Client{Transport: transport}
}

// redactProxy hides proxy credentials in error messages.
func redactProxy(raw string) string {
	at := strings.LastIndex(raw, "@")
	if at < 0 {
		return raw
	}
	scheme := ""
	if i := strings.Index(raw, "://"); i >= 0 && i < at {
		scheme = raw[:i+3]
	}
	return scheme + "xxxxx@" + raw[at+1:]
}
