package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yndnr/blessfleet/internal/agent/statusserver"
	"github.com/yndnr/blessfleet/internal/infra/buildinfo"
)

// DefaultTimeout bounds every status request.
const DefaultTimeout = 10 * time.Second

// StatusClient reads a running agent's status endpoint.
type StatusClient struct {
	baseURL string
	client  *http.Client
}

// NewStatusClient creates a client for addr ("host:port" or a full URL).
func NewStatusClient(addr string) *StatusClient {
	baseURL := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	return &StatusClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// BaseURL returns the base URL of the client.
func (c *StatusClient) BaseURL() string {
	return c.baseURL
}

// Health fetches /healthz.
func (c *StatusClient) Health(ctx context.Context) (statusserver.HealthResponse, error) {
	var out statusserver.HealthResponse
	err := c.get(ctx, "/healthz", &out)
	return out, err
}

// Nodes fetches /nodes.
func (c *StatusClient) Nodes(ctx context.Context) (statusserver.NodesResponse, error) {
	var out statusserver.NodesResponse
	err := c.get(ctx, "/nodes", &out)
	return out, err
}

func (c *StatusClient) get(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("agent at %s unreachable: %w", c.baseURL, err)
	}
	return ParseResponse(resp, target)
}

// ParseResponse decodes a JSON response body into target. Non-2xx
// responses become errors carrying the start of the body.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		msg := strings.TrimSpace(string(snippet))
		if msg == "" {
			return fmt.Errorf("request failed with status %d", resp.StatusCode)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, msg)
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
