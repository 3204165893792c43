package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/blessfleet/internal/core/domain"
	"github.com/yndnr/blessfleet/internal/telemetry/logger"
	"github.com/yndnr/blessfleet/internal/telemetry/metric"
)

// maxErrorBody bounds how much of a failed response is kept in errors.
const maxErrorBody = 256

// Observer receives one call per gateway request. *metric.Fleet
// implements it.
type Observer interface {
	ObserveCall(op string, err error, d time.Duration)
}

// Client talks to the gateway on behalf of one account.
// It is safe for concurrent use and implements domain.NodeClient.
type Client struct {
	cfg      Config
	baseURL  string
	token    string
	http     *http.Client
	limiter  *rate.Limiter
	observer Observer
	log      logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithObserver sets the call observer.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a Client for token. Without WithHTTPClient it dials
// directly (or through the environment's proxy).
func New(cfg Config, token string, opts ...Option) *Client {
	c := &Client{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   token,
		log:     logger.Default(),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = NewHTTPClient(nil, nil)
	}
	return c
}

// apiResponse is the body of register, session and ping responses.
type apiResponse struct {
	Status *string `json:"status"`
}

func (r apiResponse) status() string {
	if r.Status == nil {
		return "UNKNOWN"
	}
	return *r.Status
}

// nodeResponse is one element of GET /nodes.
type nodeResponse struct {
	PubKey      string  `json:"pubKey"`
	HardwareID  string  `json:"hardwareId"`
	IPAddress   *string `json:"ipAddress"`
	IsConnected bool    `json:"isConnected"`
	TotalReward float64 `json:"totalReward"`
	TodayReward float64 `json:"todayReward"`
}

func (n nodeResponse) descriptor() domain.NodeDescriptor {
	d := domain.NodeDescriptor{
		PubKey:      domain.NodeID(n.PubKey),
		HardwareID:  n.HardwareID,
		IsConnected: n.IsConnected,
		TotalReward: n.TotalReward,
		TodayReward: n.TodayReward,
	}
	if n.IPAddress != nil {
		d.IPAddress = *n.IPAddress
	}
	return d
}

// ListNodes returns the account's nodes.
func (c *Client) ListNodes(ctx context.Context) ([]domain.NodeDescriptor, error) {
	var nodes []nodeResponse
	if err := c.call(ctx, metric.OpListNodes, http.MethodGet, "/nodes", nil, &nodes); err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}

	out := make([]domain.NodeDescriptor, 0, len(nodes))
	for _, n := range nodes {
		if n.PubKey == "" {
			continue
		}
		out = append(out, n.descriptor())
	}
	return out, nil
}

// RegisterNode registers id with its hardware id. A non-empty ip is
// reported as the node's address.
func (c *Client) RegisterNode(ctx context.Context, id domain.NodeID, hardwareID, ip string) error {
	body := map[string]string{"hardwareId": hardwareID}
	if ip != "" {
		body["ipAddress"] = ip
	}

	var resp apiResponse
	if err := c.call(ctx, metric.OpRegister, http.MethodPost, nodePath(id, ""), body, &resp); err != nil {
		return fmt.Errorf("register node: %w", err)
	}
	c.log.Debug("registration response", "node_id", id, "status", resp.status())
	return nil
}

// StartSession opens a session for id. The gateway may take a while, so
// the request is bounded by SessionTimeout instead of Timeout.
func (c *Client) StartSession(ctx context.Context, id domain.NodeID) error {
	var resp apiResponse
	if err := c.call(ctx, metric.OpStartSession, http.MethodPost, nodePath(id, "start-session"), nil, &resp); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	c.log.Debug("start session response", "node_id", id, "status", resp.status())
	return nil
}

// StopSession closes id's session. An empty response body is accepted.
func (c *Client) StopSession(ctx context.Context, id domain.NodeID) error {
	if err := c.call(ctx, metric.OpStopSession, http.MethodPost, nodePath(id, "stop-session"), nil, nil); err != nil {
		return fmt.Errorf("stop session: %w", err)
	}
	return nil
}

// Ping sends one heartbeat for id. ip is the address the node is
// reported under; the gateway infers it from the connection, so it is
// logged rather than sent.
func (c *Client) Ping(ctx context.Context, id domain.NodeID, ip string) (domain.PingResult, error) {
	c.log.Debug("pinging node", "node_id", id, "addr", displayAddr(ip))

	var resp apiResponse
	if err := c.call(ctx, metric.OpPing, http.MethodPost, nodePath(id, "ping"), nil, &resp); err != nil {
		return domain.PingResult{}, fmt.Errorf("ping: %w", err)
	}
	c.log.Debug("ping response", "node_id", id, "status", resp.status(), "addr", displayAddr(ip))
	return domain.NewPingResult(resp.status()), nil
}

func displayAddr(ip string) string {
	if ip == "" {
		return "direct"
	}
	return ip
}

// DiscoverAddress asks the IP echo service which address the gateway
// will see for this client. Used once per proxied account.
func (c *Client) DiscoverAddress(ctx context.Context) (string, error) {
	var resp struct {
		IP string `json:"ip"`
	}
	if err := c.callURL(ctx, metric.OpDiscoverAddr, http.MethodGet, c.cfg.IPEchoURL, nil, &resp, false); err != nil {
		return "", fmt.Errorf("discover address: %w", err)
	}
	if resp.IP == "" {
		return "", fmt.Errorf("discover address: %w", domain.ErrParse.WithDetails("empty ip"))
	}
	return resp.IP, nil
}

func nodePath(id domain.NodeID, action string) string {
	p := "/nodes/" + url.PathEscape(id.String())
	if action != "" {
		p += "/" + action
	}
	return p
}

// timeoutFor bounds one request of op, excluding any limiter wait.
func (c *Client) timeoutFor(op string) time.Duration {
	if op == metric.OpStartSession && c.cfg.SessionTimeout > 0 {
		return c.cfg.SessionTimeout
	}
	return c.cfg.Timeout
}

func (c *Client) call(ctx context.Context, op, method, path string, body, target any) error {
	return c.callURL(ctx, op, method, c.baseURL+path, body, target, true)
}

// callURL performs one request and decodes the JSON response into target.
// A nil target discards the body.
//
// Session closes bypass the limiter: they are only sent at shutdown,
// under a deadline that a full token bucket would otherwise outlast.
func (c *Client) callURL(ctx context.Context, op, method, rawURL string, body, target any, auth bool) (err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveCall(op, err, time.Since(start))
		}
	}()

	if c.limiter != nil && op != metric.OpStopSession {
		if werr := c.limiter.Wait(ctx); werr != nil {
			return domain.ErrTransport.WithDetails("rate limiter").WithCause(werr)
		}
	}

	if timeout := c.timeoutFor(op); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if body != nil {
		data, merr := json.Marshal(body)
		if merr != nil {
			return fmt.Errorf("marshal body: %w", merr)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ErrTransport.WithCause(err)
	}
	defer resp.Body.Close()

	return parseResponse(resp, target)
}

// parseResponse classifies the status and decodes the body into target.
func parseResponse(resp *http.Response, target any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		base := domain.ErrHTTPStatus
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			base = domain.ErrUnauthorized
		}
		e := base.WithStatus(resp.StatusCode)
		if s := strings.TrimSpace(string(snippet)); s != "" {
			e = e.WithDetails(s)
		}
		return e
	}

	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ErrTransport.WithDetails("read body").WithCause(err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) && len(data) == 0 {
			return domain.ErrParse.WithDetails("empty body")
		}
		return domain.ErrParse.WithCause(err)
	}
	return nil
}
