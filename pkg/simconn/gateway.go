package simconn

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultGatewayURL is the SimConnect gateway's default endpoint.
	DefaultGatewayURL = "http://127.0.0.1:8765"

	// DefaultPollHz is the default target fetch rate. The display frame
	// rate is typically much higher; between real fetches Poll serves the
	// cached snapshot.
	DefaultPollHz = 2.0

	// gatewayTimeout bounds a single HTTP request to the gateway.
	gatewayTimeout = 5 * time.Second
)

// GatewayClient implements Source against a SimConnect gateway: a small
// bridge process on the simulator host that exposes the AI traffic table as
// JSON over HTTP.
type GatewayClient struct {
	baseURL    string
	httpClient *http.Client

	// limiter gates real fetches to the configured poll rate. Allow() is
	// non-blocking, so a throttled Poll falls through to the cache without
	// touching the network.
	limiter *rate.Limiter

	mu        sync.Mutex
	cache     []Target
	connected bool
	lastError string
}

// NewGatewayClient creates a gateway source polling at pollHz. A pollHz of
// zero or less falls back to DefaultPollHz.
func NewGatewayClient(baseURL string, pollHz float64) *GatewayClient {
	if baseURL == "" {
		baseURL = DefaultGatewayURL
	}
	if pollHz <= 0 {
		pollHz = DefaultPollHz
	}
	return &GatewayClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: gatewayTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(pollHz), 1),
	}
}

// gatewayResponse is the JSON payload of GET /api/v1/targets.
type gatewayResponse struct {
	Targets []Target `json:"targets"`
}

// Connect verifies the gateway is reachable. The gateway itself owns the
// SimConnect session; a reachable gateway counts as connected even when the
// simulator has no AI traffic spawned yet.
func (c *GatewayClient) Connect() error {
	resp, err := c.httpClient.Get(c.baseURL + "/api/v1/status")
	if err != nil {
		c.setDisconnected(fmt.Sprintf("gateway unreachable: %v", err))
		return fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		msg := fmt.Sprintf("gateway status %d: %s", resp.StatusCode, string(body))
		c.setDisconnected(msg)
		return fmt.Errorf("%s", msg)
	}

	c.mu.Lock()
	c.connected = true
	c.lastError = ""
	c.mu.Unlock()
	return nil
}

// Poll returns the current target snapshot. Within the throttle window, or
// while disconnected, it returns the cached snapshot without a network
// round trip. A fetch failure demotes the source to disconnected and keeps
// the cache; recovery requires an explicit Connect.
func (c *GatewayClient) Poll() []Target {
	c.mu.Lock()
	if !c.connected {
		cached := c.cache
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	if !c.limiter.Allow() {
		c.mu.Lock()
		cached := c.cache
		c.mu.Unlock()
		return cached
	}

	targets, err := c.fetch()
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.connected = false
		c.lastError = err.Error()
		return c.cache
	}
	c.cache = targets
	return targets
}

func (c *GatewayClient) fetch() ([]Target, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/api/v1/targets")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch targets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}
	return payload.Targets, nil
}

// Connected reports the connection state.
func (c *GatewayClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// LastError returns the most recent failure message.
func (c *GatewayClient) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Close shuts the client down. The gateway holds no per-client state, so
// this only drops the cached snapshot.
func (c *GatewayClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.cache = nil
	return nil
}

func (c *GatewayClient) setDisconnected(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.lastError = msg
}
