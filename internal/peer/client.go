package peer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/servicepi/servicepi-core/internal/infrastructure/config"
)

// Reported health states.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// ErrUnreachable wraps transport-level failures: DNS, refused
// connections, timeouts. Check with errors.Is().
var ErrUnreachable = errors.New("peer: service unreachable")

// Result describes the outcome of a single health probe.
type Result struct {
	// Status is "healthy" for 2xx responses, "unhealthy" otherwise.
	Status string
	// StatusCode is the HTTP status returned by the peer.
	StatusCode int
	// ResponseTime is the round-trip latency in seconds.
	ResponseTime float64
}

// Client probes a fixed peer health URL.
type Client struct {
	http    *resty.Client
	url     string
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a probe client for the configured peer.
//
// Parameters:
//   - cfg: Peer section of the service configuration
//   - logger: Structured logger; must not be nil
//
// Returns:
//   - *Client: Ready to probe; no connection is made until Check
func New(cfg config.PeerConfig, logger *slog.Logger) *Client {
	http := resty.New().
		SetTimeout(cfg.GetTimeout()).
		SetHeader("User-Agent", "servicepi-core")

	return &Client{
		http:    http,
		url:     cfg.HealthURL,
		timeout: cfg.GetTimeout(),
		logger:  logger,
	}
}

// URL returns the probed health endpoint.
func (c *Client) URL() string {
	return c.url
}

// Check performs one health probe against the peer.
//
// A response of any HTTP status is a successful probe: 2xx maps to
// "healthy", everything else to "unhealthy". Only transport failures
// (unreachable host, timeout) return an error, wrapped in
// ErrUnreachable.
//
// Parameters:
//   - ctx: Cancels the probe early; the configured timeout still applies
//
// Returns:
//   - Result: Probe outcome with latency
//   - error: ErrUnreachable-wrapped transport failure, nil otherwise
func (c *Client) Check(ctx context.Context) (Result, error) {
	start := time.Now()

	resp, err := c.http.R().SetContext(ctx).Get(c.url)
	elapsed := time.Since(start)

	if err != nil {
		c.logger.Warn("peer probe failed",
			"url", c.url,
			"elapsed_ms", elapsed.Milliseconds(),
			"error", err)
		return Result{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	result := Result{
		Status:       StatusUnhealthy,
		StatusCode:   resp.StatusCode(),
		ResponseTime: elapsed.Seconds(),
	}
	if resp.StatusCode() >= 200 && resp.StatusCode() < 300 {
		result.Status = StatusHealthy
	}

	c.logger.Debug("peer probe complete",
		"url", c.url,
		"status_code", result.StatusCode,
		"elapsed_ms", elapsed.Milliseconds())

	return result, nil
}
