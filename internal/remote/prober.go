package remote

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/gamehub/internal/endpoint"
)

// Reachability is the outcome of a connectivity probe
type Reachability int

const (
	Unreachable Reachability = iota
	Reachable
)

func (r Reachability) String() string {
	if r == Reachable {
		return "reachable"
	}
	return "unreachable"
}

// ProbeResult is the detailed outcome of probing one endpoint
type ProbeResult struct {
	Endpoint     endpoint.Descriptor `json:"endpoint"`
	Reachability Reachability        `json:"-"`
	Status       string              `json:"status"`
	StatusCode   int                 `json:"status_code,omitempty"`
	Latency      time.Duration       `json:"latency"`
	Error        string              `json:"error,omitempty"`
}

// Prober issues short health checks against endpoints
type Prober struct {
	client  *resty.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewProber creates a new prober
func NewProber(client *resty.Client, cfg Config, logger *slog.Logger) *Prober {
	timeout := cfg.ProbeTimeout
	if timeout <= 0 {
		timeout = ProbeTimeout
	}
	return &Prober{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

// Probe reports whether ep answers at all. Any HTTP answer below 500
// counts as reachable; a transport failure, timeout or 5xx does not.
func (p *Prober) Probe(ctx context.Context, ep endpoint.Descriptor) Reachability {
	return p.probe(ctx, ep).Reachability
}

// ProbeAll probes every endpoint concurrently and returns results in input order
func (p *Prober) ProbeAll(ctx context.Context, eps []endpoint.Descriptor) []ProbeResult {
	results := make([]ProbeResult, len(eps))

	g, gctx := errgroup.WithContext(ctx)
	for i, ep := range eps {
		g.Go(func() error {
			results[i] = p.probe(gctx, ep)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// AnyReachable probes eps in order and stops at the first reachable one
func (p *Prober) AnyReachable(ctx context.Context, eps []endpoint.Descriptor) bool {
	for _, ep := range eps {
		if ctx.Err() != nil {
			return false
		}
		if p.Probe(ctx, ep) == Reachable {
			return true
		}
	}
	return false
}

func (p *Prober) probe(ctx context.Context, ep endpoint.Descriptor) ProbeResult {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.client.R().SetContext(probeCtx).Get(ep.BaseURL)
	result := ProbeResult{
		Endpoint: ep,
		Latency:  time.Since(start),
	}

	switch {
	case err != nil:
		result.Error = err.Error()
		p.logger.Info("probe failed", "endpoint", ep.Name, "url", ep.BaseURL, "error", err, "latency", result.Latency)
	case resp.StatusCode() >= 500:
		result.StatusCode = resp.StatusCode()
		p.logger.Info("probe failed", "endpoint", ep.Name, "url", ep.BaseURL, "status", result.StatusCode, "latency", result.Latency)
	default:
		result.StatusCode = resp.StatusCode()
		result.Reachability = Reachable
		p.logger.Debug("probe succeeded", "endpoint", ep.Name, "url", ep.BaseURL, "status", result.StatusCode, "latency", result.Latency)
	}

	result.Status = result.Reachability.String()
	return result
}
