package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"
)

// DefaultGamezopBaseURL is the public Gamezop publisher API
const DefaultGamezopBaseURL = "https://pub.gamezop.com"

// DefaultPartnerID is used when no Gamezop partner id is configured
const DefaultPartnerID = "gamehub"

// gamezopVersions are tried in order; the first usable answer wins
var gamezopVersions = []string{"v3", "v2"}

// GamezopConfig configures the third-party catalog client
type GamezopConfig struct {
	BaseURL   string
	PartnerID string
	Timeout   time.Duration
}

// GamezopClient fetches the live catalog from Gamezop
type GamezopClient struct {
	baseURL   string
	partnerID string
	timeout   time.Duration
	client    *fasthttp.Client
	logger    *slog.Logger
}

// NewGamezopClient creates a new Gamezop client
func NewGamezopClient(cfg GamezopConfig, logger *slog.Logger) *GamezopClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGamezopBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &GamezopClient{
		baseURL:   cfg.BaseURL,
		partnerID: cfg.PartnerID,
		timeout:   cfg.Timeout,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxIdleConnDuration: time.Minute,
		},
		logger: logger,
	}
}

// ListGames returns the live catalog in the requested language
func (c *GamezopClient) ListGames(ctx context.Context, lang string) ([]LiveGame, error) {
	if lang == "" {
		lang = "en"
	}

	var errs []error
	for _, version := range gamezopVersions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		u := fmt.Sprintf("%s/%s/games?id=%s&lang=%s",
			c.baseURL, version, url.QueryEscape(c.partnerID), url.QueryEscape(lang))

		games, err := c.fetch(ctx, u)
		if err != nil {
			c.logger.Info("gamezop request failed", "version", version, "url", u, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", version, err))
			continue
		}

		c.logger.Debug("gamezop catalog loaded", "version", version, "games", len(games))
		return games, nil
	}

	return nil, fmt.Errorf("gamezop catalog unavailable: %w", errors.Join(errs...))
}

type fetchResult struct {
	games []LiveGame
	err   error
}

// fetch returns as soon as ctx is cancelled; the abandoned request still
// ends at its deadline and releases its buffers then
func (c *GamezopClient) fetch(ctx context.Context, u string) ([]LiveGame, error) {
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	done := make(chan fetchResult, 1)
	go func() {
		games, err := c.do(u, deadline)
		done <- fetchResult{games: games, err: err}
	}()

	select {
	case r := <-done:
		return r.games, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *GamezopClient) do(u string, deadline time.Time) ([]LiveGame, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(u)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, err
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("API error: %d", resp.StatusCode())
	}

	return DecodeLive(resp.Body())
}
