package rapidapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/yourorg/lead-scout/internal/logger"
	"golang.org/x/time/rate"
)

const maxPayload = 4 << 20

// StatusError is a non-2xx answer from a provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d", e.Code)
}

type ClientOptions struct {
	// Timeout bounds one provider call, including any retries.
	Timeout time.Duration
	// RetryMax is the retry budget per call. The fallback chain relies on it
	// being 0 so that each provider is hit exactly once per search.
	RetryMax int
	// RPS paces outbound calls across all providers; <= 0 disables pacing.
	RPS    float64
	Logger zerolog.Logger
}

// Client performs the authenticated GETs every RapidAPI-hosted provider shares.
type Client struct {
	key     string
	http    *retryablehttp.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

func NewClient(apiKey string, opts ClientOptions) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = opts.RetryMax
	if rc.RetryMax < 0 {
		rc.RetryMax = 0
	}
	// hand non-2xx responses back instead of "giving up after N attempts"
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = logger.Retryable(opts.Logger)
	rc.HTTPClient.Timeout = opts.Timeout
	if rc.HTTPClient.Timeout <= 0 {
		rc.HTTPClient.Timeout = 8 * time.Second
	}

	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	return &Client{
		key:     apiKey,
		http:    rc,
		limiter: rate.NewLimiter(limit, 1),
		log:     opts.Logger.With().Str("component", "rapidapi").Logger(),
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c != nil && c.key != "" }

// Fetch issues req against p and returns the raw body.
func (c *Client) Fetch(ctx context.Context, p Provider, req Request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	cfg := p.Config()
	u := req.URL(cfg)
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	hreq, err := retryablehttp.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, err
	}
	hreq.Header.Set("accept", "application/json")
	hreq.Header.Set(cfg.KeyHeader, c.key)
	hreq.Header.Set(cfg.HostHeader, cfg.Host)

	start := time.Now()
	resp, err := c.http.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	c.log.Debug().
		Str("provider", cfg.Name).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("provider call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := ioReadAllLimit(resp.Body, 2048)
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return ioReadAllLimit(resp.Body, maxPayload)
}

func ioReadAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}
