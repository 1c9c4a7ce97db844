// SPDX-License-Identifier: MIT

// Package arte is a catalog and stream-resolution client for the Arte.tv
// EMAC (catalog) and Player (configuration) APIs.
package arte

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/ManuGH/arteloo/internal/cache"
	xglog "github.com/ManuGH/arteloo/internal/log"
	"github.com/ManuGH/arteloo/internal/metrics"
	"github.com/ManuGH/arteloo/internal/platform/httpx"
	"github.com/ManuGH/arteloo/internal/resilience"
	"github.com/ManuGH/arteloo/internal/telemetry"
)

const (
	DefaultEMACBaseURL   = "https://www.arte.tv/api/rproxy/emac/v4"
	DefaultPlayerBaseURL = "https://api.arte.tv/api/player/v2"
	DefaultLanguage      = "fr"
	DefaultCountry       = "FR"
	DefaultUserAgent     = "Stremio-Arte-Addon/1.0"
	DefaultCacheTTL      = 30 * time.Minute
	DefaultTimeout       = 15 * time.Second
	DefaultMaxZonePages  = 10
	DefaultFlightTimeout = 2 * time.Minute
	DefaultRateLimit     = 10
	DefaultRateBurst     = 20

	// HomePageID is the EMAC page code of the homepage.
	HomePageID = "HOME"

	maxBodyBytes  = 16 << 20
	maxErrorBytes = 512
)

// Cache keys. Category, metadata and collection keys carry the identifier as suffix.
const (
	keyHomepage         = "homepage"
	keyCategoryPrefix   = "category_"
	keyMetaPrefix       = "meta_"
	keyCollectionPrefix = "collection_"
	keyLive             = "live"
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	EMACBaseURL   string
	PlayerBaseURL string
	Language      string
	Country       string
	UserAgent     string
	Timeout       time.Duration
	CacheTTL      time.Duration
	// FlightTimeout bounds one shared fetch-and-derive run, pagination included.
	FlightTimeout time.Duration
	// MaxZonePages caps the pages fetched per zone, page one included.
	MaxZonePages int
	// RateLimit is the upstream request rate in requests per second. Negative disables limiting.
	RateLimit float64
	RateBurst int
	// Breaker guards upstream calls. Nil builds one with default thresholds.
	Breaker *resilience.CircuitBreaker
	Tracing bool
	Logger  *zerolog.Logger
}

// Client fetches, normalizes and caches Arte catalog data. It is safe for
// concurrent use.
type Client struct {
	emacBase   string
	playerBase string
	lang       string
	country    string
	http       *http.Client
	memo       *cache.Memo
	ttl        time.Duration
	maxPages   int
	limiter    *rate.Limiter
	breaker    *resilience.CircuitBreaker
	logger     zerolog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// New builds a client caching into store. A nil store disables caching.
func New(store cache.Cache, opts Options) *Client {
	logger := xglog.WithComponent("arte")
	if opts.Logger != nil {
		logger = opts.Logger.With().Str(xglog.FieldComponent, "arte").Logger()
	}

	c := &Client{
		emacBase:   strings.TrimRight(orDefault(opts.EMACBaseURL, DefaultEMACBaseURL), "/"),
		playerBase: strings.TrimRight(orDefault(opts.PlayerBaseURL, DefaultPlayerBaseURL), "/"),
		lang:       orDefault(opts.Language, DefaultLanguage),
		country:    orDefault(opts.Country, DefaultCountry),
		memo:       cache.NewMemo(store, logger, cache.WithFlightTimeout(orDuration(opts.FlightTimeout, DefaultFlightTimeout))),
		ttl:        opts.CacheTTL,
		maxPages:   opts.MaxZonePages,
		breaker:    opts.Breaker,
		logger:     logger,
		tracer:     telemetry.Tracer("arteloo/arte"),
		now:        time.Now,
	}
	if c.ttl <= 0 {
		c.ttl = DefaultCacheTTL
	}
	if c.maxPages <= 0 {
		c.maxPages = DefaultMaxZonePages
	}
	if c.breaker == nil {
		c.breaker = NewBreaker(0, 0)
	}

	switch {
	case opts.RateLimit == 0:
		burst := opts.RateBurst
		if burst <= 0 {
			burst = DefaultRateBurst
		}
		c.limiter = rate.NewLimiter(rate.Limit(DefaultRateLimit), burst)
	case opts.RateLimit > 0:
		burst := opts.RateBurst
		if burst <= 0 {
			burst = int(opts.RateLimit) + 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	c.http = httpx.NewClient(httpx.Config{
		Timeout: orDuration(opts.Timeout, DefaultTimeout),
		Headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": orDefault(opts.UserAgent, DefaultUserAgent),
		},
		Tracing: opts.Tracing,
	})
	return c
}

// NewBreaker returns the circuit breaker used for upstream calls. Only
// transport failures, timeouts and 5xx answers count toward opening it.
func NewBreaker(threshold int, reset time.Duration) *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker("arte", threshold, reset,
		resilience.WithFailurePredicate(countsAsOutage))
}

// Breaker exposes the upstream circuit breaker for health reporting.
func (c *Client) Breaker() *resilience.CircuitBreaker {
	return c.breaker
}

// Cache exposes the backing store for statistics.
func (c *Client) Cache() cache.Cache {
	return c.memo.Store()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func orDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func (c *Client) query(extra url.Values) string {
	q := url.Values{"authorizedCountry": {c.country}}
	for k, v := range extra {
		q[k] = v
	}
	return q.Encode()
}

func (c *Client) pageURL(pageID string) string {
	return fmt.Sprintf("%s/%s/web/pages/%s/?%s", c.emacBase, c.lang, url.PathEscape(pageID), c.query(nil))
}

func (c *Client) zoneURL(zoneCode, pageID string, page int) string {
	return fmt.Sprintf("%s/%s/web/zones/%s/content?%s", c.emacBase, c.lang, url.PathEscape(zoneCode),
		c.query(url.Values{"page": {strconv.Itoa(page)}, "pageId": {pageID}}))
}

func (c *Client) collectionURL(collectionID string) string {
	return fmt.Sprintf("%s/%s/web/collections/%s/?%s", c.emacBase, c.lang, url.PathEscape(collectionID), c.query(nil))
}

func (c *Client) configURL(programID string) string {
	return fmt.Sprintf("%s/config/%s/%s", c.playerBase, c.lang, url.PathEscape(programID))
}

// getJSON performs one rate-limited, breaker-guarded GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, out any) error {
	start := time.Now()
	logger := xglog.WithContext(ctx, c.logger).With().
		Str(xglog.FieldEndpoint, endpoint).
		Str(xglog.FieldURL, rawURL).
		Logger()

	err := c.fetch(ctx, endpoint, rawURL, out)
	elapsed := time.Since(start)
	metrics.ObserveUpstream(endpoint, resultLabel(err), elapsed)

	if err != nil {
		logger.Debug().Err(err).
			Str(xglog.FieldEvent, "upstream.failed").
			Int64(xglog.FieldDurationMS, elapsed.Milliseconds()).
			Msg("upstream request failed")
		return err
	}
	logger.Debug().
		Str(xglog.FieldEvent, "upstream.ok").
		Int64(xglog.FieldDurationMS, elapsed.Milliseconds()).
		Msg("upstream request completed")
	return nil
}

func (c *Client) fetch(ctx context.Context, op, rawURL string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return transportError(ctx, op, err)
		}
	}

	err := c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return &APIError{Sentinel: ErrUpstreamBadResponse, Operation: op, Err: err}
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return transportError(ctx, op, err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
			return &APIError{
				Sentinel:  statusSentinel(resp.StatusCode),
				Operation: op,
				Status:    resp.StatusCode,
				Body:      strings.TrimSpace(string(snippet)),
			}
		}

		if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
			if ctx.Err() != nil {
				return transportError(ctx, op, err)
			}
			return &APIError{Sentinel: ErrUpstreamBadResponse, Operation: op, Status: resp.StatusCode, Err: err}
		}
		return nil
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("arte: %s: %w", op, err)
	}
	return err
}
