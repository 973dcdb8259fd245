package gtfsrt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/config"
)

// Fetch results reported to an Observer
const (
	ResultOK          = "ok"
	ResultFetchError  = "fetch_error"
	ResultDecodeError = "decode_error"
)

// ErrNoSource is returned when no trip-updates URL or path is configured
var ErrNoSource = errors.New("no GTFS-RT trip updates source configured")

// Observer is notified of every trip-updates fetch
type Observer interface {
	ObserveFeedFetch(result string, elapsed time.Duration)
}

// Client fetches the GTFS-RT trip-updates feed from an HTTP endpoint or,
// for offline runs, a local file.
type Client struct {
	httpClient   *http.Client
	source       string
	apiKeyHeader string
	apiKey       string
	timeout      time.Duration
	observer     Observer
}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver registers an Observer for fetch outcomes
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient creates a trip-updates client from configuration
func NewClient(cfg config.GTFSRTConfig, opts ...Option) *Client {
	c := &Client{
		source:       cfg.TripUpdatesURL,
		apiKeyHeader: cfg.APIKeyHeader,
		apiKey:       cfg.APIKey,
		timeout:      cfg.Timeout(),
	}
	if c.apiKeyHeader == "" {
		c.apiKeyHeader = config.DefaultAPIKeyHeader
	}
	for _, o := range opts {
		o(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

// Source returns the configured URL or file path
func (c *Client) Source() string { return c.source }

// Fetch returns the raw feed payload. Non-HTTP sources are read from disk.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	if c.source == "" {
		return nil, ErrNoSource
	}
	if !strings.HasPrefix(c.source, "http://") && !strings.HasPrefix(c.source, "https://") {
		return os.ReadFile(c.source)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.source, nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set(c.apiKeyHeader, c.apiKey)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trip updates: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from trip updates endpoint", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// TripUpdates fetches and decodes the feed. It never fails: any error is
// logged and returned inside an unavailable Feed.
func (c *Client) TripUpdates(ctx context.Context) Feed {
	start := time.Now()
	b, err := c.Fetch(ctx)
	if err != nil {
		c.observe(ResultFetchError, start)
		log.Printf("trip updates unavailable: %v", err)
		return Unavailable(err)
	}
	updates, ts, err := ParseTripUpdates(b)
	if err != nil {
		c.observe(ResultDecodeError, start)
		log.Printf("trip updates unavailable: %v", err)
		return Unavailable(err)
	}
	c.observe(ResultOK, start)
	return Feed{Updates: updates, Timestamp: ts, FetchedAt: time.Now()}
}

func (c *Client) observe(result string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveFeedFetch(result, time.Since(start))
	}
}
