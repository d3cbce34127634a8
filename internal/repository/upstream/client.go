// Package upstream reads snapshot rows and weekly history from another
// instance's read endpoints, behind a circuit breaker.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
	"github.com/sony/gobreaker/v2"
)

const (
	RowsPath    = "/api/divcolabbrows"
	HistoryPath = "/api/weekly-history"

	maxBodyBytes = 32 << 20
)

// Config controls the HTTP client and its breaker.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// MaxFailures consecutive failures open the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before letting a trial request through.
	OpenTimeout time.Duration
}

// Client implements punctuality.RowStore over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewClient builds a client. httpClient may be nil.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	maxFailures := cfg.MaxFailures
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "upstream",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		breaker: breaker,
	}
}

// State reports the breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

type rowsEnvelope struct {
	Rows *[]punctuality.SnapshotRow `json:"rows"`
}

type historyEnvelope struct {
	Items *[]punctuality.WeeklyHistoryItem `json:"items"`
}

func (c *Client) FetchLatestRows(ctx context.Context) ([]punctuality.SnapshotRow, error) {
	body, err := c.get(ctx, RowsPath)
	if err != nil {
		return nil, err
	}

	var env rowsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", punctuality.ErrMalformedResponse, RowsPath, err)
	}
	if env.Rows == nil {
		return nil, fmt.Errorf("%w: %s: missing rows", punctuality.ErrMalformedResponse, RowsPath)
	}
	return *env.Rows, nil
}

func (c *Client) FetchWeeklyHistory(ctx context.Context) ([]punctuality.WeeklyHistoryItem, error) {
	body, err := c.get(ctx, HistoryPath)
	if err != nil {
		return nil, err
	}

	var env historyEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", punctuality.ErrMalformedResponse, HistoryPath, err)
	}
	if env.Items == nil {
		return nil, fmt.Errorf("%w: %s: missing items", punctuality.ErrMalformedResponse, HistoryPath)
	}
	return *env.Items, nil
}

// get returns the body of a successful response. Transport errors and
// non-2xx answers count as breaker failures; the Content-Type is ignored.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path

	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request %s: %w", path, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			io.CopyN(io.Discard, resp.Body, 512)
			return nil, fmt.Errorf("%w: %s: %d", punctuality.ErrUpstreamStatus, path, resp.StatusCode)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: %s: empty body", punctuality.ErrMalformedResponse, path)
	}
	return body, nil
}
