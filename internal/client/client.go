// Package client is the HTTP client of the inkwell dashboard API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"inkwell/internal/models"
)

var (
	// ErrServer marks 5xx responses and undecodable success bodies.
	ErrServer = errors.New("server error")

	// ErrRequest marks 4xx responses. These are never retried.
	ErrRequest = errors.New("request rejected")
)

const (
	defaultRetries = 3
	defaultBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
	defaultTimeout = 15 * time.Second
)

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Code)
	}
	return fmt.Sprintf("http %d: %s", e.Code, e.Message)
}

// Is lets errors.Is classify the status as ErrServer or ErrRequest.
func (e *StatusError) Is(target error) bool {
	if e.Code >= http.StatusInternalServerError {
		return target == ErrServer
	}
	return target == ErrRequest
}

// Client calls the API at a base URL.
type Client struct {
	baseURL    string
	http       *http.Client
	maxRetries uint64
	backoff    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetries sets how many times a failed call is retried and the first
// backoff interval, which doubles on each attempt.
func WithRetries(n uint64, base time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = n
		c.backoff = base
	}
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: defaultTimeout},
		maxRetries: defaultRetries,
		backoff:    defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DashboardStats fetches the statistics snapshot. Transport failures and
// 5xx answers are retried with exponential backoff; 4xx answers are not.
func (c *Client) DashboardStats(ctx context.Context) (*models.StatsSnapshot, error) {
	b := retry.WithCappedDuration(maxBackoff, retry.NewExponential(c.backoff))
	b = retry.WithMaxRetries(c.maxRetries, b)

	snap, err := retry.DoValue(ctx, b, func(ctx context.Context) (*models.StatsSnapshot, error) {
		snap, err := c.getStats(ctx)
		if err == nil {
			return snap, nil
		}
		var se *StatusError
		if errors.As(err, &se) && !errors.Is(se, ErrServer) {
			return nil, err
		}
		if errors.Is(err, errUndecodable) {
			return nil, err
		}
		return nil, retry.RetryableError(err)
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return snap, nil
}

var errUndecodable = fmt.Errorf("%w: undecodable response", ErrServer)

func (c *Client) getStats(ctx context.Context) (*models.StatsSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/dashboard/stats", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var snap models.StatsSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %w", errUndecodable, err)
	}
	return &snap, nil
}

func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(raw, &body) != nil {
		body.Error = strings.TrimSpace(string(raw))
	}
	return &StatusError{Code: resp.StatusCode, Message: body.Error}
}
