package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nao1215/wikihop/internal/article"
)

// Defaults for a Client.
const (
	// DefaultBaseURL is the English Wikipedia article namespace.
	DefaultBaseURL = "https://en.wikipedia.org/wiki/"

	// RandomEndpoint redirects to a random article.
	RandomEndpoint = "Special:Random"

	// DefaultMaxAttempts is the number of requests sent for one fetch before
	// a transient failure becomes terminal.
	DefaultMaxAttempts = 5

	// DefaultBackoffInterval is the fixed sleep used both after a retryable
	// failure and while waiting for another worker's backoff to end.
	DefaultBackoffInterval = 2 * time.Second

	// DefaultMaxInFlight is the admission pool capacity.
	DefaultMaxInFlight = 32

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize limits how much of a response body is read.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultUserAgent identifies the client to the server.
	DefaultUserAgent = "wikihop/1.0 (+https://github.com/nao1215/wikihop)"
)

// Client fetches and parses articles. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
	parser  *article.Parser
	logger  *slog.Logger

	pool    *AdmissionPool
	backoff *BackoffSignal

	maxAttempts int
	interval    time.Duration
	userAgent   string
	maxBodySize int64

	// options used only while building http when none was supplied
	timeout      time.Duration
	proxyAddress string
	headers      map[string]string

	// sleep waits for d or until ctx ends. Tests replace it.
	sleep func(ctx context.Context, d time.Duration) error

	requests atomic.Int64
	retries  atomic.Int64
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the article namespace URL. It must end with "/".
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient uses the given HTTP client instead of building one.
// WithTimeout, WithProxy and WithHeaders are ignored when it is set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithAdmissionPool shares an existing pool with this client.
func WithAdmissionPool(pool *AdmissionPool) Option {
	return func(c *Client) {
		c.pool = pool
	}
}

// WithMaxInFlight sets the admission pool capacity.
func WithMaxInFlight(n int) Option {
	return func(c *Client) {
		c.pool = NewAdmissionPool(n)
	}
}

// WithMaxAttempts sets the number of attempts for a retryable failure.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBackoffInterval sets the fixed backoff sleep.
func WithBackoffInterval(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.interval = d
		}
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithProxy routes requests through a SOCKS5 proxy at host:port.
func WithProxy(address string) Option {
	return func(c *Client) {
		c.proxyAddress = address
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.headers = headers
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum number of body bytes read per response.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:     DefaultBaseURL,
		maxAttempts: DefaultMaxAttempts,
		interval:    DefaultBackoffInterval,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		timeout:     DefaultTimeout,
		backoff:     &BackoffSignal{},
		sleep:       sleepContext,
	}

	for _, opt := range opts {
		opt(c)
	}

	base, err := url.Parse(c.baseURL)
	if err != nil || !base.IsAbs() || !strings.HasSuffix(c.baseURL, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.baseURL)
	}
	c.parser = article.NewParser(base.EscapedPath())

	if c.pool == nil {
		c.pool = NewAdmissionPool(DefaultMaxInFlight)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.http == nil {
		c.http, err = newHTTPClient(c.timeout, c.proxyAddress, c.pool.Capacity(), c.headers)
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

// BaseURL returns the article namespace URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Pool returns the admission pool.
func (c *Client) Pool() *AdmissionPool {
	return c.pool
}

// BackingOff reports whether any worker using this client is in a backoff sleep.
func (c *Client) BackingOff() bool {
	return c.backoff.Active()
}

// Close shuts down the admission pool. Fetches started afterwards fail with ErrAdmission.
func (c *Client) Close() {
	c.pool.Close()
}

// Stats reports request counters.
type Stats struct {
	// Requests is the number of HTTP requests sent.
	Requests int64

	// Retries is the number of requests sent after a retryable failure.
	Retries int64

	// PeakInFlight is the highest number of concurrent requests observed.
	PeakInFlight int
}

// Stats returns the client's counters.
func (c *Client) Stats() Stats {
	return Stats{
		Requests:     c.requests.Load(),
		Retries:      c.retries.Load(),
		PeakInFlight: c.pool.Peak(),
	}
}

// Random fetches a random article.
func (c *Client) Random(ctx context.Context) (*article.Article, error) {
	return c.Fetch(ctx, RandomEndpoint)
}

// Fetch retrieves and parses the article at endpoint. The returned article's
// Endpoint is the endpoint the server served, which differs from the
// argument when the server redirected.
func (c *Client) Fetch(ctx context.Context, endpoint string) (*article.Article, error) {
	var (
		lastErr    error
		lastStatus int
	)

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.waitForBackoff(ctx); err != nil {
			return nil, &Error{Endpoint: endpoint, Kind: ErrCanceled, Attempts: attempt - 1, Err: err}
		}

		if attempt > 1 {
			c.retries.Add(1)
		}
		doc, status, err := c.attempt(ctx, endpoint)
		if err == nil {
			if doc.Endpoint() != endpoint {
				c.logger.Debug("redirect detected", "endpoint", endpoint, "served", doc.Endpoint())
			}
			return doc, nil
		}

		var terminal *Error
		if errors.As(err, &terminal) {
			terminal.Endpoint = endpoint
			terminal.Attempts = attempt
			return nil, terminal
		}
		if ctx.Err() != nil {
			return nil, &Error{Endpoint: endpoint, Kind: ErrCanceled, Attempts: attempt, Err: ctx.Err()}
		}

		lastErr, lastStatus = err, status
		c.logger.Warn("fetch attempt failed",
			"endpoint", endpoint,
			"attempt", attempt,
			"maxAttempts", c.maxAttempts,
			"error", err,
		)

		if attempt == c.maxAttempts {
			break
		}
		if err := c.backOff(ctx); err != nil {
			return nil, &Error{Endpoint: endpoint, Kind: ErrCanceled, Attempts: attempt, Err: err}
		}
	}

	return nil, &Error{
		Endpoint:   endpoint,
		Kind:       ErrTransient,
		Attempts:   c.maxAttempts,
		StatusCode: lastStatus,
		Err:        lastErr,
	}
}

// attempt sends one request. A returned *Error is terminal; any other
// error is retryable.
func (c *Client) attempt(ctx context.Context, endpoint string) (*article.Article, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, 0, &Error{Kind: ErrTransient, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, br")

	if err := c.pool.Acquire(ctx); err != nil {
		if errors.Is(err, ErrPoolClosed) {
			return nil, 0, &Error{Kind: ErrAdmission, Err: err}
		}
		return nil, 0, &Error{Kind: ErrCanceled, Err: err}
	}
	c.requests.Add(1)
	c.logger.Debug("sending request", "url", req.URL.String())
	resp, err := c.http.Do(req)
	c.pool.Release()
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, resp.StatusCode, &Error{Kind: ErrNotFound, StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024)) //nolint:errcheck // drain for connection reuse
		return nil, resp.StatusCode, &statusError{code: resp.StatusCode}
	}

	served, err := c.servedEndpoint(resp)
	if err != nil {
		return nil, resp.StatusCode, &Error{Kind: ErrOffSite, StatusCode: resp.StatusCode, Err: err}
	}

	body, err := readBody(resp, c.maxBodySize)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	doc, err := c.parser.Parse(served, bytes.NewReader(body))
	if err != nil {
		return nil, resp.StatusCode, &Error{Kind: ErrParse, StatusCode: resp.StatusCode, Err: err}
	}
	return doc, resp.StatusCode, nil
}

// servedEndpoint extracts the endpoint from the final request URL.
func (c *Client) servedEndpoint(resp *http.Response) (string, error) {
	if resp.Request == nil || resp.Request.URL == nil {
		return "", errors.New("response has no request URL")
	}
	final := *resp.Request.URL
	final.Fragment = ""
	final.RawFragment = ""
	s := final.String()

	served, ok := strings.CutPrefix(s, c.baseURL)
	if !ok || served == "" {
		return "", fmt.Errorf("final URL %s is outside %s", s, c.baseURL)
	}
	return served, nil
}

// waitForBackoff sleeps while another worker is backing off.
func (c *Client) waitForBackoff(ctx context.Context) error {
	for c.backoff.Active() {
		if err := c.sleep(ctx, c.interval); err != nil {
			return err
		}
	}
	return nil
}

// backOff raises the shared signal for one interval.
func (c *Client) backOff(ctx context.Context) error {
	c.backoff.Raise()
	defer c.backoff.Lower()
	return c.sleep(ctx, c.interval)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
