package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/moneygrowth-go/internal/infra/buildinfo"
	"github.com/yndnr/moneygrowth-go/internal/telemetry/logger"
)

// DefaultTimeout bounds each request unless WithTimeout says otherwise.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 8 << 20

// TokenSource supplies the Authorization header for protected calls.
// *session.Store satisfies it.
type TokenSource interface {
	AuthHeader() http.Header
}

// Observer receives one observation per completed call. Status is 0 for
// transport failures.
type Observer interface {
	ObserveRequest(operation string, status int, elapsed time.Duration)
}

// Client calls the backend.
type Client struct {
	baseURL   string
	tokens    TokenSource
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	observer  Observer
	log       logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithTLSConfig sets the TLS configuration, typically custom roots.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = cfg
		c.http.Transport = tr
	}
}

// WithRateLimit spaces requests to at most rps per second with the given
// burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithObserver records per-call metrics.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a client for the backend at baseURL. A missing scheme
// defaults to http://. A trailing "/api" is accepted and not doubled.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/api")

	c := &Client{
		baseURL:   baseURL,
		tokens:    tokens,
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: buildinfo.UserAgent(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Default()
	}
	return c
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIURL returns the root all operation paths hang off.
func (c *Client) APIURL() string {
	return c.baseURL + "/api"
}

// call executes op. params fill path placeholders; query is appended;
// body is JSON encoded for mutating operations, defaulting to {}; out
// receives the decoded 2xx response when non-nil.
func (c *Client) call(ctx context.Context, op Operation, params []string, query url.Values, body, out any) error {
	target := c.APIURL() + op.Expand(params...)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	fail := func(status int, detail string, err error) *Error {
		return &Error{Op: op.Name, Method: op.Method, URL: target, Status: status, Detail: detail, Err: err}
	}

	var bodyReader io.Reader
	if op.Mutating {
		if body == nil {
			body = struct{}{}
		}
		data, err := json.Marshal(body)
		if err != nil {
			return fail(0, "", fmt.Errorf("marshal body: %w", err))
		}
		bodyReader = bytes.NewReader(data)
	}

	// A request ID already on ctx is reused so callers can correlate.
	requestID := logger.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = ulid.Make().String()
		ctx = logger.WithRequestID(ctx, requestID)
	}
	log := logger.L(logger.WithLogger(ctx, c.log)).With("op", op.Name)

	req, err := http.NewRequestWithContext(ctx, op.Method, target, bodyReader)
	if err != nil {
		return fail(0, "", fmt.Errorf("create request: %w", err))
	}
	c.addHeaders(req, op, requestID)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(0, "", fmt.Errorf("rate limit: %w", err))
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(op.Name, 0, time.Since(start))
		log.Debug("api request failed", "method", op.Method, "url", target, "error", err)
		return fail(0, "", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	elapsed := time.Since(start)
	c.observe(op.Name, resp.StatusCode, elapsed)
	log.Debug("api request",
		"method", op.Method,
		"url", target,
		"status", resp.StatusCode,
		"elapsed", elapsed,
		"authorized", req.Header.Get("Authorization") != "")
	if err != nil {
		return fail(resp.StatusCode, "", fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(resp.StatusCode, parseDetail(data), nil)
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fail(resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}

// addHeaders sets common headers and, for protected operations, the
// session's Authorization header.
func (c *Client) addHeaders(req *http.Request, op Operation, requestID string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if op.Protected && c.tokens != nil {
		for k, vs := range c.tokens.AuthHeader() {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}
}

func (c *Client) observe(op string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(op, status, elapsed)
	}
}
