package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/Ashutosh2ingh/AshMart/pkg/metrics"
)

// IdempotencyKeyHeader carries the client-generated key attached to
// non-idempotent order-creation calls.
const IdempotencyKeyHeader = "Idempotency-Key"

const genericErrorMessage = "request failed"

// TokenSource yields the bearer credential for outgoing requests.
// ErrUnauthenticated (possibly wrapped) means no credential is stored.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is the single HTTP door to the storefront API. Every call is a
// fresh round trip; there is no retrying and no response caching. Idempotent
// GETs go through a circuit breaker so a flapping backend fails fast;
// mutating calls bypass it so each one reaches the network exactly once.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
	breaker *gobreaker.CircuitBreaker[[]byte]
	log     *zap.Logger
	metrics *metrics.ClientMetrics
}

type Option func(*Client)

func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

func New(baseURL string, tokens TokenSource, log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tokens: tokens,
		log:    log,
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "storefront-api",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// A 4xx is the server answering; only transport failures
			// and 5xx responses count against the breaker.
			var apiErr *Error
			return errors.As(err, &apiErr) && apiErr.StatusCode < 500
		},
	})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs an idempotent read through the circuit breaker.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, http.MethodGet, path, nil, nil)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("storefront unavailable: %w", err)
		}
		return err
	}
	return decode(body, out)
}

// Post sends a JSON body. Optional headers are attached verbatim.
func (c *Client) Post(ctx context.Context, path string, in, out any, headers http.Header) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	body, err := c.roundTrip(ctx, http.MethodPost, path, payload, headers)
	if err != nil {
		return err
	}
	return decode(body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.roundTrip(ctx, http.MethodDelete, path, nil, nil)
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, headers http.Header) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	start := time.Now()
	res, err := c.httpc.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(path, "transport_error", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.metrics.ObserveRequest(path, strconv.Itoa(res.StatusCode), time.Since(start).Milliseconds())

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		apiErr := &Error{StatusCode: res.StatusCode, Message: serverMessage(body)}
		c.log.Warn("storefront request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", res.StatusCode),
			zap.String("message", apiErr.Message))
		return nil, apiErr
	}

	return body, nil
}

func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		return genericErrorMessage
	}
	return payload.Message
}

func decode(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
