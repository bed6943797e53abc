// Package api is the single pre-configured client every storefront feature
// uses to talk to the backend REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/nayra_storefront/pkg/circuitbreaker"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const maxResponseBody = 4 << 20 // 4MB

type Options struct {
	BaseURL string
	Timeout time.Duration
	// Jar carries the session cookies; requests are always credentialed.
	Jar       http.CookieJar
	Transport http.RoundTripper
	// Breaker enables fail-fast when the backend keeps returning 5xx.
	Breaker *circuitbreaker.Settings
	Logger  *zap.Logger
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("api: base url is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if opts.Breaker != nil {
		transport = circuitbreaker.NewTransport(transport, *opts.Breaker, logger)
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout:   opts.Timeout,
			Jar:       opts.Jar,
			Transport: otelhttp.NewTransport(transport),
		},
		logger: logger,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// doJSON sends body (if any) as JSON and decodes a 2xx response into out
// (if non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.sendJSON(ctx, method, path, body)
	if err != nil {
		return err
	}
	return decodeInto(method, path, raw, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindDecode, Method: method, Path: path, Err: errors.Wrap(err, "encode request")}
		}
		reader = bytes.NewReader(data)
	}
	return c.send(ctx, method, path, reader, "application/json")
}

func decodeInto(method, path string, raw []byte, out any) error {
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return &Error{Kind: KindDecode, Method: method, Path: path, Err: errors.New("empty response body")}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindDecode, Method: method, Path: path, Err: errors.Wrap(err, "decode response")}
	}
	return nil
}

// send performs the request and returns the body of a 2xx response.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: method, Path: path, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method), zap.String("path", path),
			zap.String("request_id", requestID), zap.Error(err))
		return nil, &Error{Kind: KindTransport, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Status: resp.StatusCode, Method: method, Path: path, Err: err}
	}

	c.logger.Debug("request",
		zap.String("method", method), zap.String("path", path),
		zap.Int("status", resp.StatusCode), zap.String("request_id", requestID),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Method:  method,
			Path:    path,
			Message: backendMessage(raw),
		}
	}
	return raw, nil
}

// Message is the acknowledgement body most mutating endpoints return.
type Message struct {
	Message string `json:"message"`
}
