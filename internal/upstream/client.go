// Package upstream wraps the backend REST microservices the portal fans out
// to. Every call is context-scoped, carries the error taxonomy the dashboards
// render from, and is observed by metrics and a tracer span. No retries:
// retry is always a user action.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/careorbit/careportal/pkg/logging"
)

const defaultUserAgent = "careportal-gateway/0.1"

// Observer receives one observation per upstream request.
type Observer interface {
	ObserveUpstream(service, method, status string, seconds float64)
}

// Config controls how a service client behaves.
type Config struct {
	Service    string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
	Observer   Observer
	UserAgent  string
}

// Client issues JSON requests against one backend service.
type Client struct {
	service    string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	observer   Observer
	tracer     trace.Tracer
	userAgent  string
}

// New creates a configured client with sane defaults.
func New(cfg Config) (*Client, error) {
	service := strings.TrimSpace(cfg.Service)
	if service == "" {
		return nil, fmt.Errorf("upstream: service name is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("upstream: base URL for %s is required", service)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		service:    service,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
		observer:   cfg.Observer,
		tracer:     otel.Tracer("careportal.internal.upstream." + service),
		userAgent:  userAgent,
	}, nil
}

// Service returns the backend name this client talks to.
func (c *Client) Service() string { return c.service }

type errorEnvelope struct {
	Error string `json:"error"`
}

// do performs one request. wantStatus is the expected success code; any 2xx
// is still accepted so slightly loose backends do not surface as failures.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, wantStatus int) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("upstream %s: marshal request: %w", c.service, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("upstream %s: build request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	ctx, span := c.tracer.Start(ctx, "upstream."+c.service,
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.path", path),
		))
	defer span.End()
	req = req.WithContext(ctx)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		span.RecordError(err)
		c.observe(method, "transport_error", elapsed)
		c.logger.Warn("upstream request failed",
			"service", c.service, "method", method, "path", path, "error", err)
		return transportError(c.service)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.observe(method, fmt.Sprintf("%d", resp.StatusCode), elapsed)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return transportError(c.service)
	}

	if resp.StatusCode != wantStatus && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		var envelope errorEnvelope
		if json.Unmarshal(data, &envelope) == nil && strings.TrimSpace(envelope.Error) != "" {
			return structuredError(c.service, resp.StatusCode, envelope.Error)
		}
		return statusError(c.service, resp.StatusCode)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return structuredError(c.service, resp.StatusCode,
				fmt.Sprintf("malformed response from %s service", c.service))
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, http.StatusOK)
}

func (c *Client) post(ctx context.Context, path string, body, out any, wantStatus int) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, wantStatus)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, http.StatusOK)
}

func (c *Client) observe(method, status string, seconds float64) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveUpstream(c.service, method, status, seconds)
}
