package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/invoich-web/internal/config"
	"github.com/spec-kit/invoich-web/internal/observability"
	apperrors "github.com/spec-kit/invoich-web/pkg/util/errorutil"
)

const maxResponseBytes = 10 << 20

// Client talks to the invoicing REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewClient builds a backend client from configuration.
func NewClient(cfg config.BackendConfig, logger *zap.Logger, metrics *observability.Metrics) *Client {
	return NewClientWithHTTP(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout()}, logger, metrics)
}

// NewClientWithHTTP builds a client around a caller-provided http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger *zap.Logger, metrics *observability.Metrics) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		metrics:    metrics,
	}
}

// BaseURL returns the backend root the client calls.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestOpts struct {
	Operation   string
	Method      string
	Path        string
	Token       string
	Body        io.Reader
	ContentType string
}

// messageBody is the {message?} envelope the backend uses for acks and errors.
type messageBody struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, opts requestOpts, out any) error {
	req, err := http.NewRequestWithContext(ctx, opts.Method, c.baseURL+opts.Path, opts.Body)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("create %s request: %w", opts.Operation, err))
	}
	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordBackendCall(opts.Operation, 0, time.Since(start))
		c.logger.Warn("backend call failed",
			zap.String("operation", opts.Operation),
			zap.Error(err))
		return apperrors.NewTransportError(fmt.Errorf("execute %s request: %w", opts.Operation, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.metrics.RecordBackendCall(opts.Operation, resp.StatusCode, time.Since(start))
	if err != nil {
		return apperrors.NewTransportError(fmt.Errorf("read %s response: %w", opts.Operation, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var msg messageBody
		_ = json.Unmarshal(respBody, &msg)
		c.logger.Info("backend rejected call",
			zap.String("operation", opts.Operation),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg.Message))
		return apperrors.NewUpstreamError(resp.StatusCode, msg.Message)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return apperrors.NewTransportError(fmt.Errorf("decode %s response: %w", opts.Operation, err))
	}
	return nil
}

func jsonBody(v any) (io.Reader, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(raw), nil
}

// ErrMissingToken is returned by authenticated calls made without a bearer token.
var ErrMissingToken = errors.New("bearer token required")

// Ping checks that the backend answers at all. Any HTTP status counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}
