// Package webhook submits a record snapshot to the configured storage endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"auditform/model"
)

var ErrNotConfigured = errors.New("webhook URL is not configured")

// Result describes a request that reached the server. The status code is
// informational only; any response counts as delivered.
type Result struct {
	StatusCode int
	Duration   time.Duration
}

type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

type ClientOption func(*Client)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(client *Client) {
		client.logger = logger
	}
}

func NewClient(url string, timeout time.Duration, opts ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Marshal encodes the payload exactly as it is sent.
func Marshal(snap model.Snapshot) ([]byte, error) {
	if snap.Items == nil {
		snap.Items = []model.InspectionItem{}
	}
	return json.Marshal(snap)
}

// Send posts the snapshot once. Only transport failures are errors.
func (c *Client) Send(ctx context.Context, snap model.Snapshot) (Result, error) {
	if c.url == "" {
		return Result{}, ErrNotConfigured
	}

	body, err := Marshal(snap)
	if err != nil {
		return Result{}, fmt.Errorf("marshal snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	res := Result{StatusCode: resp.StatusCode, Duration: time.Since(started)}
	if resp.StatusCode >= 300 {
		c.logger.Warn("Webhook answered with non-success status",
			"status", resp.StatusCode,
			"customer_code", snap.Header.CustomerCode)
	} else {
		c.logger.Info("Snapshot delivered",
			"status", resp.StatusCode,
			"items", len(snap.Items),
			"total_qty", snap.TotalQty,
			"duration_ms", res.Duration.Milliseconds())
	}
	return res, nil
}
