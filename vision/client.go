// Package vision reads device labels through a generative vision model
// (Gemini generateContent API) and returns them as a partial record.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"auditform/model"
)

// maxResponseSize limits the response body read from the service.
const maxResponseSize = 4 * 1024 * 1024

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Config holds the connection settings. APIKey has no default.
type Config struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
	Timeout     time.Duration
}

type Client struct {
	cfg        Config
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

func NewClient(cfg Config, opts ...ClientOption) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildURL returns the generateContent endpoint for the configured model.
func (c *Client) BuildURL() string {
	base := strings.TrimSuffix(c.cfg.BaseURL, "/")
	return fmt.Sprintf("%s/models/%s:generateContent", base, c.cfg.Model)
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *Schema `json:"responseSchema"`
	Temperature      float64 `json:"temperature"`
}

type generateRequest struct {
	SystemInstruction content          `json:"systemInstruction"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

// BuildRequestBody creates the generateContent body for one image.
func (c *Client) BuildRequestBody(image []byte, mimeType string) ([]byte, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	req := generateRequest{
		SystemInstruction: content{Parts: []part{{Text: SystemInstruction}}},
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(image)}},
				{Text: UserPrompt},
			},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   ResponseSchema(),
			Temperature:      c.cfg.Temperature,
		},
	}
	return json.Marshal(req)
}

// Extract sends the image to the model and decodes the structured answer.
func (c *Client) Extract(ctx context.Context, image []byte, mimeType string) (*model.ExtractionResult, error) {
	if c.cfg.APIKey == "" || c.cfg.Model == "" {
		return nil, NewFatalError(ErrNotConfigured)
	}
	if len(image) == 0 {
		return nil, NewFatalError(fmt.Errorf("empty image"))
	}

	body, err := c.BuildRequestBody(image, mimeType)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("build request body: %w", err))
	}

	url := c.BuildURL()
	c.logger.Debug("Sending vision request",
		"model", c.cfg.Model,
		"url", url,
		"image_bytes", len(image),
		"mime_type", mimeType)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("create HTTP request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)

	started := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, NewTransientError(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, NewTransientError(fmt.Errorf("read response body: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(httpResp.StatusCode, respBody)
	}

	res, err := ParseResponse(respBody)
	if err != nil {
		return nil, NewFatalError(err)
	}

	c.logger.Info("Vision extraction complete",
		"model", c.cfg.Model,
		"items", len(res.Items),
		"duration_ms", time.Since(started).Milliseconds())
	return res, nil
}

// classifyHTTPError determines if an HTTP error is transient or fatal.
func classifyHTTPError(statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > 200 {
		bodyStr = bodyStr[:200] + "..."
	}

	err := fmt.Errorf("vision API error (status %d): %s", statusCode, bodyStr)

	switch {
	case statusCode == http.StatusTooManyRequests:
		return NewTransientError(err)
	case statusCode >= 500:
		return NewTransientError(err)
	default:
		return NewFatalError(err)
	}
}
