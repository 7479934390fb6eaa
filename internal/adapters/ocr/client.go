// internal/adapters/ocr/client.go
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
)

// ErrNotConfigured is returned when scans arrive without an OCR endpoint
var ErrNotConfigured = errors.New("ocr scanner not configured")

const maxResponseBytes = 1 << 20

// Config holds OCR client settings
type Config struct {
	Endpoint      string
	APIKey        string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// Client calls the remote recognition service. Calls share one rate limiter
// so a burst of scans cannot exceed the provider quota.
type Client struct {
	http     *http.Client
	endpoint string
	apiKey   string
	limiter  *rate.Limiter
	logger   *slog.Logger
}

var _ ports.Scanner = (*Client)(nil)

type scanResponse struct {
	GTIN        string `json:"gtin"`
	ProductName string `json:"product_name"`
	Brand       string `json:"brand"`
}

// NewClient creates an OCR client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		http:     &http.Client{Timeout: timeout},
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		limiter:  rate.NewLimiter(limit, burst),
		logger:   logger.With(slog.String("component", "ocr")),
	}
}

// Scan submits image and maps the reply onto a ScanResult. A reply with
// nothing recognized yields an empty result rather than an error.
func (c *Client) Scan(ctx context.Context, image []byte, contentType string) (*domain.ScanResult, error) {
	if c.endpoint == "" {
		return nil, ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for ocr rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("failed to build ocr request: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call ocr service: %w", err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "ocr call completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration_ms", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusUnprocessableEntity:
		return &domain.ScanResult{}, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ocr service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload scanResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode ocr response: %w", err)
	}

	return &domain.ScanResult{
		GTIN:        nonBlank(payload.GTIN),
		ProductName: nonBlank(payload.ProductName),
		Brand:       nonBlank(payload.Brand),
	}, nil
}

func nonBlank(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
