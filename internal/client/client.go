// Package client is the REST client for the journal server's HTTP API, used
// by the importer CLI to push broker exports to a running instance.
package client

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/models"
)

// ImportResponse is the server's answer to an upload: either a ready preview
// or a request for column mapping.
type ImportResponse struct {
	SessionID        string               `json:"sessionId"`
	State            string               `json:"state"`
	Headers          []string             `json:"headers,omitempty"`
	SuggestedMapping models.ColumnMapping `json:"suggestedMapping,omitempty"`
	Preview          *models.ParseResult  `json:"preview,omitempty"`
	Error            string               `json:"error,omitempty"`
}

// MergeResponse reports the outcome of a confirmed merge.
type MergeResponse struct {
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
	Account string `json:"account"`
}

// Client is a rate-limited client for the journal API.
type Client struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
}

// NewClient creates a new journal API client.
func NewClient(cfg *config.Client, logger *zap.Logger) *Client {
	client := resty.New().SetBaseURL(cfg.BaseURL)
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:  client,
		logger:  logger,
		limiter: limiter,
	}
}

// doRequest executes a request with rate limiting and retry on transient
// failures.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}

		shouldRetry := false
		if resp != nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests || statusCode >= 500 {
				shouldRetry = true
			}
		} else {
			// Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		retryAfter := time.Duration(math.Pow(2, float64(i))) * time.Second
		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}

// UploadCSV starts an import session from a local broker export.
func (c *Client) UploadCSV(ctx context.Context, accountID, filename string, content []byte) (*ImportResponse, error) {
	req := c.client.R().
		SetFileReader("file", filename, bytes.NewReader(content)).
		SetFormData(map[string]string{"account": accountID}).
		SetResult(&ImportResponse{})

	resp, err := c.doRequest(ctx, "POST", "/api/import", req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}
	return resp.Result().(*ImportResponse), nil
}

// ConfirmMapping submits a completed column mapping for a session.
func (c *Client) ConfirmMapping(ctx context.Context, sessionID string, mapping models.ColumnMapping) (*ImportResponse, error) {
	req := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{"mapping": mapping}).
		SetResult(&ImportResponse{})

	resp, err := c.doRequest(ctx, "POST", "/api/import/"+sessionID+"/mapping", req)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm mapping: %w", err)
	}
	return resp.Result().(*ImportResponse), nil
}

// ConfirmImport merges a previewed session into the store.
func (c *Client) ConfirmImport(ctx context.Context, sessionID string) (*MergeResponse, error) {
	req := c.client.R().SetResult(&MergeResponse{})

	resp, err := c.doRequest(ctx, "POST", "/api/import/"+sessionID+"/confirm", req)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm import: %w", err)
	}
	result := resp.Result().(*MergeResponse)
	c.logger.Info("Import merged", zap.Int("added", result.Added), zap.Int("skipped", result.Skipped))
	return result, nil
}

// CancelImport dismisses a session before confirmation.
func (c *Client) CancelImport(ctx context.Context, sessionID string) error {
	req := c.client.R()
	if _, err := c.doRequest(ctx, "DELETE", "/api/import/"+sessionID, req); err != nil {
		return fmt.Errorf("failed to cancel import: %w", err)
	}
	return nil
}

// ListTrades fetches the account's trades.
func (c *Client) ListTrades(ctx context.Context, accountID string) ([]models.Trade, error) {
	var trades []models.Trade
	req := c.client.R().
		SetQueryParam("account", accountID).
		SetResult(&trades)

	resp, err := c.doRequest(ctx, "GET", "/api/trades", req)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return *resp.Result().(*[]models.Trade), nil
}
