// Package newsapi is a thin client for the NewsAPI.org v2 endpoints
// used by the news proxy: keyword search and country top headlines.
package newsapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	domain "newsfeed-service/internal/domain/news"
)

// Config holds the upstream provider settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client calls the NewsAPI.org HTTP API.
type Client struct {
	http   *resty.Client
	apiKey string
	log    *zap.Logger
}

// NewClient creates a NewsAPI client with the given configuration.
func NewClient(cfg Config, log *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	return &Client{
		http:   httpClient,
		apiKey: cfg.APIKey,
		log:    log,
	}
}

// Everything runs a keyword search across all sources.
func (c *Client) Everything(ctx context.Context, query string) (*domain.Result, error) {
	return c.get(ctx, "/everything", map[string]string{"q": query})
}

// TopHeadlines fetches the current headlines for a country.
func (c *Client) TopHeadlines(ctx context.Context, country string) (*domain.Result, error) {
	return c.get(ctx, "/top-headlines", map[string]string{"country": country})
}

func (c *Client) get(ctx context.Context, path string, params map[string]string) (*domain.Result, error) {
	var result domain.Result

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("apiKey", c.apiKey).
		SetResult(&result).
		Get(path)
	if err != nil {
		c.log.Error("news provider request failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("news provider request failed: %w", err)
	}

	if resp.IsError() {
		c.log.Error("news provider returned error status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()),
		)
		return nil, fmt.Errorf("news provider returned status %d", resp.StatusCode())
	}

	if result.Status != "" && result.Status != "ok" {
		c.log.Error("news provider reported failure", zap.String("status", result.Status))
		return nil, fmt.Errorf("news provider reported status %q", result.Status)
	}

	return &result, nil
}
