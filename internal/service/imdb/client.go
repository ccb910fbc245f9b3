// Package imdb is the client for the imdb-api.com title database.
package imdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kapu/media-rating-bot-go/internal/constants"
	"github.com/kapu/media-rating-bot-go/internal/domain"
	"github.com/kapu/media-rating-bot-go/internal/util"
	"github.com/kapu/media-rating-bot-go/pkg/errors"
	"go.uber.org/zap"
)

const serviceName = "imdb"

// ResponseCache stores successful payloads. Implemented by cache.CacheService.
type ResponseCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client performs the three read-only lookups the bot needs. Every call shares one
// http.Client so connections are reused.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cache      ResponseCache
	breaker    *util.CircuitBreaker
	logger     *zap.Logger
}

// NewClient builds a client; cache may be nil.
func NewClient(cfg ClientConfig, cache ResponseCache, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.NewValidationError("imdb api key is required", "api_key", "")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.APIConfig.IMDbBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.APIConfig.IMDbTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		cache:      cache,
		breaker: util.NewCircuitBreaker(serviceName,
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger),
		logger: logger,
	}, nil
}

// SearchTitles looks up titles matching query. An in-band service error is returned
// as SearchResult.ErrorMessage, not as an error.
func (c *Client) SearchTitles(ctx context.Context, query string) (*domain.SearchResult, error) {
	var raw searchResponse
	if err := c.getJSON(ctx, "Search", query, "imdb:search:"+util.Normalize(query), constants.CacheTTL.TitleSearch, &raw); err != nil {
		return nil, err
	}
	return raw.toDomain(), nil
}

// GetRatings returns native-scale scores per source for the title.
func (c *Client) GetRatings(ctx context.Context, titleID string) (map[domain.RatingSource]domain.Score, error) {
	var raw ratingsResponse
	if err := c.getJSON(ctx, "Ratings", titleID, "imdb:ratings:"+titleID, constants.CacheTTL.Ratings, &raw); err != nil {
		return nil, err
	}
	if raw.ErrorMessage != "" {
		return nil, inBandError("Ratings", titleID, raw.ErrorMessage)
	}
	return raw.scores(), nil
}

// GetVoteCount returns the US and non-US vote buckets for the title.
func (c *Client) GetVoteCount(ctx context.Context, titleID string) (*domain.VoteCount, error) {
	var raw userRatingsResponse
	if err := c.getJSON(ctx, "UserRatings", titleID, "imdb:votes:"+titleID, constants.CacheTTL.UserRatings, &raw); err != nil {
		return nil, err
	}
	if raw.ErrorMessage != "" {
		return nil, inBandError("UserRatings", titleID, raw.ErrorMessage)
	}
	return raw.voteCount(), nil
}

type cacheablePayload interface {
	cacheable() bool
}

func (c *Client) getJSON(ctx context.Context, endpoint, arg, cacheKey string, ttl time.Duration, dest cacheablePayload) error {
	if c.cache != nil {
		var cached json.RawMessage
		found, err := c.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			c.logger.Warn("IMDb cache read failed", zap.String("key", cacheKey), zap.Error(err))
		} else if found {
			if err := json.Unmarshal(cached, dest); err == nil {
				c.logger.Debug("IMDb cache hit", zap.String("key", cacheKey))
				return nil
			}
		}
	}

	body, err := c.fetch(ctx, endpoint, arg)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return errors.NewAPIError("failed to decode response", http.StatusOK, map[string]any{
			"endpoint": endpoint,
		}).WithCause(err)
	}

	if c.cache != nil && dest.cacheable() {
		if err := c.cache.Set(ctx, cacheKey, json.RawMessage(body), ttl); err != nil {
			c.logger.Warn("IMDb cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, endpoint, arg string) ([]byte, error) {
	if !c.breaker.CanExecute() {
		retryAfter := c.breaker.RetryAfter()
		c.logger.Warn("IMDb circuit breaker is open", zap.Duration("retry_after", retryAfter))
		return nil, errors.NewCircuitOpenError(serviceName, retryAfter.Milliseconds())
	}

	reqURL := fmt.Sprintf("%s/%s/%s/%s", c.baseURL, endpoint, url.PathEscape(c.apiKey), url.PathEscape(arg))
	logURL := fmt.Sprintf("%s/%s/***/%s", c.baseURL, endpoint, url.PathEscape(arg))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.NewAPIError("failed to create request", 500, map[string]any{
			"url": logURL,
		}).WithCause(err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, errors.NewAPIError("request failed", 500, map[string]any{
			"url": logURL,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("IMDb request completed",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode >= 500 {
			c.breaker.RecordFailure()
		}
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, int64(constants.APIConfig.MaxErrorBodyKB)<<10))
		return nil, errors.NewAPIError(fmt.Sprintf("IMDb API error: %s", resp.Status), resp.StatusCode, map[string]any{
			"url":  logURL,
			"body": string(bodyBytes),
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, errors.NewAPIError("failed to read response", resp.StatusCode, map[string]any{
			"url": logURL,
		}).WithCause(err)
	}

	c.breaker.RecordSuccess()
	return body, nil
}

func inBandError(endpoint, titleID, message string) *errors.APIError {
	return errors.NewAPIError(message, http.StatusOK, map[string]any{
		"endpoint": endpoint,
		"title_id": titleID,
	})
}
