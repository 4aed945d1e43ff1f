package client

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"energy-trading-platform/internal/config"
	"energy-trading-platform/internal/models"
	"energy-trading-platform/internal/trade"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TradesAPI is the subset of the trades REST API used by tooling.
type TradesAPI interface {
	Health(ctx context.Context) (*HealthStatus, error)
	CreateTrade(ctx context.Context, c trade.Candidate) (*models.Trade, error)
	ListTrades(ctx context.Context, f trade.Filter, p trade.Page) (*TradeList, error)
	GetTrade(ctx context.Context, id uint) (*models.Trade, bool, error)
}

// RestClient is a client for the trades REST API.
// It implements the TradesAPI interface.
type RestClient struct {
	client     *resty.Client
	logger     *zap.Logger
	limiter    *rate.Limiter
	maxRetries int
	backoff    func(attempt int) time.Duration
}

// ensure RestClient implements the interface
var _ TradesAPI = (*RestClient)(nil)

// HealthStatus mirrors the body of GET /health.
type HealthStatus struct {
	Status            string    `json:"status"`
	Timestamp         time.Time `json:"timestamp"`
	DatabaseConnected bool      `json:"database_connected"`
}

// TradeList mirrors the body of GET /trades.
type TradeList struct {
	Trades []models.Trade `json:"trades"`
	Total  int64          `json:"total"`
}

// APIError is a non-retryable error response from the API.
type APIError struct {
	StatusCode int
	Code       string `json:"error"`
	Field      string `json:"field"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("api error %d (%s on %s): %s", e.StatusCode, e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// NewRestClient creates a new trades API client.
func NewRestClient(cfg *config.Client, logger *zap.Logger) *RestClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &RestClient{
		client:     client,
		logger:     logger.Named("trades-client"),
		limiter:    limiter,
		maxRetries: maxRetries,
		backoff:    exponentialBackoff,
	}
}

// exponentialBackoff waits 1s, 2s, 4s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

// Health fetches the service health. An unhealthy service answers 503, which
// is still a valid health report, so it is not retried.
func (c *RestClient) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	req := c.client.R().SetResult(&status).SetError(&status)

	resp, err := c.doRequest(ctx, http.MethodGet, "/health", req, http.StatusServiceUnavailable)
	if err != nil {
		return nil, fmt.Errorf("failed to get health: %w", err)
	}
	if resp.StatusCode() == http.StatusServiceUnavailable {
		return &status, nil
	}
	return resp.Result().(*HealthStatus), nil
}

// CreateTrade submits one trade and returns the stored record.
func (c *RestClient) CreateTrade(ctx context.Context, candidate trade.Candidate) (*models.Trade, error) {
	req := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(candidate).
		SetResult(&models.Trade{})

	resp, err := c.doRequest(ctx, http.MethodPost, "/trades", req)
	if err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}

	created := resp.Result().(*models.Trade)
	c.logger.Debug("Trade created", zap.Uint("trade_id", created.ID))
	return created, nil
}

// ListTrades fetches one page of trades.
func (c *RestClient) ListTrades(ctx context.Context, f trade.Filter, p trade.Page) (*TradeList, error) {
	params := map[string]string{
		"limit":  strconv.Itoa(p.Limit),
		"offset": strconv.Itoa(p.Offset),
	}
	if f.Commodity != "" {
		params["commodity"] = f.Commodity
	}
	if f.TraderID != "" {
		params["trader_id"] = f.TraderID
	}
	if f.Side != "" {
		params["side"] = f.Side
	}

	req := c.client.R().
		SetQueryParams(params).
		SetResult(&TradeList{})

	resp, err := c.doRequest(ctx, http.MethodGet, "/trades", req)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return resp.Result().(*TradeList), nil
}

// GetTrade fetches one trade. A 404 is reported with found == false.
func (c *RestClient) GetTrade(ctx context.Context, id uint) (*models.Trade, bool, error) {
	req := c.client.R().
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		SetResult(&models.Trade{})

	resp, err := c.doRequest(ctx, http.MethodGet, "/trades/{id}", req, http.StatusNotFound)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get trade %d: %w", id, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, false, nil
	}
	return resp.Result().(*models.Trade), true, nil
}

// doRequest handles the actual request execution with rate limiting and retry
// logic. Statuses listed in accept are returned to the caller as responses.
func (c *RestClient) doRequest(ctx context.Context, method, url string, req *resty.Request, accept ...int) (*resty.Response, error) {
	var resp *resty.Response
	var err error

	req.SetContext(ctx)

	for i := 0; i < c.maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && (!resp.IsError() || accepted(resp.StatusCode(), accept)) {
			return resp, nil
		}

		// Analyze error and decide whether to retry
		shouldRetry := false
		var retryAfter time.Duration

		if err == nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				if seconds, convErr := strconv.Atoi(resp.Header().Get("Retry-After")); convErr == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 { // Server errors, e.g. a database still waking up
				shouldRetry = true
			}
			err = decodeAPIError(resp)
		} else if ctx.Err() != nil {
			return nil, ctx.Err()
		} else { // Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, err
		}
		if i == c.maxRetries-1 {
			break
		}

		if retryAfter == 0 {
			retryAfter = c.backoff(i)
		}

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

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries, err)
}

func accepted(status int, accept []int) bool {
	for _, s := range accept {
		if s == status {
			return true
		}
	}
	return false
}

func decodeAPIError(resp *resty.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if err := json.Unmarshal(resp.Body(), apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = http.StatusText(resp.StatusCode())
		apiErr.Message = resp.String()
	}
	apiErr.StatusCode = resp.StatusCode()
	return apiErr
}
