// Package datago provides a client for the data.go.kr stock securities info service
package datago

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"kwatch/internal/common"
	"kwatch/internal/models"
)

const (
	DefaultBaseURL   = "https://apis.data.go.kr/1160100/service/GetStockSecuritiesInfoService"
	DefaultTimeout   = 5 * time.Second
	DefaultRateLimit = 5 // requests per second

	// pageSize is large enough to fetch the full KRX listing in a single page.
	pageSize = 1000

	// resultCodeOK is the upstream success sentinel embedded in the header.
	resultCodeOK = "00"
)

// Client implements the DataGoClient interface
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new data.go.kr client. serviceKey is the mandatory
// credential issued by the public-data portal.
func NewClient(serviceKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an upstream API error
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("data.go.kr API error: %s (status: %d)", e.Message, e.StatusCode)
}

// priceInfoResponse mirrors the getStockPriceInfo envelope. The item payload
// is kept raw because the upstream serializes a single record as an object
// and multiple records as an array.
type priceInfoResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			TotalCount int `json:"totalCount"`
			Items      struct {
				Item json.RawMessage `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

// GetDailyPrices retrieves the full end-of-day bulk listing for one trading
// date. Records are returned as reported — the embedded basDt may differ from
// the requested one when the upstream falls back to its last known trading
// day, so callers must verify it.
func (c *Client) GetDailyPrices(ctx context.Context, basDt string) ([]models.DailyPrice, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("serviceKey", c.serviceKey)
	params.Set("numOfRows", strconv.Itoa(pageSize))
	params.Set("pageNo", "1")
	params.Set("resultType", "json")
	params.Set("basDt", basDt)

	reqURL := fmt.Sprintf("%s/getStockPriceInfo?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("basDt", basDt).Msg("data.go.kr API request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn().Err(err).Str("basDt", basDt).Dur("elapsed", elapsed).Msg("data.go.kr API request failed")
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	var apiResp priceInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if code := apiResp.Response.Header.ResultCode; code != resultCodeOK {
		return nil, fmt.Errorf("data.go.kr result code %s: %s", code, apiResp.Response.Header.ResultMsg)
	}

	items, err := coerceItems(apiResp.Response.Body.Items.Item)
	if err != nil {
		return nil, err
	}

	c.logger.Info().Str("basDt", basDt).Int("items", len(items)).Dur("elapsed", elapsed).Msg("data.go.kr API call")

	return items, nil
}

// coerceItems normalizes the item payload: the upstream returns either a
// single object or an array. An absent or empty payload is an error so the
// caller can treat the date as a miss.
func coerceItems(raw json.RawMessage) ([]models.DailyPrice, error) {
	if len(raw) == 0 || string(raw) == "null" || string(raw) == `""` {
		return nil, fmt.Errorf("item payload absent")
	}

	var list []models.DailyPrice
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var single models.DailyPrice
	if err := json.Unmarshal(raw, &single); err == nil {
		return []models.DailyPrice{single}, nil
	}

	return nil, fmt.Errorf("cannot parse item payload: %s", truncate(string(raw), 120))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
