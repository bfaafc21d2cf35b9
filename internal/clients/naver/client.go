// Package naver provides a client for the Naver finance siseJson endpoint
package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
	"golang.org/x/time/rate"

	"kwatch/internal/common"
	"kwatch/internal/models"
)

const (
	DefaultBaseURL   = "https://api.finance.naver.com"
	DefaultReferer   = "https://finance.naver.com"
	DefaultTimeout   = 5 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the NaverClient interface
type Client struct {
	baseURL    string
	referer    string
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

// WithReferer sets the Referer header value
func WithReferer(referer string) ClientOption {
	return func(c *Client) {
		c.referer = referer
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

// NewClient creates a new Naver finance client. No API key is required, but
// the endpoint rejects requests without a finance.naver.com Referer.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		referer: DefaultReferer,
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

// trailingComma matches a comma immediately preceding a closing bracket,
// keeping the bracket (and any whitespace) in the replacement.
var trailingComma = regexp.MustCompile(`,(\s*\])`)

// RepairSiseJSON turns the near-JSON siseJson body into valid JSON: single
// quotes become double quotes and trailing commas before closing brackets are
// stripped. The body never contains embedded quotes inside values, so the
// blanket quote replacement is safe for this endpoint.
func RepairSiseJSON(s string) string {
	s = strings.ReplaceAll(s, "'", `"`)
	return trailingComma.ReplaceAllString(s, "$1")
}

// GetDailyBars retrieves up to count most-recent daily bars for a symbol.
// The raw body is EUC-KR encoded; it is decoded to UTF-8 before the textual
// JSON repair, since the double-byte encoding can corrupt structural
// characters if parsed as-is. All failures come back as *models.QuoteError.
func (c *Client) GetDailyBars(ctx context.Context, symbol string, count int) ([][]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, models.NewUpstreamError("rate limit wait: %v", err)
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("requestType", "0")
	params.Set("count", strconv.Itoa(count))
	params.Set("timeframe", "day")

	reqURL := fmt.Sprintf("%s/siseJson.naver?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, models.NewUpstreamError("failed to create request: %v", err)
	}
	req.Header.Set("Referer", c.referer)

	c.logger.Debug().Str("symbol", symbol).Msg("Naver finance API request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Dur("elapsed", elapsed).Msg("Naver finance request failed")
		return nil, models.NewUpstreamError("failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Str("symbol", symbol).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("Naver finance non-OK response")
		return nil, models.NewUpstreamError("HTTP %d from quote source", resp.StatusCode)
	}

	decoded, err := io.ReadAll(transform.NewReader(resp.Body, korean.EUCKR.NewDecoder()))
	if err != nil {
		return nil, models.NewMalformedError("EUC-KR decode failed: %v", err)
	}

	repaired := RepairSiseJSON(strings.TrimSpace(string(decoded)))

	var rows [][]any
	if err := json.Unmarshal([]byte(repaired), &rows); err != nil {
		return nil, models.NewMalformedError("invalid data format: %v", err)
	}

	c.logger.Info().Str("symbol", symbol).Int("rows", len(rows)).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("Naver finance API call")

	return rows, nil
}
