// Package quote implements the single-symbol delayed quote fetcher backed by
// the Naver finance siseJson endpoint.
package quote

import (
	"context"
	"errors"
	"fmt"
	"math"

	"kwatch/internal/common"
	"kwatch/internal/interfaces"
	"kwatch/internal/models"
)

const (
	// barCount requests a single most-recent daily bar.
	barCount = 1

	// The siseJson layout is fixed: row 0 is the header row, the data row
	// carries the closing price in column 4.
	minRows     = 2
	minColumns  = 5
	priceColumn = 4
)

// Compile-time interface check
var _ interfaces.QuoteService = (*Service)(nil)

// Service implements QuoteService
type Service struct {
	client interfaces.NaverClient
	logger *common.Logger
}

// NewService creates a new quote service
func NewService(client interfaces.NaverClient, logger *common.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// Fetch retrieves the most recent closing price for a symbol. Every failure
// mode comes back as a *models.QuoteError — transport and upstream status
// failures as upstream_unavailable, structural and value failures as
// malformed_payload. No retry is performed.
func (s *Service) Fetch(ctx context.Context, symbol string) (float64, error) {
	rows, err := s.client.GetDailyBars(ctx, symbol, barCount)
	if err != nil {
		var qe *models.QuoteError
		if errors.As(err, &qe) {
			s.logger.Warn().Str("symbol", symbol).Str("category", qe.Category).Str("detail", qe.Message).Msg("Quote fetch failed")
			return 0, qe
		}
		return 0, models.NewUpstreamError("%v", err)
	}

	if len(rows) < minRows {
		return 0, models.NewMalformedError("price not found: %d rows", len(rows))
	}
	row := rows[1]
	if len(row) < minColumns {
		return 0, models.NewMalformedError("price not found: data row has %d columns", len(row))
	}

	price, err := normalizePrice(row[priceColumn])
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		qe := models.NewMalformedError("invalid closing price")
		qe.Raw = fmt.Sprintf("%v", row[priceColumn])
		s.logger.Warn().Str("symbol", symbol).Str("raw", qe.Raw).Msg("Unusable closing price cell")
		return 0, qe
	}

	s.logger.Info().Str("symbol", symbol).Float64("price", price).Msg("Quote fetched")
	return price, nil
}

// normalizePrice converts the closing-price cell to a float64. The cell may
// arrive as a JSON number or as a comma-grouped numeric string.
func normalizePrice(cell any) (float64, error) {
	switch v := cell.(type) {
	case float64:
		return v, nil
	case string:
		return common.ParseGroupedFloat(v)
	default:
		return 0, fmt.Errorf("unsupported cell type %T", cell)
	}
}
