// Package suggest resolves stock-name queries against the most recent
// verified end-of-day snapshot from the data.go.kr bulk listing.
package suggest

import (
	"context"
	"strings"
	"time"

	"kwatch/internal/common"
	"kwatch/internal/interfaces"
	"kwatch/internal/models"
)

const (
	// MaxLookbackDays is the calendar-day window walked backward from today.
	// Weekends and holidays count against the budget.
	MaxLookbackDays = 5

	// SuggestionLimit caps the ranked result size.
	SuggestionLimit = 15
)

// kstZone is the fixed +9:00 offset. KRX trading dates are computed against
// this zone regardless of the host timezone; Korea has no DST.
var kstZone = time.FixedZone("KST", 9*60*60)

// Compile-time interface check
var _ interfaces.SuggestService = (*Service)(nil)

// Service implements SuggestService
type Service struct {
	client interfaces.DataGoClient
	logger *common.Logger
	now    func() time.Time // injectable clock for testing
}

// NewService creates a new suggest service
func NewService(client interfaces.DataGoClient, logger *common.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Resolve walks backward from today (KST) for up to MaxLookbackDays, takes
// the first date with a verified non-empty batch, and ranks name matches:
// exact matches first, then substring matches, truncated to SuggestionLimit.
// An exhausted window yields an empty result, not an error — per-date
// upstream failures only skip that date.
func (s *Service) Resolve(ctx context.Context, query string) (*models.StockSuggestions, error) {
	today := s.now().In(kstZone)

	var basDtFound string
	var batch []models.DailyPrice

	for offset := 0; offset < MaxLookbackDays; offset++ {
		basDt := today.AddDate(0, 0, -offset).Format("20060102")

		items, err := s.client.GetDailyPrices(ctx, basDt)
		if err != nil {
			s.logger.Debug().Err(err).Str("basDt", basDt).Msg("No usable snapshot for date, walking back")
			continue
		}

		// Date-integrity filter: the upstream silently substitutes its last
		// known trading day instead of answering "no data". Records whose own
		// basDt disagrees with the requested date are untrusted, and a batch
		// with none remaining is a miss for this date.
		verified := make([]models.DailyPrice, 0, len(items))
		for _, it := range items {
			if it.BasDt == basDt {
				verified = append(verified, it)
			}
		}
		if len(verified) == 0 {
			s.logger.Debug().Str("basDt", basDt).Int("items", len(items)).Msg("Batch failed date-integrity check, walking back")
			continue
		}

		basDtFound = basDt
		batch = verified
		break
	}

	if basDtFound == "" {
		s.logger.Info().Str("query", query).Int("window", MaxLookbackDays).Msg("Lookback window exhausted without a verified snapshot")
		return &models.StockSuggestions{Suggestions: []models.StockSuggestion{}}, nil
	}

	// Exact-name matches rank above substring matches.
	var exact, partial []models.DailyPrice
	for _, it := range batch {
		if !strings.Contains(it.ItmsNm, query) {
			continue
		}
		if it.ItmsNm == query {
			exact = append(exact, it)
		} else {
			partial = append(partial, it)
		}
	}

	ranked := make([]models.DailyPrice, 0, len(exact)+len(partial))
	ranked = append(ranked, exact...)
	ranked = append(ranked, partial...)
	if len(ranked) > SuggestionLimit {
		ranked = ranked[:SuggestionLimit]
	}

	suggestions := make([]models.StockSuggestion, 0, len(ranked))
	for _, it := range ranked {
		price, err := common.ParseGroupedFloat(it.Clpr)
		if err != nil {
			s.logger.Warn().Str("code", it.SrtnCd).Str("clpr", it.Clpr).Msg("Dropping record with unparseable closing price")
			continue
		}
		suggestions = append(suggestions, models.StockSuggestion{
			Code:  it.SrtnCd,
			Name:  it.ItmsNm,
			Price: price,
		})
	}

	s.logger.Info().Str("query", query).Str("basDt", basDtFound).Int("suggestions", len(suggestions)).Msg("Stock search resolved")

	return &models.StockSuggestions{
		BasDt:       basDtFound,
		Suggestions: suggestions,
	}, nil
}
