package interfaces

import (
	"context"

	"kwatch/internal/models"
)

// SuggestService resolves a free-text security-name query into ranked
// candidates from the most recent verified end-of-day snapshot.
type SuggestService interface {
	Resolve(ctx context.Context, query string) (*models.StockSuggestions, error)
}

// QuoteService fetches a single delayed quote for a ticker symbol.
// All failures are returned as *models.QuoteError.
type QuoteService interface {
	Fetch(ctx context.Context, symbol string) (float64, error)
}

// WatchlistService manages per-user watch items.
type WatchlistService interface {
	List(ctx context.Context, userID string) ([]models.WatchItem, error)
	Add(ctx context.Context, userID, code, title string) (*models.WatchItem, error)
	Get(ctx context.Context, userID, code string) (*models.WatchItem, error)
	Update(ctx context.Context, userID, code string, update models.WatchItemUpdate) (*models.WatchItem, error)
	Delete(ctx context.Context, userID, code string) (*models.WatchItem, error)
}
