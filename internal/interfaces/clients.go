// Package interfaces defines service contracts for kwatch
package interfaces

import (
	"context"

	"kwatch/internal/models"
)

// DataGoClient provides access to the data.go.kr stock securities info service.
type DataGoClient interface {
	// GetDailyPrices retrieves the full end-of-day bulk listing for one
	// trading date (YYYYMMDD). The returned records are as reported by the
	// upstream source — callers must verify the embedded basDt themselves.
	GetDailyPrices(ctx context.Context, basDt string) ([]models.DailyPrice, error)
}

// NaverClient provides access to the Naver finance siseJson endpoint.
type NaverClient interface {
	// GetDailyBars retrieves up to count most-recent daily bars for a symbol.
	// The raw body is decoded from EUC-KR and repaired into valid JSON before
	// parsing; rows come back as generic JSON values (row 0 is the header).
	GetDailyBars(ctx context.Context, symbol string, count int) ([][]any, error)
}
