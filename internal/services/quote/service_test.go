package quote

import (
	"context"
	"errors"
	"math"
	"testing"

	"kwatch/internal/common"
	"kwatch/internal/models"
)

type mockNaverClient struct {
	rows [][]any
	err  error
}

func (m *mockNaverClient) GetDailyBars(ctx context.Context, symbol string, count int) ([][]any, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

func newTestService(client *mockNaverClient) *Service {
	return NewService(client, common.NewSilentLogger())
}

func headerRow() []any {
	return []any{"날짜", "시가", "고가", "저가", "종가", "거래량"}
}

func TestFetch_NumericPrice(t *testing.T) {
	client := &mockNaverClient{rows: [][]any{
		headerRow(),
		{"20240105", float64(76700), float64(77100), float64(76400), float64(76600), float64(11304316)},
	}}

	price, err := newTestService(client).Fetch(context.Background(), "005930")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if price != 76600 {
		t.Errorf("price = %v, want 76600", price)
	}
}

func TestFetch_GroupedStringPrice(t *testing.T) {
	client := &mockNaverClient{rows: [][]any{
		headerRow(),
		{"20240105", "76,700", "77,100", "76,400", "1,234", "11,304,316"},
	}}

	price, err := newTestService(client).Fetch(context.Background(), "005930")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if price != 1234 {
		t.Errorf("price = %v, want 1234", price)
	}
}

func TestFetch_HeaderOnly(t *testing.T) {
	client := &mockNaverClient{rows: [][]any{headerRow()}}

	_, err := newTestService(client).Fetch(context.Background(), "005930")
	assertQuoteError(t, err, models.QuoteErrMalformed)
}

func TestFetch_ShortDataRow(t *testing.T) {
	client := &mockNaverClient{rows: [][]any{
		headerRow(),
		{"20240105", float64(76700)},
	}}

	_, err := newTestService(client).Fetch(context.Background(), "005930")
	assertQuoteError(t, err, models.QuoteErrMalformed)
}

func TestFetch_NaNPrice(t *testing.T) {
	client := &mockNaverClient{rows: [][]any{
		headerRow(),
		{"20240105", float64(1), float64(2), float64(3), math.NaN(), float64(4)},
	}}

	_, err := newTestService(client).Fetch(context.Background(), "005930")
	assertQuoteError(t, err, models.QuoteErrMalformed)
}

func TestFetch_NonNumericCell(t *testing.T) {
	client := &mockNaverClient{rows: [][]any{
		headerRow(),
		{"20240105", float64(1), float64(2), float64(3), "종가", float64(4)},
	}}

	_, err := newTestService(client).Fetch(context.Background(), "005930")
	qe := assertQuoteError(t, err, models.QuoteErrMalformed)
	if qe.Raw != "종가" {
		t.Errorf("Raw = %q, want 종가", qe.Raw)
	}
}

func TestFetch_UpstreamErrorPassthrough(t *testing.T) {
	client := &mockNaverClient{err: models.NewUpstreamError("HTTP 502 from quote source")}

	_, err := newTestService(client).Fetch(context.Background(), "005930")
	qe := assertQuoteError(t, err, models.QuoteErrUpstream)
	if qe.Message != "HTTP 502 from quote source" {
		t.Errorf("Message = %q", qe.Message)
	}
}

func TestFetch_PlainErrorWrappedAsUpstream(t *testing.T) {
	client := &mockNaverClient{err: errors.New("connection refused")}

	_, err := newTestService(client).Fetch(context.Background(), "005930")
	assertQuoteError(t, err, models.QuoteErrUpstream)
}

func assertQuoteError(t *testing.T, err error, category string) *models.QuoteError {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var qe *models.QuoteError
	if !errors.As(err, &qe) {
		t.Fatalf("expected *models.QuoteError, got %T: %v", err, err)
	}
	if qe.Category != category {
		t.Errorf("Category = %q, want %q", qe.Category, category)
	}
	return qe
}
