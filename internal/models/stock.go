package models

// DailyPrice is a single record of the data.go.kr end-of-day bulk listing.
// Field names mirror the upstream payload (getStockPriceInfo).
type DailyPrice struct {
	BasDt   string `json:"basDt"`             // trading date, YYYYMMDD
	SrtnCd  string `json:"srtnCd"`            // exchange-assigned short ticker code
	ItmsNm  string `json:"itmsNm"`            // listed security name
	MrktCtg string `json:"mrktCtg,omitempty"` // market category (KOSPI/KOSDAQ/KONEX)
	Clpr    string `json:"clpr"`              // closing price, comma-grouped numeric string
}

// StockSuggestion is one ranked candidate returned by the stock search.
type StockSuggestion struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// StockSuggestions is the resolver result: the as-of trading date for which a
// verified snapshot was found, plus the ranked candidates. BasDt is empty when
// the whole lookback window was exhausted without a verified batch.
type StockSuggestions struct {
	BasDt       string            `json:"basDt,omitempty"`
	Suggestions []StockSuggestion `json:"suggestions"`
}
