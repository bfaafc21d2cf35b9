package server

import (
	"errors"
	"net/http"
	"strings"

	"kwatch/internal/models"
)

// --- Stock search and quote handlers ---

// handleStockSearch handles GET /api/stocks?q={name} — resolve a security
// name fragment into ranked candidates from the latest verified EOD snapshot.
func (s *Server) handleStockSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		WriteError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	result, err := s.app.SuggestService.Resolve(r.Context(), q)
	if err != nil {
		s.logger.Error().Err(err).Str("query", q).Msg("Stock search failed")
		WriteError(w, http.StatusInternalServerError, "failed to search stocks")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// handleQuote handles GET /api/quote/{symbol} — fetch the most recent
// closing price for a ticker. All fetcher failures surface as a structured
// {error, message} payload with 500.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/quote/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	price, err := s.app.QuoteService.Fetch(r.Context(), symbol)
	if err != nil {
		var qe *models.QuoteError
		if errors.As(err, &qe) {
			WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error:   qe.Category,
				Message: qe.Message,
			})
			return
		}
		WriteError(w, http.StatusInternalServerError, "failed to fetch quote")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]float64{"price": price})
}
