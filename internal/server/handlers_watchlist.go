package server

import (
	"errors"
	"net/http"

	"kwatch/internal/common"
	"kwatch/internal/models"
)

// --- Watchlist handlers ---

// requirePrincipal resolves the authenticated user ID or writes a 401.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := common.ResolveUserID(r.Context())
	if userID == "" {
		WriteError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}

// handleWatchlistRoot dispatches GET (list) and POST (add) for /api/watchlist.
func (s *Server) handleWatchlistRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleWatchlistList(w, r)
	case http.MethodPost:
		s.handleWatchlistAdd(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleWatchlistList handles GET /api/watchlist — the user's items, newest first.
func (s *Server) handleWatchlistList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	items, err := s.app.WatchlistService.List(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user", userID).Msg("Failed to list watchlist")
		WriteError(w, http.StatusInternalServerError, "failed to list watchlist")
		return
	}
	if items == nil {
		items = []models.WatchItem{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   items,
	})
}

// handleWatchlistAdd handles POST /api/watchlist — add a stock to the watchlist.
// A missing code is a 422 (incomplete submission), a missing principal a 401.
func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code  string `json:"code"`
		Title string `json:"title"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if req.Code == "" {
		WriteError(w, http.StatusUnprocessableEntity, "code is required")
		return
	}

	userID, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	item, err := s.app.WatchlistService.Add(r.Context(), userID, req.Code, req.Title)
	if err != nil {
		s.logger.Error().Err(err).Str("user", userID).Str("code", req.Code).Msg("Failed to add watch item")
		WriteError(w, http.StatusInternalServerError, "failed to add watch item")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   item,
	})
}

// routeWatchlist dispatches GET/PUT/DELETE for /api/watchlist/{code}.
func (s *Server) routeWatchlist(w http.ResponseWriter, r *http.Request) {
	code := PathParam(r, "/api/watchlist/", "")
	if code == "" {
		WriteError(w, http.StatusBadRequest, "stock code is required in path")
		return
	}

	userID, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleWatchlistGet(w, r, userID, code)
	case http.MethodPut, http.MethodPost:
		s.handleWatchlistUpdate(w, r, userID, code)
	case http.MethodDelete:
		s.handleWatchlistDelete(w, r, userID, code)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete)
	}
}

func (s *Server) handleWatchlistGet(w http.ResponseWriter, r *http.Request, userID, code string) {
	item, err := s.app.WatchlistService.Get(r.Context(), userID, code)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.logger.Error().Err(err).Str("code", code).Msg("Failed to get watch item")
		WriteError(w, http.StatusInternalServerError, "failed to get watch item")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   item,
	})
}

func (s *Server) handleWatchlistUpdate(w http.ResponseWriter, r *http.Request, userID, code string) {
	var update models.WatchItemUpdate
	if !DecodeJSON(w, r, &update) {
		return
	}

	item, err := s.app.WatchlistService.Update(r.Context(), userID, code, update)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.logger.Error().Err(err).Str("code", code).Msg("Failed to update watch item")
		WriteError(w, http.StatusInternalServerError, "failed to update watch item")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   item,
	})
}

func (s *Server) handleWatchlistDelete(w http.ResponseWriter, r *http.Request, userID, code string) {
	item, err := s.app.WatchlistService.Delete(r.Context(), userID, code)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.logger.Error().Err(err).Str("code", code).Msg("Failed to delete watch item")
		WriteError(w, http.StatusInternalServerError, "failed to delete watch item")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   item,
	})
}
