// Package watchlist provides per-user watchlist management services
package watchlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kwatch/internal/common"
	"kwatch/internal/interfaces"
	"kwatch/internal/models"
)

// Compile-time interface check
var _ interfaces.WatchlistService = (*Service)(nil)

// Service implements WatchlistService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new watchlist service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// List returns the user's watch items, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]models.WatchItem, error) {
	items, err := s.storage.WatchlistStore().ListItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watch items: %w", err)
	}
	return items, nil
}

// Add creates or replaces a watch item keyed by stock code. An existing
// item keeps its original creation time.
func (s *Service) Add(ctx context.Context, userID, code, title string) (*models.WatchItem, error) {
	now := time.Now()
	item := &models.WatchItem{
		Code:      code,
		Title:     title,
		Done:      false,
		CreatedAt: now,
		UserID:    userID,
	}

	if existing, err := s.storage.WatchlistStore().GetItem(ctx, userID, code); err == nil {
		item.CreatedAt = existing.CreatedAt
	}

	if err := s.storage.WatchlistStore().PutItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add watch item: %w", err)
	}

	s.logger.Info().Str("user", userID).Str("code", code).Msg("Watch item added")
	return item, nil
}

// Get retrieves a single watch item. Returns models.ErrNotFound when absent.
func (s *Service) Get(ctx context.Context, userID, code string) (*models.WatchItem, error) {
	return s.storage.WatchlistStore().GetItem(ctx, userID, code)
}

// Update applies a partial update to an existing item. Nil update fields are
// left unchanged.
func (s *Service) Update(ctx context.Context, userID, code string, update models.WatchItemUpdate) (*models.WatchItem, error) {
	item, err := s.storage.WatchlistStore().GetItem(ctx, userID, code)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		item.Title = *update.Title
	}
	if update.Done != nil {
		item.Done = *update.Done
	}

	if err := s.storage.WatchlistStore().PutItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update watch item: %w", err)
	}

	s.logger.Info().Str("user", userID).Str("code", code).Msg("Watch item updated")
	return item, nil
}

// Delete removes an item and returns the deleted record, or models.ErrNotFound.
func (s *Service) Delete(ctx context.Context, userID, code string) (*models.WatchItem, error) {
	existing, err := s.storage.WatchlistStore().GetItem(ctx, userID, code)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	if err := s.storage.WatchlistStore().DeleteItem(ctx, userID, code); err != nil {
		return nil, fmt.Errorf("failed to delete watch item: %w", err)
	}

	s.logger.Info().Str("user", userID).Str("code", code).Msg("Watch item deleted")
	return existing, nil
}
