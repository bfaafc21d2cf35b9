package interfaces

import (
	"context"

	"kwatch/internal/models"
)

// StorageManager coordinates the storage backends.
type StorageManager interface {
	UserStore() UserStore
	WatchlistStore() WatchlistStore
	Close() error
}

// UserStore manages user accounts.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*models.InternalUser, error)
	GetUserByEmail(ctx context.Context, email string) (*models.InternalUser, error)
	SaveUser(ctx context.Context, user *models.InternalUser) error
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]string, error)
}

// WatchlistStore persists per-user watch items keyed by stock code.
type WatchlistStore interface {
	GetItem(ctx context.Context, userID, code string) (*models.WatchItem, error)
	PutItem(ctx context.Context, item *models.WatchItem) error
	DeleteItem(ctx context.Context, userID, code string) error
	// ListItems returns the user's items newest first.
	ListItems(ctx context.Context, userID string) ([]models.WatchItem, error)
}
