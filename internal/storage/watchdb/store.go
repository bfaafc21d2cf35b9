// Package watchdb implements the user and watchlist stores using BadgerHold.
package watchdb

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"kwatch/internal/common"
	"kwatch/internal/models"
)

// Store holds the shared BadgerHold handle behind the user and watchlist
// store views.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens (creating if needed) the embedded database at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create watchdb path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open watchdb at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("WatchDB opened")
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// keySep is the composite key separator. Using a null byte prevents
// collisions when a user ID contains ":" characters.
const keySep = "\x00"

func itemKey(userID, code string) string {
	return userID + keySep + code
}

// --- Users ---

const userKeyPrefix = "user" + keySep

// UserStore returns the user-account view of the store.
func (s *Store) UserStore() *UserStore {
	return &UserStore{s}
}

// UserStore implements interfaces.UserStore.
type UserStore struct {
	*Store
}

func (s *UserStore) GetUser(_ context.Context, userID string) (*models.InternalUser, error) {
	var user models.InternalUser
	if err := s.db.Get(userKeyPrefix+userID, &user); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("user '%s': %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return &user, nil
}

func (s *UserStore) GetUserByEmail(_ context.Context, email string) (*models.InternalUser, error) {
	var users []models.InternalUser
	if err := s.db.Find(&users, badgerhold.Where("Email").Eq(email)); err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user with email '%s': %w", email, models.ErrNotFound)
	}
	return &users[0], nil
}

func (s *UserStore) SaveUser(_ context.Context, user *models.InternalUser) error {
	if err := s.db.Upsert(userKeyPrefix+user.UserID, user); err != nil {
		return fmt.Errorf("failed to save user '%s': %w", user.UserID, err)
	}
	return nil
}

func (s *UserStore) DeleteUser(_ context.Context, userID string) error {
	if err := s.db.Delete(userKeyPrefix+userID, models.InternalUser{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete user '%s': %w", userID, err)
	}
	return nil
}

func (s *UserStore) ListUsers(_ context.Context) ([]string, error) {
	var users []models.InternalUser
	if err := s.db.Find(&users, nil); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.UserID)
	}
	sort.Strings(ids)
	return ids, nil
}

// --- Watch items ---

// WatchlistStore returns the watch-item view of the store.
func (s *Store) WatchlistStore() *WatchlistStore {
	return &WatchlistStore{s}
}

// WatchlistStore implements interfaces.WatchlistStore.
type WatchlistStore struct {
	*Store
}

func (s *WatchlistStore) GetItem(_ context.Context, userID, code string) (*models.WatchItem, error) {
	var item models.WatchItem
	if err := s.db.Get(itemKey(userID, code), &item); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("watch item '%s' for user '%s': %w", code, userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get watch item '%s': %w", code, err)
	}
	return &item, nil
}

func (s *WatchlistStore) PutItem(_ context.Context, item *models.WatchItem) error {
	if err := s.db.Upsert(itemKey(item.UserID, item.Code), item); err != nil {
		return fmt.Errorf("failed to put watch item '%s': %w", item.Code, err)
	}
	return nil
}

func (s *WatchlistStore) DeleteItem(_ context.Context, userID, code string) error {
	if err := s.db.Delete(itemKey(userID, code), models.WatchItem{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete watch item '%s': %w", code, err)
	}
	return nil
}

func (s *WatchlistStore) ListItems(_ context.Context, userID string) ([]models.WatchItem, error) {
	var items []models.WatchItem
	if err := s.db.Find(&items, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list watch items: %w", err)
	}
	// Newest first
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
