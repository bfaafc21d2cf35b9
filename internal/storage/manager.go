// Package storage coordinates the kwatch storage backends.
package storage

import (
	"kwatch/internal/common"
	"kwatch/internal/interfaces"
	"kwatch/internal/storage/watchdb"
)

// Compile-time interface check
var _ interfaces.StorageManager = (*Manager)(nil)

// Manager implements StorageManager over a single embedded BadgerHold store.
type Manager struct {
	store  *watchdb.Store
	logger *common.Logger
}

// NewManager opens the storage backends from config.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	store, err := watchdb.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, err
	}
	return &Manager{store: store, logger: logger}, nil
}

// UserStore returns the user-account store.
func (m *Manager) UserStore() interfaces.UserStore {
	return m.store.UserStore()
}

// WatchlistStore returns the watch-item store.
func (m *Manager) WatchlistStore() interfaces.WatchlistStore {
	return m.store.WatchlistStore()
}

// Close closes all backends.
func (m *Manager) Close() error {
	return m.store.Close()
}
