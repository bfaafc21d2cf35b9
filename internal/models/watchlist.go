package models

import (
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// WatchItem is a tracked stock on a user's watchlist. JSON field names match
// the wire format consumed by the web UI.
type WatchItem struct {
	Code      string    `json:"id"`        // stock short code, doubles as the item key
	Title     string    `json:"title"`     // display title, normally the security name
	Done      bool      `json:"is_done"`   // reviewed/completed flag
	CreatedAt time.Time `json:"create_at"`
	UserID    string    `json:"uid"`
}

// WatchItemUpdate carries partial updates for a watch item. Nil fields are
// left unchanged.
type WatchItemUpdate struct {
	Title *string `json:"title"`
	Done  *bool   `json:"is_done"`
}
