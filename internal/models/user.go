package models

import "time"

// InternalUser represents a user account stored in the internal database.
// PasswordHash is empty for accounts created through OAuth.
type InternalUser struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Provider     string    `json:"provider,omitempty"` // "local" or "google"
	Role         string    `json:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}
