package models

import "time"

type User struct {
	ID int `gorm:"primaryKey" json:"id"`

	// ClerkID is the external identity-provider id. It is assigned on the
	// user.created webhook event and never changes afterwards.
	ClerkID  string `gorm:"uniqueIndex;not null" json:"clerk_id"`
	Name     string `json:"name"`
	Username string `gorm:"index" json:"username"`
	Email    string `gorm:"index" json:"email"`
	Picture  string `json:"picture"` // Avatar URL from the identity provider

	// Reputation is kept in sync with the reputation_events ledger and may
	// go negative.
	Reputation int `gorm:"default:0" json:"reputation"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserUpdate carries the mutable profile fields synced from the identity
// provider on user.updated events.
type UserUpdate struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Picture  string `json:"picture"`
}
