package model

import "time"

// User represents an authenticated identity. Email is the natural key;
// google_id and wallet_address are unique when present, hence pointer columns
// so NULL rows do not collide on the unique indexes.
type User struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Email         string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name          string    `json:"name" gorm:"size:255;not null"`
	Picture       *string   `json:"picture" gorm:"size:1024"`
	GoogleID      *string   `json:"google_id" gorm:"uniqueIndex;size:255"`
	WalletAddress *string   `json:"wallet_address" gorm:"uniqueIndex;size:255"`
	CreatedAt     time.Time `json:"created_at"`
}

// IdentityClaims is the set of identity attributes asserted during login,
// either by Google or by the email path directly.
type IdentityClaims struct {
	Email    string
	Name     string
	Picture  *string
	GoogleID *string
}
