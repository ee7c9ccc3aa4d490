package models

import "time"

// Session stores server-side login state referenced by the opaque token
// a client presents in its cookie. An expired row counts as not authenticated.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"` // UUID
	UserID    uint      `gorm:"index;not null"`
	Username  string    `gorm:"size:50;not null"`
	Role      string    `gorm:"size:16;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
