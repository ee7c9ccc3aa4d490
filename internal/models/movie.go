package models

import "time"

// Movie represents one catalog entry.
// Price is stored in cents to avoid floating-point drift; it is rendered
// as a two-decimal string at the API boundary.
type Movie struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:255;not null"`
	ReleaseDate time.Time `gorm:"not null"`
	Genre       string    `gorm:"size:64;index;not null"`
	PriceCent   int64     `gorm:"not null"`
	Rating      string    `gorm:"size:16;not null"`
	UserID      *uint     `gorm:"index"` // nil means unowned (legacy/seed rows)
	Version     uint      `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	User *User `gorm:"constraint:OnDelete:CASCADE"`
}
