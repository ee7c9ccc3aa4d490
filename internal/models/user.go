package models

import "time"

// Role values stored on User rows.
const (
	RoleStandard = "standard"
	RoleAdmin    = "admin"
)

// User represents an application account.
// Version is the optimistic-concurrency token, bumped on every update.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:16;not null;default:standard"`
	Version      uint   `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// An owned movie's lifetime is bounded by its owner's.
	Movies []Movie `gorm:"constraint:OnDelete:CASCADE"`
}
