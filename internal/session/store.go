// Package session implements the server-side session store: opaque UUID
// tokens referencing database rows with a sliding idle expiry.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-catalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Claims is the identity a session (or bearer token) proves.
type Claims struct {
	UserID   uint
	Username string
	Role     string
}

// Store persists sessions in the database. Safe for concurrent use; all
// state lives in the session table.
type Store struct {
	db   *gorm.DB
	idle time.Duration
}

// NewStore builds a Store with the given idle timeout. idle <= 0 falls back
// to 30 minutes.
func NewStore(db *gorm.DB, idle time.Duration) *Store {
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &Store{db: db, idle: idle}
}

// Create inserts a session row for the given claims and returns its token.
func (s *Store) Create(ctx context.Context, claims Claims) (string, error) {
	sess := models.Session{
		ID:        uuid.NewString(),
		UserID:    claims.UserID,
		Username:  claims.Username,
		Role:      claims.Role,
		ExpiresAt: time.Now().Add(s.idle),
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return sess.ID, nil
}

// Read resolves a token to its claims. Absent or expired tokens yield
// (nil, nil). A successful read slides the expiry forward by the idle
// timeout; expired rows are deleted on sight.
func (s *Store) Read(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, nil
	}
	var sess models.Session
	err := s.db.WithContext(ctx).First(&sess, "id = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	now := time.Now()
	if !now.Before(sess.ExpiresAt) {
		_ = s.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", token).Error
		return nil, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", token).
		Update("expires_at", now.Add(s.idle)).Error; err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}

	return &Claims{UserID: sess.UserID, Username: sess.Username, Role: sess.Role}, nil
}

// Destroy removes a session row. Destroying an unknown token is a no-op.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", token).Error; err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// PurgeExpired deletes all sessions past their expiry and returns the count.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
